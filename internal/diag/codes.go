package diag

import "fmt"

// Code is a diagnostic code in the same numbering space the reference
// TypeScript compiler uses (spec §8: "diagnostic codes follow tsc's own
// numbering so fixtures can be cross-checked against real compiler output").
// Unlike a compiler with its own private code space, there is no category
// prefix to pick between: every code here renders as "TSxxxx".
type Code uint16

const (
	UnknownCode Code = 0

	// Syntax / grammar (spec §4.8 "modifier legality", "parameter rules").
	TS1016  Code = 1016  // a required parameter cannot follow an optional parameter
	TS1030  Code = 1030  // modifier already seen
	TS1055  Code = 1055  // type is not a valid async function return type
	TS1064  Code = 1064  // the return type of an async function must be the global Promise<T> type
	TS1183  Code = 1183  // an implementation cannot be declared in ambient contexts
	TS1192  Code = 1192  // module has no default export
	TS1244  Code = 1244  // abstract methods can only appear within an abstract class
	TS1253  Code = 1253  // abstract properties can only appear within an abstract class
	TS1259  Code = 1259  // module can only be default-imported using esModuleInterop
	TS1308  Code = 1308  // 'await' expression is only allowed within an async function
	TS18013 Code = 18013 // private identifier is not allowed outside a class body
	TS18016 Code = 18016 // private identifiers are not allowed in variable declarations
	TS18019 Code = 18019 // '#' can only be used at the start of a private identifier
	TS18028 Code = 18028 // private identifiers are only available when targeting ES2015 and higher

	// Semantic checks, module resolution and flow analysis.
	TS17009 Code = 17009 // 'super' must be called before accessing 'this' in a derived class constructor
	TS2300  Code = 2300  // duplicate identifier
	TS2304  Code = 2304  // cannot find name
	TS2305  Code = 2305  // module has no exported member
	TS2307  Code = 2307  // cannot find module or its corresponding type declarations
	TS2313  Code = 2313  // type parameter has a circular constraint
	TS2314  Code = 2314  // generic type requires type arguments
	TS2315  Code = 2315  // type is not generic
	TS2318  Code = 2318  // cannot find global type
	TS2322  Code = 2322  // type is not assignable to type
	TS2352  Code = 2352  // conversion of type may be a mistake because neither type sufficiently overlaps with the other
	TS2339  Code = 2339  // property does not exist on type
	TS2344  Code = 2344  // type does not satisfy the constraint
	TS2345  Code = 2345  // argument is not assignable to parameter
	TS2366  Code = 2366  // function lacks ending return statement
	TS2370  Code = 2370  // a rest parameter must be of an array type
	TS2377  Code = 2377  // constructors for derived classes must contain a super call
	TS2387  Code = 2387  // function overload must be static/instance consistently
	TS2392  Code = 2392  // multiple constructor implementations are not allowed
	TS2393  Code = 2393  // duplicate function implementation
	TS2394  Code = 2394  // overload signature is not compatible with its implementation
	TS2411  Code = 2411  // property is incompatible with index signature
	TS2416  Code = 2416  // class property is not assignable to the same property in base class
	TS2417  Code = 2417  // class static side incorrectly extends base class static side
	TS2420  Code = 2420  // class incorrectly implements interface
	TS2422  Code = 2422  // a class can only implement an object type with statically known members
	TS2449  Code = 2449  // class used before its declaration
	TS2450  Code = 2450  // enum used before its declaration
	TS2454  Code = 2454  // variable is used before being assigned
	TS2503  Code = 2503  // cannot find namespace
	TS2507  Code = 2507  // type is not a constructor function type
	TS2524  Code = 2524  // 'await' expressions cannot be used in a parameter initializer
	TS2531  Code = 2531  // object is possibly 'null'
	TS2532  Code = 2532  // object is possibly 'undefined'
	TS2533  Code = 2533  // object is possibly 'null' or 'undefined'
	TS2551  Code = 2551  // property does not exist on type, did you mean
	TS2552  Code = 2552  // cannot find name, did you mean
	TS2556  Code = 2556  // a spread argument must either have a tuple type or be passed to a rest parameter
	TS2559  Code = 2559  // type has no properties in common with type
	TS2564  Code = 2564  // property has no initializer and is not definitely assigned in the constructor
	TS2565  Code = 2565  // property is used before being assigned
	TS2675  Code = 2675  // cannot extend a class whose constructor is marked as private
	TS2689  Code = 2689  // cannot extend a type; only classes extend other classes
	TS2694  Code = 2694  // namespace has no exported member
	TS2705  Code = 2705  // async function/method needs --target es2015 or higher
	TS2725  Code = 2725  // class name cannot be 'Object' when targeting ES5 with a module system
	TS2732  Code = 2732  // cannot find module, consider enabling resolveJsonModule
	TS2741  Code = 2741  // property is missing in type but required in type
	TS2769  Code = 2769  // no overload matches this call
	TS2792  Code = 2792  // cannot find module, did you mean to set moduleResolution to node?
	TS2803  Code = 2803  // cannot assign to a private-readonly property outside the constructor
	TS2813  Code = 2813  // class declaration cannot implement overload list
	TS2814  Code = 2814  // function with bodies can only merge with classes that are ambient
	TS2834  Code = 2834  // relative import paths need explicit extensions under the module's resolution setting
	TS2835  Code = 2835  // relative import path should end with an extension
	TS2863  Code = 2863  // a class cannot extend a primitive type
	TS2589  Code = 2589  // type instantiation is excessively deep and possibly infinite
	TS7027  Code = 7027  // unreachable code detected
	TS7030  Code = 7030  // not all code paths return a value
	TS7053  Code = 7053  // element implicitly has an 'any' type because expression can't be used to index type
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown diagnostic",

	TS1016:  "a required parameter cannot follow an optional parameter",
	TS1030:  "modifier already seen",
	TS1055:  "type is not a valid async function return type",
	TS1064:  "the return type of an async function must be the global Promise<T> type",
	TS1183:  "an implementation cannot be declared in ambient contexts",
	TS1192:  "module has no default export",
	TS1244:  "abstract methods can only appear within an abstract class",
	TS1253:  "abstract properties can only appear within an abstract class",
	TS1259:  "module can only be default-imported using the 'esModuleInterop' flag",
	TS1308:  "'await' expression is only allowed within an async function",
	TS18013: "a private identifier is not allowed outside a class body",
	TS18016: "private identifiers are not allowed in variable declarations",
	TS18019: "'#' can only be used at the start of a private identifier",
	TS18028: "private identifiers are only available when targeting ES2015 and higher",

	TS17009: "'super' must be called before accessing 'this' in a derived class constructor",
	TS2300:  "duplicate identifier",
	TS2304:  "cannot find name",
	TS2305:  "module has no exported member",
	TS2307:  "cannot find module or its corresponding type declarations",
	TS2313:  "type parameter has a circular constraint",
	TS2314:  "generic type requires type arguments",
	TS2315:  "type is not generic",
	TS2318:  "cannot find global type",
	TS2322:  "type is not assignable to type",
	TS2352:  "conversion of type may be a mistake because neither type sufficiently overlaps with the other",
	TS2339:  "property does not exist on type",
	TS2344:  "type does not satisfy the constraint",
	TS2345:  "argument of type is not assignable to parameter of type",
	TS2366:  "function lacks ending return statement and return type does not include 'undefined'",
	TS2370:  "a rest parameter must be of an array type",
	TS2377:  "constructors for derived classes must contain a 'super' call",
	TS2387:  "function overload must be static or instance consistently",
	TS2392:  "multiple constructor implementations are not allowed",
	TS2393:  "duplicate function implementation",
	TS2394:  "this overload signature is not compatible with its implementation signature",
	TS2411:  "property is incompatible with index signature",
	TS2416:  "class property is not assignable to the same property in the base class",
	TS2417:  "class static side incorrectly extends base class static side",
	TS2420:  "class incorrectly implements interface",
	TS2422:  "a class can only implement an object type or intersection of object types with statically known members",
	TS2449:  "class used before its declaration",
	TS2450:  "enum used before its declaration",
	TS2454:  "variable is used before being assigned",
	TS2503:  "cannot find namespace",
	TS2507:  "type is not a constructor function type",
	TS2524:  "'await' expressions cannot be used in a parameter initializer",
	TS2531:  "object is possibly 'null'",
	TS2532:  "object is possibly 'undefined'",
	TS2533:  "object is possibly 'null' or 'undefined'",
	TS2551:  "property does not exist on type, did you mean",
	TS2552:  "cannot find name, did you mean",
	TS2556:  "a spread argument must either have a tuple type or be passed to a rest parameter",
	TS2559:  "type has no properties in common with type",
	TS2564:  "property has no initializer and is not definitely assigned in the constructor",
	TS2565:  "property is used before being assigned",
	TS2675:  "cannot extend a class whose constructor is marked as private",
	TS2689:  "cannot extend a type; only classes extend other classes",
	TS2694:  "namespace has no exported member",
	TS2705:  "an async function or method requires a target of 'es2015' or higher",
	TS2725:  "class name cannot be 'Object' when targeting ES5 with a module system",
	TS2732:  "cannot find module; consider enabling 'resolveJsonModule'",
	TS2741:  "property is missing in type but required in type",
	TS2769:  "no overload matches this call",
	TS2792:  "cannot find module; did you mean to set the 'moduleResolution' option to 'node'?",
	TS2803:  "cannot assign to a private-readonly property outside of the constructor",
	TS2813:  "class declaration cannot implement overload list",
	TS2814:  "function with bodies can only merge with classes that are ambient",
	TS2834:  "relative import paths need explicit file extensions",
	TS2835:  "relative import paths need an explicit file extension",
	TS2863:  "a class cannot extend a primitive type",
	TS2589:  "type instantiation is excessively deep and possibly infinite",
	TS7027:  "unreachable code detected",
	TS7030:  "not all code paths return a value",
	TS7053:  "element implicitly has an 'any' type because expression can't be used to index type",
}

// ID renders a code the way tsc reports it on the command line and in
// fixture golden files ("TS2322"), not a category-prefixed scheme — there is
// exactly one family of diagnostics here, the checker's own.
func (c Code) ID() string {
	if c == UnknownCode {
		return "TS0000"
	}
	return fmt.Sprintf("TS%d", uint16(c))
}

// Title returns the code's canonical one-line message template.
func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("%s: %s", c.ID(), c.Title())
}
