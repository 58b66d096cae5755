package checker

import (
	"github.com/vovakirdan/tscheck/internal/assign"
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/flow"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/types"
)

// typeExpr assigns a TypeID to expr, reporting any diagnostic that depends
// on its type as a side effect (spec §4.8 "expression checking").
func (c *Checker) typeExpr(id ast.ExprID) types.TypeID {
	b := c.Types.Builtins()
	if !id.IsValid() {
		return b.Any
	}
	node := c.Exprs.Get(id)
	if node == nil {
		return b.Error
	}

	switch node.Kind {
	case ast.ExprIdent:
		return c.typeIdent(id, node)
	case ast.ExprStringLit:
		s := c.Exprs.Strings.Get(node.Payload)
		if s == nil {
			return b.Error
		}
		return c.Types.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueString, Str: s.Value})
	case ast.ExprNumberLit:
		n := c.Exprs.Numbers.Get(node.Payload)
		if n == nil {
			return b.Error
		}
		return c.Types.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueNumber, Num: n.Value})
	case ast.ExprBigIntLit:
		return b.BigInt
	case ast.ExprBoolLit:
		bl := c.Exprs.Bools.Get(node.Payload)
		if bl == nil {
			return b.Error
		}
		return c.Types.InternLiteral(types.LiteralInfo{ValueKind: types.LiteralValueBoolean, Bool: bl.Value})
	case ast.ExprNullLit:
		return b.Null
	case ast.ExprUndefinedLit:
		return b.Undefined
	case ast.ExprThis:
		if cf := c.currentClass(); cf != nil {
			return cf.instance
		}
		return b.Any
	case ast.ExprSuper:
		return b.Any
	case ast.ExprArrayLit:
		return c.typeArrayLit(node)
	case ast.ExprObjectLit:
		return c.typeObjectLit(node)
	case ast.ExprPropertyAccess:
		return c.typePropertyAccess(id, node)
	case ast.ExprElementAccess:
		return c.typeElementAccess(id, node)
	case ast.ExprCall:
		return c.typeCall(node)
	case ast.ExprNew:
		return c.typeNew(node)
	case ast.ExprBinary:
		return c.typeBinary(node)
	case ast.ExprUnary:
		return c.typeUnary(node)
	case ast.ExprUpdate:
		u := c.Exprs.Updates.Get(node.Payload)
		if u != nil {
			c.typeExpr(u.Operand)
		}
		return b.Number
	case ast.ExprAssign:
		return c.typeAssign(node)
	case ast.ExprConditional:
		cond := c.Exprs.Conditionals.Get(node.Payload)
		if cond == nil {
			return b.Error
		}
		c.typeExpr(cond.Cond)
		thenT := c.typeExpr(cond.Then)
		elseT := c.typeExpr(cond.Else)
		return c.Types.InternUnion([]types.TypeID{thenT, elseT})
	case ast.ExprSequence:
		seq := c.Exprs.Sequences.Get(node.Payload)
		if seq == nil || len(seq.Exprs) == 0 {
			return b.Any
		}
		var last types.TypeID
		for _, e := range seq.Exprs {
			last = c.typeExpr(e)
		}
		return last
	case ast.ExprTemplate:
		tpl := c.Exprs.Templates.Get(node.Payload)
		if tpl != nil {
			for _, sp := range tpl.Spans {
				c.typeExpr(sp.Expr)
			}
		}
		return b.String
	case ast.ExprTaggedTemplate:
		tt := c.Exprs.TaggedTemplates.Get(node.Payload)
		if tt != nil {
			c.typeExpr(tt.Tag)
		}
		return b.Any
	case ast.ExprSpread:
		sp := c.Exprs.Spreads.Get(node.Payload)
		if sp == nil {
			return b.Any
		}
		return c.typeExpr(sp.Expr)
	case ast.ExprArrow:
		return c.typeArrow(node)
	case ast.ExprFunctionExpr:
		return c.typeFunctionExpr(node)
	case ast.ExprClassExpr:
		return b.Any
	case ast.ExprParen:
		p := c.Exprs.Parens.Get(node.Payload)
		if p == nil {
			return b.Error
		}
		return c.typeExpr(p.Inner)
	case ast.ExprAs:
		return c.typeAs(node)
	case ast.ExprSatisfies:
		s := c.Exprs.Satisfies.Get(node.Payload)
		if s == nil {
			return b.Error
		}
		exprType := c.typeExpr(s.Expr)
		target := c.Lower.TypeFromNode(s.Type, nil)
		if !c.Assign.IsAssignable(exprType, target, assign.Flags{}) {
			c.report(diag.TS2322, c.exprSpan(s.Expr), "type does not satisfy the expected type")
		}
		return exprType
	case ast.ExprNonNull:
		nn := c.Exprs.NonNulls.Get(node.Payload)
		if nn == nil {
			return b.Error
		}
		return c.stripNullableAndUndefined(c.typeExpr(nn.Expr))
	case ast.ExprTypeOf:
		tof := c.Exprs.TypeOfs.Get(node.Payload)
		if tof != nil {
			c.typeExpr(tof.Expr)
		}
		return b.String
	case ast.ExprAwait:
		aw := c.Exprs.Awaits.Get(node.Payload)
		if aw == nil {
			return b.Any
		}
		c.awaitDepth++
		if rf := c.currentReturn(); rf == nil || !rf.isAsync {
			c.report(diag.TS1308, node.Span, "'await' expression is only allowed within an async function")
		}
		inner := c.typeExpr(aw.Expr)
		c.awaitDepth--
		return inner
	case ast.ExprYield:
		y := c.Exprs.Yields.Get(node.Payload)
		if y != nil && y.Expr.IsValid() {
			c.typeExpr(y.Expr)
		}
		return b.Any
	default:
		return b.Any
	}
}

func (c *Checker) typeIdent(id ast.ExprID, node *ast.Expr) types.TypeID {
	b := c.Types.Builtins()
	ident := c.Exprs.Idents.Get(node.Payload)
	if ident == nil {
		return b.Error
	}
	if c.Hooks.ExprSymbol == nil {
		return b.Any
	}
	sym, ok := c.Hooks.ExprSymbol(id)
	if !ok {
		if txt, lookupOK := c.Strs.Lookup(ident.Name); lookupOK {
			c.report(diag.TS2304, node.Span, "cannot find name '"+txt+"'")
		} else {
			c.report(diag.TS2304, node.Span, "cannot find name")
		}
		return b.Error
	}
	declared := c.bindingTypeOf(sym)
	if c.Flow == nil || c.Hooks.FlowAt == nil {
		return declared
	}
	fnode := c.Hooks.FlowAt(id)
	if !fnode.IsValid() {
		return declared
	}
	opts := flow.NarrowOptions{MutableBinding: c.Flow.IsMutableBinding(sym)}
	return c.Flow.NarrowTypeAt(fnode, sym, declared, opts)
}

func (c *Checker) typeArrayLit(node *ast.Expr) types.TypeID {
	b := c.Types.Builtins()
	lit := c.Exprs.Arrays.Get(node.Payload)
	if lit == nil || len(lit.Elements) == 0 {
		return c.Types.InternArray(b.Any)
	}
	members := make([]types.TypeID, 0, len(lit.Elements))
	for _, el := range lit.Elements {
		members = append(members, c.typeExpr(el))
	}
	return c.Types.InternArray(c.Types.InternUnion(members))
}

func (c *Checker) typeObjectLit(node *ast.Expr) types.TypeID {
	lit := c.Exprs.Objects.Get(node.Payload)
	if lit == nil {
		return c.Types.Builtins().Any
	}
	var props []types.Property
	for _, p := range lit.Properties {
		if p.IsSpread {
			spreadType := c.typeExpr(p.Value)
			if _, spreadProps, ok := c.Types.ObjectInfo(spreadType); ok {
				props = append(props, spreadProps...)
			}
			continue
		}
		valueType := c.typeExpr(p.Value)
		name := p.Key
		if p.ComputedKey.IsValid() {
			c.typeExpr(p.ComputedKey)
			continue
		}
		props = append(props, types.Property{Name: name, Type: valueType})
	}
	return c.Types.Freshen(c.Types.InternObject(props))
}

func (c *Checker) typePropertyAccess(id ast.ExprID, node *ast.Expr) types.TypeID {
	b := c.Types.Builtins()
	pa := c.Exprs.PropertyAccess.Get(node.Payload)
	if pa == nil {
		return b.Error
	}
	c.checkPrivateIdentifier(pa.Name, node.Span)
	objType := c.typeExpr(pa.Target)
	if pa.IsOptional {
		objType = c.stripNullableAndUndefined(objType)
	}
	res := c.Types.PropertyAccess(objType, pa.Name)
	switch res.Kind {
	case types.AccessSuccess:
		return res.Type
	case types.AccessIsUnknown:
		c.report(diag.TS2339, node.Span, "object is of type 'unknown'")
		return b.Error
	case types.AccessPossiblyNullOrUndefined:
		hasNull, hasUndef := c.isNullable(objType)
		switch {
		case hasNull && hasUndef:
			c.report(diag.TS2533, node.Span, "object is possibly 'null' or 'undefined'")
		case hasNull:
			c.report(diag.TS2531, node.Span, "object is possibly 'null'")
		default:
			c.report(diag.TS2532, node.Span, "object is possibly 'undefined'")
		}
		return b.Error
	default:
		if txt, ok := c.Strs.Lookup(pa.Name); ok {
			c.report(diag.TS2339, node.Span, "property '"+txt+"' does not exist on this type")
		} else {
			c.report(diag.TS2339, node.Span, "property does not exist on this type")
		}
		return b.Error
	}
}

func (c *Checker) typeElementAccess(id ast.ExprID, node *ast.Expr) types.TypeID {
	b := c.Types.Builtins()
	ea := c.Exprs.ElementAccess.Get(node.Payload)
	if ea == nil {
		return b.Error
	}
	objType := c.typeExpr(ea.Target)
	if ea.IsOptional {
		objType = c.stripNullableAndUndefined(objType)
	}
	c.typeExpr(ea.Index)
	if t, ok := c.Types.Lookup(objType); ok && t.Kind == types.KindArray {
		return c.Types.ArrayElement(objType)
	}
	if info, _, ok := c.Types.ObjectInfo(objType); ok {
		if info.StringIndex != types.NoTypeID {
			return info.StringIndex
		}
		if info.NumberIndex != types.NoTypeID {
			return info.NumberIndex
		}
	}
	if objType == b.Any || objType == b.Error {
		return objType
	}
	c.report(diag.TS7053, node.Span, "element implicitly has an 'any' type because expression can't be used to index this type")
	return b.Any
}

func (c *Checker) typeCall(node *ast.Expr) types.TypeID {
	b := c.Types.Builtins()
	call := c.Exprs.Calls.Get(node.Payload)
	if call == nil {
		return b.Error
	}
	calleeType := c.typeExpr(call.Callee)
	if call.IsOptional {
		calleeType = c.stripNullableAndUndefined(calleeType)
	}
	argTypes := make([]types.TypeID, 0, len(call.Args))
	for _, a := range call.Args {
		argTypes = append(argTypes, c.typeExpr(a))
	}
	if calleeType == b.Any || calleeType == b.Error {
		return b.Any
	}
	sig, ok := c.Types.FuncInfo(calleeType)
	if !ok {
		if callable, _, okc := c.Types.CallableInfo(calleeType); okc && len(callable.CallSigs) > 0 {
			return c.checkCallAgainstSignatures(callable.CallSigs, call.Args, argTypes, node.Span)
		}
		c.report(diag.TS2769, node.Span, "no overload matches this call")
		return b.Any
	}
	return c.checkCallAgainstSignatures([]types.Signature{sig.Sig}, call.Args, argTypes, node.Span)
}

func (c *Checker) checkCallAgainstSignatures(sigs []types.Signature, args []ast.ExprID, argTypes []types.TypeID, sp source.Span) types.TypeID {
	b := c.Types.Builtins()
	for _, sig := range sigs {
		if c.argsMatchSignature(sig, args, argTypes) {
			return sig.Return
		}
	}
	if len(sigs) == 1 {
		sig := sigs[0]
		for i, want := range sig.Params {
			if i >= len(argTypes) {
				break
			}
			if !c.Assign.IsAssignable(argTypes[i], want.Type, assign.Flags{}) {
				c.report(diag.TS2345, c.exprSpan(args[i]), "argument is not assignable to the parameter type")
			}
		}
		return sig.Return
	}
	c.report(diag.TS2769, sp, "no overload matches this call")
	return b.Any
}

func (c *Checker) argsMatchSignature(sig types.Signature, args []ast.ExprID, argTypes []types.TypeID) bool {
	for i, want := range sig.Params {
		if i >= len(argTypes) {
			return want.Optional || want.Rest
		}
		if !c.Assign.IsAssignable(argTypes[i], want.Type, assign.Flags{}) {
			return false
		}
	}
	return true
}

func (c *Checker) typeNew(node *ast.Expr) types.TypeID {
	b := c.Types.Builtins()
	n := c.Exprs.News.Get(node.Payload)
	if n == nil {
		return b.Error
	}
	calleeType := c.typeExpr(n.Callee)
	argTypes := make([]types.TypeID, 0, len(n.Args))
	for _, a := range n.Args {
		argTypes = append(argTypes, c.typeExpr(a))
	}
	ctors := c.Types.GetConstructSignatures(calleeType)
	if len(ctors) == 0 {
		if calleeType == b.Any {
			return b.Any
		}
		c.report(diag.TS2507, node.Span, "type is not a constructor function type")
		return b.Any
	}
	return c.checkCallAgainstSignatures(ctors, n.Args, argTypes, node.Span)
}

func (c *Checker) typeBinary(node *ast.Expr) types.TypeID {
	b := c.Types.Builtins()
	bin := c.Exprs.Binaries.Get(node.Payload)
	if bin == nil {
		return b.Error
	}
	left := c.typeExpr(bin.Left)
	right := c.typeExpr(bin.Right)
	switch bin.Op {
	case ast.BinAdd:
		if left == b.String || right == b.String {
			return b.String
		}
		return b.Number
	case ast.BinSub, ast.BinMul, ast.BinDiv, ast.BinMod, ast.BinPow,
		ast.BinBitAnd, ast.BinBitOr, ast.BinBitXor, ast.BinShl, ast.BinShr, ast.BinUShr:
		return b.Number
	case ast.BinEq, ast.BinNotEq, ast.BinStrictEq, ast.BinStrictNotEq,
		ast.BinLt, ast.BinLtEq, ast.BinGt, ast.BinGtEq, ast.BinIn, ast.BinInstanceof:
		return b.Boolean
	case ast.BinAnd:
		return right
	case ast.BinOr:
		return c.Types.InternUnion([]types.TypeID{left, right})
	case ast.BinNullish:
		return c.Types.InternUnion([]types.TypeID{c.stripNullableAndUndefined(left), right})
	case ast.BinComma:
		return right
	default:
		return b.Any
	}
}

func (c *Checker) typeUnary(node *ast.Expr) types.TypeID {
	b := c.Types.Builtins()
	u := c.Exprs.Unaries.Get(node.Payload)
	if u == nil {
		return b.Error
	}
	operand := c.typeExpr(u.Operand)
	switch u.Op {
	case ast.UnaryNot, ast.UnaryDelete:
		return b.Boolean
	case ast.UnaryVoid:
		return b.Undefined
	case ast.UnaryPlus, ast.UnaryMinus, ast.UnaryBitNot:
		return b.Number
	default:
		return operand
	}
}

func (c *Checker) typeAssign(node *ast.Expr) types.TypeID {
	asn := c.Exprs.Assigns.Get(node.Payload)
	if asn == nil {
		return c.Types.Builtins().Error
	}
	targetType := c.typeExpr(asn.Target)
	valueType := c.typeExpr(asn.Value)
	if asn.Op == ast.AssignPlain && targetType != c.Types.Builtins().Any {
		if !c.Assign.IsAssignable(valueType, targetType, assign.Flags{}) {
			c.report(diag.TS2322, c.exprSpan(asn.Value), "type is not assignable to the target type")
		}
	}
	return valueType
}

func (c *Checker) typeArrow(node *ast.Expr) types.TypeID {
	arrow := c.Exprs.Arrows.Get(node.Payload)
	if arrow == nil {
		return c.Types.Builtins().Error
	}
	return c.checkFunctionLike(arrow.Params, arrow.ReturnType, arrow.Body, arrow.BlockBody, arrow.IsAsync, false)
}

func (c *Checker) typeFunctionExpr(node *ast.Expr) types.TypeID {
	fn := c.Exprs.FunctionExprs.Get(node.Payload)
	if fn == nil {
		return c.Types.Builtins().Error
	}
	return c.checkFunctionLike(fn.Params, fn.ReturnType, ast.NoExprID, fn.Body, fn.IsAsync, fn.IsGenerator)
}

// checkFunctionLike builds a function type for an arrow/function expression
// and checks its body under a fresh return-context frame (spec §4.8 "return/
// yield/await validation against frame stacks").
func (c *Checker) checkFunctionLike(paramIDs []ast.ParamID, retAnn ast.TypeNodeID, exprBody ast.ExprID, blockBody ast.StmtID, isAsync, isGenerator bool) types.TypeID {
	b := c.Types.Builtins()
	params := make([]types.Param, 0, len(paramIDs))
	for _, pid := range paramIDs {
		p := c.Decls.Params.Get(uint32(pid))
		if p == nil {
			continue
		}
		pt := b.Any
		if p.TypeAnn != ast.NoTypeNodeID {
			pt = c.Lower.TypeFromNode(p.TypeAnn, nil)
		}
		params = append(params, types.Param{Name: uint32(p.Name), Type: pt, Optional: p.IsOptional, Rest: p.IsRest})
	}
	ret := b.Any
	if retAnn != ast.NoTypeNodeID {
		ret = c.Lower.TypeFromNode(retAnn, nil)
	}
	sp := source.Span{}
	c.pushReturn(ret, sp, isAsync, isGenerator)
	if exprBody.IsValid() {
		bodyType := c.typeExpr(exprBody)
		if retAnn == ast.NoTypeNodeID {
			ret = bodyType
		} else if !c.Assign.IsAssignable(bodyType, ret, assign.Flags{}) {
			c.report(diag.TS2322, c.exprSpan(exprBody), "type is not assignable to the declared return type")
		}
	} else if blockBody.IsValid() {
		c.checkStmt(blockBody)
		if ret != b.Any && ret != types.NoTypeID && !isGenerator {
			if !c.blockAlwaysReturns(blockBody) {
				c.report(diag.TS2366, sp, "function lacks ending return statement and return type does not include 'undefined'")
			}
		}
	}
	c.popReturn()
	return c.Types.InternFunction(types.Signature{Params: params, Return: ret}, false)
}

// checkPrivateIdentifier validates the small set of private-identifier
// rules that don't need full class-member resolution (spec §4.8
// "private-identifier rules").
func (c *Checker) checkPrivateIdentifier(name source.StringID, sp source.Span) {
	txt, ok := c.Strs.Lookup(name)
	if !ok || len(txt) == 0 || txt[0] != '#' {
		return
	}
	if c.currentClass() == nil {
		c.report(diag.TS18013, sp, "a private identifier is not allowed outside a class body")
	}
	for i := 1; i < len(txt); i++ {
		if txt[i] == '#' {
			c.report(diag.TS18019, sp, "'#' can only be used at the start of a private identifier")
			break
		}
	}
}

func (c *Checker) typeAs(node *ast.Expr) types.TypeID {
	as := c.Exprs.As.Get(node.Payload)
	if as == nil {
		return c.Types.Builtins().Error
	}
	exprType := c.typeExpr(as.Expr)
	if as.IsConstAssertion {
		return c.Types.Widen(exprType)
	}
	target := c.Lower.TypeFromNode(as.Type, nil)
	if !c.Assign.IsComparable(exprType, target, assign.Flags{}) {
		c.report(diag.TS2352, c.exprSpan(as.Expr), "conversion of type may be a mistake because neither type sufficiently overlaps with the other")
	}
	return target
}
