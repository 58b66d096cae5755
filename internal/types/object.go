package types

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/source"
)

// Property is one member of an Object/ObjectWithIndex/Callable type (spec §3:
// "name atom, type, optional flag, readonly flag, method flag, write-type").
type Property struct {
	Name     source.StringID
	Type     TypeID
	Write    TypeID // distinct setter-accepted type; NoTypeID when same as Type
	Optional bool
	Readonly bool
	Method   bool
}

func propertyKey(p Property) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%d|%d|%t|%t|%t;", p.Name, p.Type, p.Write, p.Optional, p.Readonly, p.Method)
	return b.String()
}

func propertyListKey(props []Property) string {
	var b strings.Builder
	for _, p := range props {
		b.WriteString(propertyKey(p))
	}
	return b.String()
}

// ObjectInfo is the side-table payload for KindObject/KindObjectWithIndex.
type ObjectInfo struct {
	Properties      uint32 // slot in the Property listPool
	StringIndex     TypeID
	StringIndexRO   bool
	NumberIndex     TypeID
	NumberIndexRO   bool
	OwningDef       defs.DefID // set for nominal class instance types
}

// InternObject interns a plain object type with no index signatures.
func (in *Interner) InternObject(props []Property) TypeID {
	return in.internObject(props, NoTypeID, false, NoTypeID, false, defs.NoDefID, false)
}

// InternObjectWithOwner interns a nominal class-instance object type.
func (in *Interner) InternObjectWithOwner(props []Property, owner defs.DefID, fresh bool) TypeID {
	return in.internObject(props, NoTypeID, false, NoTypeID, false, owner, fresh)
}

// InternObjectWithIndex interns an object type carrying string and/or number
// index signatures (spec §3 "ObjectWithIndex").
func (in *Interner) InternObjectWithIndex(props []Property, strIdx TypeID, strRO bool, numIdx TypeID, numRO bool) TypeID {
	return in.internObject(props, strIdx, strRO, numIdx, numRO, defs.NoDefID, false)
}

// Freshen returns a distinct TypeID carrying the freshness flag for an
// object-literal type, never merging with its widened counterpart (spec §3
// "Fresh-vs-widened object types are interned distinctly").
func (in *Interner) Freshen(id TypeID) TypeID {
	t, ok := in.Lookup(id)
	if !ok || (t.Kind != KindObject && t.Kind != KindObjectWithIndex) || t.Fresh {
		return id
	}
	t.Fresh = true
	return in.intern(t)
}

// Widen returns the non-fresh counterpart of a (possibly fresh) object type.
func (in *Interner) Widen(id TypeID) TypeID {
	t, ok := in.Lookup(id)
	if !ok || (t.Kind != KindObject && t.Kind != KindObjectWithIndex) || !t.Fresh {
		return id
	}
	t.Fresh = false
	return in.intern(t)
}

func (in *Interner) internObject(props []Property, strIdx TypeID, strRO bool, numIdx TypeID, numRO bool, owner defs.DefID, fresh bool) TypeID {
	sorted := sortedProperties(props)
	slot := in.propLists.intern(propertyListKey(sorted), sorted)
	info := ObjectInfo{
		Properties:    slot,
		StringIndex:   strIdx,
		StringIndexRO: strRO,
		NumberIndex:   numIdx,
		NumberIndexRO: numRO,
		OwningDef:     owner,
	}
	payload := in.appendObjectInfo(info)
	kind := KindObject
	if strIdx != NoTypeID || numIdx != NoTypeID {
		kind = KindObjectWithIndex
	}
	return in.intern(Type{Kind: kind, Payload: payload, Fresh: fresh})
}

func (in *Interner) appendObjectInfo(info ObjectInfo) uint32 {
	for i := 1; i < len(in.objects); i++ {
		if in.objects[i] == info {
			return uint32(i)
		}
	}
	in.objects = append(in.objects, info)
	return uint32(len(in.objects) - 1)
}

// sortedProperties returns props sorted by name atom, the stable key the
// dedup list pool and union-member normalization rely on.
func sortedProperties(props []Property) []Property {
	if len(props) < 2 {
		return props
	}
	out := make([]Property, len(props))
	copy(out, props)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Name > out[j].Name; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// ObjectInfo returns the property/index-signature metadata for an object type.
func (in *Interner) ObjectInfo(id TypeID) (ObjectInfo, []Property, bool) {
	t, ok := in.Lookup(id)
	if !ok || (t.Kind != KindObject && t.Kind != KindObjectWithIndex) {
		return ObjectInfo{}, nil, false
	}
	info := in.objects[t.Payload]
	return info, in.propLists.get(info.Properties), true
}

// PropertyAccessResult is the outcome of PropertyAccess (spec §4.1).
type PropertyAccessResult struct {
	Kind            PropertyAccessKind
	Type            TypeID
	FromIndex       bool
}

// PropertyAccessKind enumerates the four PropertyAccess outcomes.
type PropertyAccessKind uint8

const (
	AccessSuccess PropertyAccessKind = iota
	AccessNotFound
	AccessPossiblyNullOrUndefined
	AccessIsUnknown
)

// PropertyAccess resolves `id.name` per spec §4.1: primitives fall back to
// their boxed type, `never` returns `never`, unions combine per-member
// results, and index signatures report success with FromIndex set.
func (in *Interner) PropertyAccess(id TypeID, name source.StringID) PropertyAccessResult {
	t, ok := in.Lookup(id)
	if !ok {
		return PropertyAccessResult{Kind: AccessNotFound}
	}
	switch t.Kind {
	case KindIntrinsic:
		switch IntrinsicKind(t.Payload) {
		case IntrinsicAny:
			return PropertyAccessResult{Kind: AccessSuccess, Type: id}
		case IntrinsicNever:
			return PropertyAccessResult{Kind: AccessSuccess, Type: in.builtins.Never}
		case IntrinsicUnknown:
			return PropertyAccessResult{Kind: AccessIsUnknown}
		case IntrinsicNull, IntrinsicUndefined:
			return PropertyAccessResult{Kind: AccessPossiblyNullOrUndefined}
		case IntrinsicString, IntrinsicNumber, IntrinsicBoolean, IntrinsicBigInt, IntrinsicSymbol:
			if boxed, ok := in.boxedTypes[IntrinsicKind(t.Payload)]; ok {
				return in.PropertyAccess(boxed, name)
			}
			return PropertyAccessResult{Kind: AccessNotFound}
		}
		return PropertyAccessResult{Kind: AccessNotFound}
	case KindError:
		return PropertyAccessResult{Kind: AccessSuccess, Type: id}
	case KindObject, KindObjectWithIndex:
		return in.propertyAccessObject(t, name)
	case KindCallable:
		return in.propertyAccessCallable(t, name)
	case KindUnion:
		return in.propertyAccessUnion(t, name)
	case KindArray:
		if name == arrayLengthAtom {
			return PropertyAccessResult{Kind: AccessSuccess, Type: in.builtins.Number}
		}
		return PropertyAccessResult{Kind: AccessNotFound}
	default:
		return PropertyAccessResult{Kind: AccessNotFound}
	}
}

// arrayLengthAtom is populated by RegisterLengthAtom once the driver's string
// interner has assigned "length" an id; property access on arrays needs it
// before any object has been built.
var arrayLengthAtom source.StringID

// RegisterLengthAtom records the interned id of the "length" property name so
// PropertyAccess can special-case array/tuple length without allocating a
// synthetic object type for every array.
func RegisterLengthAtom(id source.StringID) { arrayLengthAtom = id }

func (in *Interner) propertyAccessObject(t Type, name source.StringID) PropertyAccessResult {
	info := in.objects[t.Payload]
	props := in.propLists.get(info.Properties)
	for _, p := range props {
		if p.Name == name {
			return PropertyAccessResult{Kind: AccessSuccess, Type: p.Type}
		}
	}
	if info.StringIndex != NoTypeID {
		return PropertyAccessResult{Kind: AccessSuccess, Type: info.StringIndex, FromIndex: true}
	}
	return PropertyAccessResult{Kind: AccessNotFound}
}

func (in *Interner) propertyAccessCallable(t Type, name source.StringID) PropertyAccessResult {
	callable := in.callables[t.Payload]
	props := in.propLists.get(in.objects[callable.Object].Properties)
	for _, p := range props {
		if p.Name == name {
			return PropertyAccessResult{Kind: AccessSuccess, Type: p.Type}
		}
	}
	return PropertyAccessResult{Kind: AccessNotFound}
}

func (in *Interner) propertyAccessUnion(t Type, name source.StringID) PropertyAccessResult {
	info := in.unions[t.Payload]
	ids := in.idLists.get(info.Members)
	var results []TypeID
	for _, m := range ids {
		r := in.PropertyAccess(m, name)
		switch r.Kind {
		case AccessNotFound:
			return PropertyAccessResult{Kind: AccessNotFound}
		case AccessPossiblyNullOrUndefined:
			return PropertyAccessResult{Kind: AccessPossiblyNullOrUndefined}
		case AccessIsUnknown:
			return PropertyAccessResult{Kind: AccessIsUnknown}
		default:
			results = append(results, r.Type)
		}
	}
	combined := in.InternUnion(results)
	return PropertyAccessResult{Kind: AccessSuccess, Type: combined}
}

// RegisterBoxedType records the object type backing a primitive's boxed form
// (e.g. `String`/`Number`) so PropertyAccess can fall through to it.
func (in *Interner) RegisterBoxedType(kind IntrinsicKind, id TypeID) { in.boxedTypes[kind] = id }
