package types

import "github.com/vovakirdan/tscheck/internal/source"

// TypeParamInfo is the side-table payload for KindTypeParameter (spec §3:
// "name atom, optional constraint, optional default, const-modifier flag").
type TypeParamInfo struct {
	Name       source.StringID
	Constraint TypeID // NoTypeID when absent
	Default    TypeID // NoTypeID when absent
	IsConst    bool
}

// InternTypeParameter interns a type-parameter type.
func (in *Interner) InternTypeParameter(info TypeParamInfo) TypeID {
	payload := in.appendTypeParamInfo(info)
	return in.intern(Type{Kind: KindTypeParameter, Payload: payload})
}

func (in *Interner) appendTypeParamInfo(info TypeParamInfo) uint32 {
	for i := 1; i < len(in.typeParams); i++ {
		if in.typeParams[i] == info {
			return uint32(i)
		}
	}
	in.typeParams = append(in.typeParams, info)
	return uint32(len(in.typeParams) - 1)
}

// TypeParamInfo returns the metadata for a KindTypeParameter type.
func (in *Interner) TypeParamInfo(id TypeID) (TypeParamInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindTypeParameter {
		return TypeParamInfo{}, false
	}
	return in.typeParams[t.Payload], true
}

// IsGeneric reports whether id is, or structurally contains, an unresolved
// type parameter (spec §4.1 query `is_generic`). It recurses through
// Application arguments, array elements, union/intersection members and
// conditional operands only; Lazy, object and function types report false.
func (in *Interner) IsGeneric(id TypeID) bool {
	t, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch t.Kind {
	case KindTypeParameter, KindInfer:
		return true
	case KindApplication:
		info := in.apps[t.Payload]
		for _, a := range in.idLists.get(info.Args) {
			if in.IsGeneric(a) {
				return true
			}
		}
		return false
	case KindArray:
		return in.IsGeneric(t.A)
	case KindUnion, KindIntersection:
		for _, m := range in.UnionMembers(id) {
			if in.IsGeneric(m) {
				return true
			}
		}
		return false
	case KindConditional:
		c := in.condits[t.Payload]
		return in.IsGeneric(c.Check) || in.IsGeneric(c.Extends) || in.IsGeneric(c.True) || in.IsGeneric(c.False)
	default:
		return false
	}
}
