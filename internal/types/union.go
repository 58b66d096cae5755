package types

import (
	"fmt"
	"sort"
	"strings"
)

// UnionInfo is the side-table payload shared by KindUnion and KindIntersection.
type UnionInfo struct {
	Members uint32 // slot in the TypeID listPool
}

func idListKey(ids []TypeID) string {
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "%d,", id)
	}
	return b.String()
}

// InternUnion normalizes and interns a union type (spec §3/§4.1: "flatten
// unions, sort members by stable key, deduplicate"; empty union collapses to
// NEVER; a single-member union collapses to that member).
func (in *Interner) InternUnion(members []TypeID) TypeID {
	flat := in.flattenUnionMembers(members)
	flat = dedupSortedTypeIDs(flat)
	switch len(flat) {
	case 0:
		return in.builtins.Never
	case 1:
		return flat[0]
	}
	slot := in.idLists.intern(idListKey(flat), flat)
	payload := in.appendUnionInfo(UnionInfo{Members: slot})
	return in.intern(Type{Kind: KindUnion, Payload: payload})
}

func (in *Interner) flattenUnionMembers(members []TypeID) []TypeID {
	out := make([]TypeID, 0, len(members))
	for _, m := range members {
		if m == in.builtins.Never {
			continue // NEVER is absorbed
		}
		t, ok := in.Lookup(m)
		if ok && t.Kind == KindUnion {
			out = append(out, in.flattenUnionMembers(in.idLists.get(in.unions[t.Payload].Members))...)
			continue
		}
		out = append(out, m)
	}
	return out
}

func dedupSortedTypeIDs(ids []TypeID) []TypeID {
	if len(ids) < 2 {
		return ids
	}
	sorted := make([]TypeID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:1]
	for _, id := range sorted[1:] {
		if out[len(out)-1] != id {
			out = append(out, id)
		}
	}
	return out
}

func (in *Interner) appendUnionInfo(info UnionInfo) uint32 {
	for i := 1; i < len(in.unions); i++ {
		if in.unions[i] == info {
			return uint32(i)
		}
	}
	in.unions = append(in.unions, info)
	return uint32(len(in.unions) - 1)
}

// InternIntersection normalizes and interns an intersection type (spec §3/§4.1:
// "Intersections eliminate TOP (UNKNOWN) unless the intersection is otherwise
// empty").
func (in *Interner) InternIntersection(members []TypeID) TypeID {
	flat := in.flattenIntersectionMembers(members)
	filtered := make([]TypeID, 0, len(flat))
	for _, m := range flat {
		if m == in.builtins.Unknown {
			continue
		}
		filtered = append(filtered, m)
	}
	if len(filtered) == 0 {
		if len(flat) == 0 {
			return in.builtins.Unknown
		}
		filtered = flat // every member was UNKNOWN: keep one
	}
	filtered = dedupSortedTypeIDs(filtered)
	if len(filtered) == 1 {
		return filtered[0]
	}
	for _, m := range filtered {
		if m == in.builtins.Never {
			return in.builtins.Never
		}
	}
	slot := in.idLists.intern(idListKey(filtered), filtered)
	payload := in.appendUnionInfo(UnionInfo{Members: slot})
	return in.intern(Type{Kind: KindIntersection, Payload: payload})
}

func (in *Interner) flattenIntersectionMembers(members []TypeID) []TypeID {
	out := make([]TypeID, 0, len(members))
	for _, m := range members {
		t, ok := in.Lookup(m)
		if ok && t.Kind == KindIntersection {
			out = append(out, in.flattenIntersectionMembers(in.idLists.get(in.unions[t.Payload].Members))...)
			continue
		}
		out = append(out, m)
	}
	return out
}

// UnionMembers returns the member list of a union/intersection type, or nil
// if id is neither.
func (in *Interner) UnionMembers(id TypeID) []TypeID {
	t, ok := in.Lookup(id)
	if !ok || (t.Kind != KindUnion && t.Kind != KindIntersection) {
		return nil
	}
	return in.idLists.get(in.unions[t.Payload].Members)
}

// IsUnion reports whether id is a union type.
func (in *Interner) IsUnion(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindUnion
}

// IsIntersection reports whether id is an intersection type.
func (in *Interner) IsIntersection(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindIntersection
}

// TypeContainsUndefined reports whether id is, or (for a union) includes,
// `undefined` — used by optional-chaining and strict-null-checks diagnostics.
func (in *Interner) TypeContainsUndefined(id TypeID) bool {
	if id == in.builtins.Undefined {
		return true
	}
	for _, m := range in.UnionMembers(id) {
		if m == in.builtins.Undefined {
			return true
		}
	}
	return false
}
