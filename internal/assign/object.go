package assign

import (
	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/types"
)

// nominallyRelated walks the inheritance graph e.BaseDefs supplies looking
// for target among source's (transitive) base definitions (spec §4.6 point
// 5: "first attempt nominal check via the inheritance graph").
func (e *Engine) nominallyRelated(source, target defs.DefID) bool {
	if source == target {
		return true
	}
	if e.BaseDefs == nil || source == defs.NoDefID || target == defs.NoDefID {
		return false
	}
	visited := make(map[defs.DefID]bool, 8)
	return e.nominalWalk(source, target, visited)
}

func (e *Engine) nominalWalk(source, target defs.DefID, visited map[defs.DefID]bool) bool {
	if visited[source] {
		return false
	}
	visited[source] = true
	for _, base := range e.BaseDefs(source) {
		if base == target || e.nominalWalk(base, target, visited) {
			return true
		}
	}
	return false
}

// props returns the property list and (for Object/ObjectWithIndex) index
// signature info for any object-shaped type (Object, ObjectWithIndex, or
// Callable's underlying object).
func (e *Engine) props(id types.TypeID) (props []types.Property, strIdx types.TypeID, strRO bool, numIdx types.TypeID, numRO bool, ok bool) {
	if info, p, found := e.Types.ObjectInfo(id); found {
		return p, info.StringIndex, info.StringIndexRO, info.NumberIndex, info.NumberIndexRO, true
	}
	if _, p, found := e.Types.CallableInfo(id); found {
		return p, types.NoTypeID, false, types.NoTypeID, false, true
	}
	return nil, types.NoTypeID, false, types.NoTypeID, false, false
}

// objectsRelated implements spec §4.6 step 6: every required property on
// target must be satisfied by a matching (or index-covered) property on
// source, plus step 7's call/construct signature compatibility when the
// target is Callable.
func (e *Engine) objectsRelated(srcID, tgtID types.TypeID, rel Relation, flags Flags, depth int) bool {
	srcProps, srcStrIdx, _, srcNumIdx, _, _ := e.props(srcID)
	tgtProps, tgtStrIdx, _, tgtNumIdx, _, _ := e.props(tgtID)

	for _, want := range tgtProps {
		got, found := findProperty(srcProps, want.Name)
		if !found {
			// Step 9: an index signature can stand in for a named property.
			if srcStrIdx != types.NoTypeID && e.relate(srcStrIdx, want.Type, rel, flags, depth+1) {
				continue
			}
			if want.Optional {
				continue
			}
			return false
		}
		if got.Readonly && !want.Readonly {
			return false
		}
		if !e.relate(got.Type, want.Type, rel, flags, depth+1) {
			return false
		}
		if got.Optional && !want.Optional {
			return false
		}
	}

	// Step 9: index signature coverage — number-index is a refinement of
	// string-index, so a target number-index must be satisfiable by either.
	if tgtNumIdx != types.NoTypeID {
		switch {
		case srcNumIdx != types.NoTypeID:
			if !e.relate(srcNumIdx, tgtNumIdx, rel, flags, depth+1) {
				return false
			}
		case srcStrIdx != types.NoTypeID:
			if !e.relate(srcStrIdx, tgtNumIdx, rel, flags, depth+1) {
				return false
			}
		default:
			return false
		}
	}
	if tgtStrIdx != types.NoTypeID {
		if srcStrIdx == types.NoTypeID || !e.relate(srcStrIdx, tgtStrIdx, rel, flags, depth+1) {
			return false
		}
	}

	// Step 7: callable signature compatibility, when target carries call or
	// construct signatures of its own.
	srcCall, _, srcIsCallable := e.Types.CallableInfo(srcID)
	tgtCall, _, tgtIsCallable := e.Types.CallableInfo(tgtID)
	if tgtIsCallable {
		if !srcIsCallable {
			return false
		}
		if !e.signatureSetsRelated(srcCall.CallSigs, tgtCall.CallSigs, flags, depth) {
			return false
		}
		if !e.signatureSetsRelated(srcCall.ConstructSigs, tgtCall.ConstructSigs, flags, depth) {
			return false
		}
	}

	return true
}

func findProperty(props []types.Property, name source.StringID) (types.Property, bool) {
	for _, p := range props {
		if p.Name == name {
			return p, true
		}
	}
	return types.Property{}, false
}

// tuplesRelated implements spec §4.6's tuple element-wise check: equal
// length, each element pairwise related under the same relation.
func (e *Engine) tuplesRelated(srcID, tgtID types.TypeID, rel Relation, flags Flags, depth int) bool {
	srcElems := e.Types.TupleElements(srcID)
	tgtElems := e.Types.TupleElements(tgtID)
	if len(srcElems) != len(tgtElems) {
		return false
	}
	for i := range srcElems {
		if !e.relate(srcElems[i].Type, tgtElems[i].Type, rel, flags, depth+1) {
			return false
		}
	}
	return true
}

// identical implements the strict, no-widening relation (spec §4.6's
// `is_identical`): structurally equal with no ANY escape hatch and no
// literal-to-primitive widening.
func (e *Engine) identical(ta, tb types.Type, a, b types.TypeID, flags Flags, depth int) bool {
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case types.KindIntrinsic:
		return ta.Payload == tb.Payload
	case types.KindLiteral:
		infoA, _ := e.Types.LiteralInfo(a)
		infoB, _ := e.Types.LiteralInfo(b)
		return infoA == infoB
	case types.KindArray:
		return e.relate(e.Types.ArrayElement(a), e.Types.ArrayElement(b), RelIdentical, flags, depth+1)
	case types.KindTuple:
		return e.tuplesRelated(a, b, RelIdentical, flags, depth)
	case types.KindUnion, types.KindIntersection:
		srcM := e.Types.UnionMembers(a)
		tgtM := e.Types.UnionMembers(b)
		if len(srcM) != len(tgtM) {
			return false
		}
		for _, m := range srcM {
			found := false
			for _, n := range tgtM {
				if e.relate(m, n, RelIdentical, flags, depth+1) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case types.KindObject, types.KindObjectWithIndex, types.KindCallable:
		srcProps, srcStrIdx, _, srcNumIdx, _, _ := e.props(a)
		tgtProps, tgtStrIdx, _, tgtNumIdx, _, _ := e.props(b)
		if len(srcProps) != len(tgtProps) || srcStrIdx != tgtStrIdx || srcNumIdx != tgtNumIdx {
			return false
		}
		for _, p := range srcProps {
			q, ok := findProperty(tgtProps, p.Name)
			if !ok || p.Optional != q.Optional || p.Readonly != q.Readonly {
				return false
			}
			if !e.relate(p.Type, q.Type, RelIdentical, flags, depth+1) {
				return false
			}
		}
		return true
	case types.KindFunction:
		infoA, _ := e.Types.FuncInfo(a)
		infoB, _ := e.Types.FuncInfo(b)
		if infoA.IsConstructor != infoB.IsConstructor {
			return false
		}
		return e.signaturesIdentical(infoA.Sig, infoB.Sig, flags, depth)
	case types.KindApplication:
		baseA, argsA, _ := e.Types.ApplicationInfo(a)
		baseB, argsB, _ := e.Types.ApplicationInfo(b)
		if baseA != baseB || len(argsA) != len(argsB) {
			return false
		}
		for i := range argsA {
			if !e.relate(argsA[i], argsB[i], RelIdentical, flags, depth+1) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
