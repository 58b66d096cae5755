package assign

import "github.com/vovakirdan/tscheck/internal/types"

// relate is the single recursive structural walk behind all four public
// relations (spec §4.6 algorithm, steps 1-11). rel only changes behaviour at
// a handful of branch points; the union/intersection/object/function/array
// distribution logic is shared.
func (e *Engine) relate(a, b types.TypeID, rel Relation, flags Flags, depth int) bool {
	// Step 1: identity short-circuit.
	if a == b {
		return true
	}

	if depth > e.MaxDepth {
		e.reportOverflow()
		return true // conservative: avoid spurious diagnostics (spec §4.6 point 11)
	}

	key := cacheKey{Source: a, Target: b, Rel: rel, Flags: flags}
	if v, ok := e.cache[key]; ok {
		return v
	}
	if e.inProgress[key] {
		// Mutually recursive named types: assume compatible while the outer
		// call resolves (a cycle guard defaulting to true rather than false,
		// since most cyclic structural types like linked lists and trees
		// are self-consistent).
		return true
	}
	e.inProgress[key] = true
	result := e.relateUncached(a, b, rel, flags, depth)
	delete(e.inProgress, key)
	e.cache[key] = result
	return result
}

func (e *Engine) relateUncached(a, b types.TypeID, rel Relation, flags Flags, depth int) bool {
	builtins := e.Types.Builtins()

	ta, okA := e.Types.Lookup(a)
	tb, okB := e.Types.Lookup(b)
	if !okA || !okB {
		return false
	}

	// ERROR suppresses cascades: treat as universally compatible.
	if ta.Kind == types.KindError || tb.Kind == types.KindError {
		return true
	}

	// Step 5: resolve Lazy(def) to its instance type before everything else,
	// but first try the nominal inheritance check while we still know the
	// defining DefIds.
	if ta.Kind == types.KindLazy && tb.Kind == types.KindLazy {
		defA, _ := e.Types.GetLazyDefID(a)
		defB, _ := e.Types.GetLazyDefID(b)
		if rel != RelIdentical && e.nominallyRelated(defA, defB) {
			return true
		}
	}
	if ta.Kind == types.KindLazy {
		if def, ok := e.Types.GetLazyDefID(a); ok {
			if resolved, ok := e.Env.InstanceType(def); ok {
				return e.relate(resolved, b, rel, flags, depth+1)
			}
		}
		return rel == RelComparable
	}
	if tb.Kind == types.KindLazy {
		if def, ok := e.Types.GetLazyDefID(b); ok {
			if resolved, ok := e.Env.InstanceType(def); ok {
				return e.relate(a, resolved, rel, flags, depth+1)
			}
		}
		return rel == RelComparable
	}

	if rel == RelIdentical {
		return e.identical(ta, tb, a, b, flags, depth)
	}

	// Step 2: ANY/UNKNOWN/NEVER fast paths.
	if a == builtins.Any || b == builtins.Any {
		if rel == RelSubtype && flags.SoundMode {
			return a == builtins.Any && b == builtins.Any
		}
		return true
	}
	if a == builtins.Never {
		return true
	}
	if b == builtins.Never {
		return rel == RelComparable
	}
	if a == builtins.Unknown || b == builtins.Unknown {
		if rel == RelComparable {
			return true
		}
		// a != b was already handled by the identity short-circuit, so one
		// side being UNKNOWN without the other means incompatible.
		return false
	}

	if rel == RelComparable {
		if e.relate(a, b, RelAssignable, flags, depth+1) || e.relate(b, a, RelAssignable, flags, depth+1) {
			return true
		}
		if e.isNumericLike(a, ta) && e.isNumericLike(b, tb) {
			return true
		}
		return false
	}

	// Step 3: distribute over unions.
	if ta.Kind == types.KindUnion {
		for _, m := range e.Types.UnionMembers(a) {
			if !e.relate(m, b, rel, flags, depth+1) {
				return false
			}
		}
		return true
	}
	if tb.Kind == types.KindUnion {
		for _, m := range e.Types.UnionMembers(b) {
			if e.relate(a, m, rel, flags, depth+1) {
				return true
			}
		}
		return false
	}

	// Step 4: intersections — all members of target must be satisfied.
	if tb.Kind == types.KindIntersection {
		for _, m := range e.Types.UnionMembers(b) {
			if !e.relate(a, m, rel, flags, depth+1) {
				return false
			}
		}
		return true
	}
	if ta.Kind == types.KindIntersection {
		for _, m := range e.Types.UnionMembers(a) {
			if e.relate(m, b, rel, flags, depth+1) {
				return true
			}
		}
		return false
	}

	// Step 8: generic application expansion — only a pair of Application
	// records is compared here, on their own shape (base+args). An
	// Application on one side only is not expanded against the base
	// definition's body, and such a pair is unrelated.
	if ta.Kind == types.KindApplication && tb.Kind == types.KindApplication {
		baseA, argsA, _ := e.Types.ApplicationInfo(a)
		baseB, argsB, _ := e.Types.ApplicationInfo(b)
		if baseA != baseB || len(argsA) != len(argsB) {
			return false
		}
		for i := range argsA {
			if !e.relate(argsA[i], argsB[i], rel, flags, depth+1) {
				return false
			}
		}
		return true
	}

	// Step 10: literal widening.
	if ta.Kind == types.KindLiteral {
		info, _ := e.Types.LiteralInfo(a)
		if widened := widenedPrimitive(builtins, info); widened == b {
			return true
		}
	}

	switch {
	case ta.Kind == types.KindArray && tb.Kind == types.KindArray:
		return e.relate(e.Types.ArrayElement(a), e.Types.ArrayElement(b), rel, flags, depth+1)
	case ta.Kind == types.KindTuple && tb.Kind == types.KindTuple:
		return e.tuplesRelated(a, b, rel, flags, depth)
	case (ta.Kind == types.KindObject || ta.Kind == types.KindObjectWithIndex || ta.Kind == types.KindCallable) &&
		(tb.Kind == types.KindObject || tb.Kind == types.KindObjectWithIndex || tb.Kind == types.KindCallable):
		return e.objectsRelated(a, b, rel, flags, depth)
	case ta.Kind == types.KindFunction && tb.Kind == types.KindFunction:
		return e.functionsRelated(a, b, flags, depth)
	}

	return false
}

func (e *Engine) isNumericLike(id types.TypeID, t types.Type) bool {
	if t.Kind == types.KindIntrinsic {
		switch types.IntrinsicKind(t.Payload) {
		case types.IntrinsicNumber, types.IntrinsicBigInt:
			return true
		}
	}
	info, ok := e.Types.LiteralInfo(id)
	return ok && (info.ValueKind == types.LiteralValueNumber || info.ValueKind == types.LiteralValueBigInt)
}

func widenedPrimitive(b types.Builtins, info types.LiteralInfo) types.TypeID {
	switch info.ValueKind {
	case types.LiteralValueString:
		return b.String
	case types.LiteralValueNumber:
		return b.Number
	case types.LiteralValueBigInt:
		return b.BigInt
	case types.LiteralValueBoolean:
		return b.Boolean
	}
	return types.NoTypeID
}
