package assign

import "github.com/vovakirdan/tscheck/internal/types"

// functionsRelated implements spec §4.6 step 7 for single-signature function
// types: arity compatibility, parameter variance, and return variance.
func (e *Engine) functionsRelated(srcID, tgtID types.TypeID, flags Flags, depth int) bool {
	srcInfo, ok := e.Types.FuncInfo(srcID)
	if !ok {
		return false
	}
	tgtInfo, ok := e.Types.FuncInfo(tgtID)
	if !ok {
		return false
	}
	if srcInfo.IsConstructor != tgtInfo.IsConstructor {
		return false
	}
	return e.signaturesRelated(srcInfo.Sig, tgtInfo.Sig, flags, depth)
}

// signatureSetsRelated requires every target signature to be satisfied by at
// least one source signature — a simplified stand-in for full overload
// resolution (spec §4.6 step 7: "overload resolution chooses best matching
// construct or call signature").
func (e *Engine) signatureSetsRelated(src, tgt []types.Signature, flags Flags, depth int) bool {
	for _, want := range tgt {
		matched := false
		for _, have := range src {
			if e.signaturesRelated(have, want, flags, depth) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// signaturesRelated compares a source signature against a target signature:
// the source must not require more parameters than the target
// provides (contravariant under strictFunctionTypes, bivariant
// otherwise), rest parameters absorb any extra target parameters, and
// return types are covariant.
func (e *Engine) signaturesRelated(src, tgt types.Signature, flags Flags, depth int) bool {
	requiredSrc := requiredParamCount(src.Params)
	if requiredSrc > len(tgt.Params) && !hasRest(src.Params) {
		return false
	}
	for i, want := range tgt.Params {
		have, ok := paramAt(src.Params, i)
		if !ok {
			if hasRest(src.Params) {
				have = src.Params[len(src.Params)-1]
			} else {
				break
			}
		}
		if flags.StrictFunctionTypes {
			if !e.relate(want.Type, have.Type, RelAssignable, flags, depth+1) {
				return false
			}
		} else {
			if !e.relate(want.Type, have.Type, RelAssignable, flags, depth+1) &&
				!e.relate(have.Type, want.Type, RelAssignable, flags, depth+1) {
				return false
			}
		}
	}
	return e.relate(src.Return, tgt.Return, RelAssignable, flags, depth+1)
}

// signaturesIdentical is the strict, no-variance counterpart used by
// IsIdentical: parameter and return types must match exactly in both
// directions.
func (e *Engine) signaturesIdentical(src, tgt types.Signature, flags Flags, depth int) bool {
	if len(src.Params) != len(tgt.Params) {
		return false
	}
	for i := range src.Params {
		if src.Params[i].Optional != tgt.Params[i].Optional || src.Params[i].Rest != tgt.Params[i].Rest {
			return false
		}
		if !e.relate(src.Params[i].Type, tgt.Params[i].Type, RelIdentical, flags, depth+1) {
			return false
		}
	}
	return e.relate(src.Return, tgt.Return, RelIdentical, flags, depth+1)
}

func requiredParamCount(params []types.Param) int {
	n := 0
	for _, p := range params {
		if p.Optional || p.Rest {
			break
		}
		n++
	}
	return n
}

func hasRest(params []types.Param) bool {
	return len(params) > 0 && params[len(params)-1].Rest
}

func paramAt(params []types.Param, i int) (types.Param, bool) {
	if i < 0 || i >= len(params) {
		return types.Param{}, false
	}
	return params[i], true
}
