// Package assign implements the Assignability / Compatibility component
// (spec §4.6): the four structural relations every other component
// consults — IsAssignable, IsSubtype, IsComparable, IsIdentical — as
// distinct entry points over one relation engine, with a relation-kind-keyed
// memoisation cache and a bounded recursion depth.
package assign

import (
	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/diag"
	"github.com/vovakirdan/tscheck/internal/source"
	"github.com/vovakirdan/tscheck/internal/tenv"
	"github.com/vovakirdan/tscheck/internal/types"
)

// Relation discriminates the four queries spec §4.6 names. They share one
// recursive structural walk and differ only at a handful of branch points
// (identity allows no widening; comparable is bidirectional and permissive;
// subtype rejects ANY's universal escape hatch under sound mode).
type Relation uint8

const (
	RelAssignable Relation = iota
	RelSubtype
	RelComparable
	RelIdentical
)

// Flags packs the strict-mode switches the relation needs (spec §4.6 point
// 11: "packed strict-mode flags" as part of the cache key).
type Flags struct {
	StrictFunctionTypes        bool
	ExactOptionalPropertyTypes bool
	SoundMode                  bool
}

type cacheKey struct {
	Source types.TypeID
	Target types.TypeID
	Rel    Relation
	Flags  Flags
}

// defaultMaxDepth bounds the recursive relation walk (spec §4.6 point 11:
// "a bounded depth counter prevents runaway expansion").
const defaultMaxDepth = 64

// Engine holds the structural tables the relation needs plus its
// memoisation cache. One Engine is built per checking session and shared by
// every IsAssignable/IsSubtype/IsComparable/IsIdentical call.
type Engine struct {
	Types *types.Interner
	Env   *tenv.Env
	Defs  *defs.Store
	Strs  *source.Interner

	// BaseDefs returns the direct base definitions (extends/implements
	// targets) of def, for the nominal inheritance check of spec §4.6 point
	// 5. internal/session supplies its baseDefs here, which returns nil; a nil
	// result (or a nil func) is treated as "no nominal relationships known",
	// falling back straight to the structural check.
	BaseDefs func(def defs.DefID) []defs.DefID

	// Report, if non-nil, receives the single TS2589 diagnostic emitted the
	// first time the depth ceiling overflows in this session.
	Report   diag.Reporter
	MaxDepth int

	cache       map[cacheKey]bool
	inProgress  map[cacheKey]bool
	overflowed  bool
}

// New constructs a relation Engine. baseDefs and report may be nil.
func New(in *types.Interner, env *tenv.Env, store *defs.Store, strs *source.Interner, baseDefs func(defs.DefID) []defs.DefID, report diag.Reporter) *Engine {
	maxDepth := defaultMaxDepth
	return &Engine{
		Types:    in,
		Env:      env,
		Defs:     store,
		Strs:     strs,
		BaseDefs: baseDefs,
		Report:   report,
		MaxDepth: maxDepth,

		cache:      make(map[cacheKey]bool, 256),
		inProgress: make(map[cacheKey]bool, 16),
	}
}

// IsAssignable reports whether a value of type src can be assigned to a
// location expecting type tgt (spec §4.6: `is_assignable(source, target)`).
func (e *Engine) IsAssignable(src, tgt types.TypeID, flags Flags) bool {
	return e.relate(src, tgt, RelAssignable, flags, 0)
}

// IsSubtype reports whether src is a structural/nominal subtype of tgt — the
// stricter relation used for extends-clause and variance checks, where ANY
// does not universally satisfy a required position under sound mode.
func (e *Engine) IsSubtype(src, tgt types.TypeID, flags Flags) bool {
	return e.relate(src, tgt, RelSubtype, flags, 0)
}

// IsComparable reports whether src and tgt may be compared (spec §4.6:
// "used for switch case comparability") — true if either is assignable to
// the other, or either side is ANY/UNKNOWN/ERROR.
func (e *Engine) IsComparable(src, tgt types.TypeID, flags Flags) bool {
	return e.relate(src, tgt, RelComparable, flags, 0)
}

// IsIdentical reports whether src and tgt are the exact same type up to
// structural equivalence — no widening, no ANY escape hatch.
func (e *Engine) IsIdentical(src, tgt types.TypeID, flags Flags) bool {
	return e.relate(src, tgt, RelIdentical, flags, 0)
}

func (e *Engine) reportOverflow() {
	if e.overflowed || e.Report == nil {
		return
	}
	e.overflowed = true
	e.Report.Report(diag.TS2589, diag.SevError, source.Span{}, "type instantiation is excessively deep and possibly infinite", nil, nil)
}
