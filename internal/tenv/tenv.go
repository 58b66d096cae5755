// Package tenv implements the Type Environment (spec §4.3): the mapping
// from a Definition Store entry to its lowered type(s), plus the small
// amount of cross-cutting bookkeeping (boxed-primitive types, numeric-enum
// registration, array element-type registry) that Symbol-to-Type Lowering
// (internal/lower) populates and the rest of the checker consults.
//
// The environment deliberately holds no lowering logic of its own — it is
// the cache and resolution-state tracker that internal/lower writes into
// while it runs, mirroring how internal/types.Interner is a pure structural
// table rather than an algorithm.
package tenv

import (
	"github.com/vovakirdan/tscheck/internal/defs"
	"github.com/vovakirdan/tscheck/internal/types"
)

// resolveState tracks where a DefId sits in the lowering algorithm's
// resolution-stack cycle detection (spec §4.4: "push def onto the
// resolution stack; on a repeat visit, structurally recursive declarations
// receive a Lazy(def) placeholder, others are flagged ERROR").
type resolveState uint8

const (
	stateUnresolved resolveState = iota
	stateResolving
	stateResolved
)

// Env is the Type Environment for one checking session.
type Env struct {
	// valueType is the value-position (constructor/namespace) view of a
	// definition — what `typeof ClassName` resolves to.
	valueType map[defs.DefID]types.TypeID
	// instanceType is the type-position (instance) view — what `: ClassName`
	// resolves to in a type annotation.
	instanceType map[defs.DefID]types.TypeID

	state map[defs.DefID]resolveState

	// boxedTypes and arrayBase mirror internal/types' own registries but keyed
	// by the checker's Definition Store ids rather than the universe's
	// intrinsic enum, for lib.d.ts-sourced `String`/`Number`/`Array` classes.
	boxedTypes map[string]defs.DefID
	arrayBase  defs.DefID

	// numericEnums marks an Enum definition whose member-value type is
	// `number` rather than `string` (spec §3 "Enum(definition,
	// member-value-type)"); enumParent maps an enum member's own DefId back
	// to its owning enum, for reverse navigation during checking.
	numericEnums map[defs.DefID]bool
	enumParent   map[defs.DefID]defs.DefID

	// resolutionDepth bounds the Symbol-to-Type Lowering recursion (spec §5
	// "depth counter ceiling"); fuel bounds overall lowering work across one
	// type_of_symbol call chain (spec §5 "fuel counter").
	resolutionDepth int
	fuel            int
}

// New constructs an empty Type Environment. depthLimit/fuelLimit follow spec
// §5's recursive-contract guard defaults; callers pass the values from
// internal/session.Options.
func New(depthLimit, fuelLimit int) *Env {
	if depthLimit <= 0 {
		depthLimit = 64
	}
	if fuelLimit <= 0 {
		fuelLimit = 100_000
	}
	return &Env{
		valueType:    make(map[defs.DefID]types.TypeID, 64),
		instanceType: make(map[defs.DefID]types.TypeID, 64),
		state:        make(map[defs.DefID]resolveState, 64),
		boxedTypes:   make(map[string]defs.DefID, 8),
		numericEnums: make(map[defs.DefID]bool, 8),
		enumParent:   make(map[defs.DefID]defs.DefID, 16),

		resolutionDepth: depthLimit,
		fuel:            fuelLimit,
	}
}

// State returns the current resolution state of def.
func (e *Env) State(def defs.DefID) (unresolved, resolving, resolved bool) {
	switch e.state[def] {
	case stateResolving:
		return false, true, false
	case stateResolved:
		return false, false, true
	default:
		return true, false, false
	}
}

// BeginResolving marks def as on the resolution stack, returning false if it
// was already resolving (the cycle case internal/lower must handle with a
// Lazy placeholder or ERROR).
func (e *Env) BeginResolving(def defs.DefID) bool {
	if e.state[def] == stateResolving {
		return false
	}
	e.state[def] = stateResolving
	return true
}

// FinishResolving marks def fully resolved.
func (e *Env) FinishResolving(def defs.DefID) { e.state[def] = stateResolved }

// InstanceType returns the cached type-position view of def.
func (e *Env) InstanceType(def defs.DefID) (types.TypeID, bool) {
	t, ok := e.instanceType[def]
	return t, ok
}

// SetInstanceType records the type-position view of def, overwriting any
// placeholder installed by BeginResolving's caller.
func (e *Env) SetInstanceType(def defs.DefID, t types.TypeID) { e.instanceType[def] = t }

// ValueType returns the cached value-position view of def.
func (e *Env) ValueType(def defs.DefID) (types.TypeID, bool) {
	t, ok := e.valueType[def]
	return t, ok
}

// SetValueType records the value-position view of def.
func (e *Env) SetValueType(def defs.DefID, t types.TypeID) { e.valueType[def] = t }

// RegisterBoxedType records which definition backs a primitive's boxed form
// (e.g. lib.d.ts's `interface String`), keyed by the primitive's name.
func (e *Env) RegisterBoxedType(primitive string, def defs.DefID) { e.boxedTypes[primitive] = def }

// BoxedType returns the definition backing primitive's boxed form, if registered.
func (e *Env) BoxedType(primitive string) (defs.DefID, bool) {
	d, ok := e.boxedTypes[primitive]
	return d, ok
}

// RegisterArrayBase records which definition is lib.d.ts's `Array<T>`
// interface, so indexed-access/iteration lowering can recognize it.
func (e *Env) RegisterArrayBase(def defs.DefID) { e.arrayBase = def }

// ArrayBase returns the registered `Array<T>` definition, if any.
func (e *Env) ArrayBase() (defs.DefID, bool) { return e.arrayBase, e.arrayBase != defs.NoDefID }

// RegisterNumericEnum marks def as a `number`-valued enum.
func (e *Env) RegisterNumericEnum(def defs.DefID) { e.numericEnums[def] = true }

// IsNumericEnum reports whether def was registered as a numeric enum (the
// absence of a registration means string-valued, per spec default).
func (e *Env) IsNumericEnum(def defs.DefID) bool { return e.numericEnums[def] }

// RegisterEnumParent records that member belongs to enum.
func (e *Env) RegisterEnumParent(member, enum defs.DefID) { e.enumParent[member] = enum }

// EnumParent returns the owning enum of member, if registered.
func (e *Env) EnumParent(member defs.DefID) (defs.DefID, bool) {
	d, ok := e.enumParent[member]
	return d, ok
}

// DepthLimit and FuelLimit expose the recursive-contract ceilings.
// internal/lower's recursion tracker consults FuelLimit; internal/assign uses
// its own MaxDepth, and internal/flow reads neither.
func (e *Env) DepthLimit() int { return e.resolutionDepth }
func (e *Env) FuelLimit() int  { return e.fuel }
