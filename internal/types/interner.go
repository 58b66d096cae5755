package types

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/vovakirdan/tscheck/internal/defs"
)

// Interner owns the type table and every per-kind side table. Two calls
// producing structurally identical types return the same TypeID (spec §3
// invariant "Interning is by structural key").
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins

	objects    []ObjectInfo
	unions     []UnionInfo
	arrays     []ArrayInfo
	tuples     []TupleInfo
	funcs      []FuncInfo
	callables  []CallableInfo
	typeParams []TypeParamInfo
	literals   []LiteralInfo
	lazies     []LazyInfo
	apps       []ApplicationInfo
	condits    []ConditionalInfo
	mappeds    []MappedInfo
	templates  []TemplateLiteralInfo
	enums      []EnumInfo
	modules    []ModuleNamespaceInfo

	propLists  *listPool[Property]
	tupleLists *listPool[TupleElement]
	idLists    *listPool[TypeID]

	// boxedTypes backs PropertyAccess's primitive-to-boxed-object fallback
	// (spec §4.1: "on primitive, look up the boxed type"). Definition-level
	// bookkeeping (array base params, numeric enums, enum parents) belongs to
	// the Type Environment, not the universe itself — see internal/tenv.
	boxedTypes map[IntrinsicKind]TypeID
}

// NewInterner constructs an interner seeded with the reserved intrinsics and ERROR.
func NewInterner() *Interner {
	in := &Interner{
		index:      make(map[typeKey]TypeID, 256),
		boxedTypes: make(map[IntrinsicKind]TypeID, int(intrinsicCount)),
	}
	in.propLists = newListPool[Property]()
	in.tupleLists = newListPool[TupleElement]()
	in.idLists = newListPool[TypeID]()

	// Reserve slot 0 in the type table (NoTypeID) and in every side table so
	// payload 0 reads as "absent".
	in.types = append(in.types, Type{})
	in.objects = append(in.objects, ObjectInfo{})
	in.unions = append(in.unions, UnionInfo{})
	in.arrays = append(in.arrays, ArrayInfo{})
	in.tuples = append(in.tuples, TupleInfo{})
	in.funcs = append(in.funcs, FuncInfo{})
	in.callables = append(in.callables, CallableInfo{})
	in.typeParams = append(in.typeParams, TypeParamInfo{})
	in.literals = append(in.literals, LiteralInfo{})
	in.lazies = append(in.lazies, LazyInfo{})
	in.apps = append(in.apps, ApplicationInfo{})
	in.condits = append(in.condits, ConditionalInfo{})
	in.mappeds = append(in.mappeds, MappedInfo{})
	in.templates = append(in.templates, TemplateLiteralInfo{})
	in.enums = append(in.enums, EnumInfo{})
	in.modules = append(in.modules, ModuleNamespaceInfo{})

	in.builtins.Any = in.InternIntrinsic(IntrinsicAny)
	in.builtins.Unknown = in.InternIntrinsic(IntrinsicUnknown)
	in.builtins.Never = in.InternIntrinsic(IntrinsicNever)
	in.builtins.Void = in.InternIntrinsic(IntrinsicVoid)
	in.builtins.Null = in.InternIntrinsic(IntrinsicNull)
	in.builtins.Undefined = in.InternIntrinsic(IntrinsicUndefined)
	in.builtins.Boolean = in.InternIntrinsic(IntrinsicBoolean)
	in.builtins.Number = in.InternIntrinsic(IntrinsicNumber)
	in.builtins.String = in.InternIntrinsic(IntrinsicString)
	in.builtins.BigInt = in.InternIntrinsic(IntrinsicBigInt)
	in.builtins.Symbol = in.InternIntrinsic(IntrinsicSymbol)
	in.builtins.Object = in.InternIntrinsic(IntrinsicObject)
	in.builtins.Function = in.InternIntrinsic(IntrinsicFunction)
	in.builtins.Error = in.internRaw(Type{Kind: KindError})
	return in
}

// Builtins returns the cached intrinsic and ERROR TypeIDs.
func (in *Interner) Builtins() Builtins { return in.builtins }

// typeKey is the structural hash key every constructor normalizes to before
// consulting the dedup index. Two Type values with equal keys are guaranteed
// interchangeable.
type typeKey struct {
	Kind    Kind
	A       TypeID
	B       TypeID
	Payload uint32
	Fresh   bool
}

func keyOf(t Type) typeKey {
	return typeKey{Kind: t.Kind, A: t.A, B: t.B, Payload: t.Payload, Fresh: t.Fresh}
}

// intern is the single choke point every constructor in this package routes
// through: it consults the structural-key index and only allocates a new
// slot on a genuine miss.
func (in *Interner) intern(t Type) TypeID {
	k := keyOf(t)
	if id, ok := in.index[k]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("types: type table overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[keyOf(t)] = id
	return id
}

// InternIntrinsic interns one of the reserved intrinsic kinds.
func (in *Interner) InternIntrinsic(kind IntrinsicKind) TypeID {
	return in.intern(Type{Kind: KindIntrinsic, Payload: uint32(kind)})
}

// Lookup returns the descriptor for id, or false if id is out of range.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics on an invalid id; reserved for call sites that have
// already validated id came from this interner.
func (in *Interner) MustLookup(id TypeID) Type {
	t, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return t
}

// IntrinsicOf returns the IntrinsicKind backing an intrinsic TypeID.
func (in *Interner) IntrinsicOf(id TypeID) (IntrinsicKind, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindIntrinsic {
		return 0, false
	}
	return IntrinsicKind(t.Payload), true
}
