package types

import (
	"fmt"

	"github.com/vovakirdan/tscheck/internal/source"
)

// SymbolRef is an opaque reference to a binder symbol. types deliberately
// does not import the binder package (which itself depends on types for a
// symbol's resolved Type), so TypeQuery/UniqueSymbol carry the binder's
// dense symbol id projected through this numeric alias instead.
type SymbolRef uint32

// InternKeyOf interns `keyof operand`.
func (in *Interner) InternKeyOf(operand TypeID) TypeID {
	return in.intern(Type{Kind: KindKeyOf, A: operand})
}

// KeyOfOperand returns the operand of a KeyOf type.
func (in *Interner) KeyOfOperand(id TypeID) TypeID {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindKeyOf {
		return NoTypeID
	}
	return t.A
}

// InternReadonly interns `readonly T` applied to an array/tuple type.
func (in *Interner) InternReadonly(inner TypeID) TypeID {
	return in.intern(Type{Kind: KindReadonly, A: inner})
}

// ReadonlyInner returns the wrapped type of a ReadonlyType.
func (in *Interner) ReadonlyInner(id TypeID) TypeID {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindReadonly {
		return NoTypeID
	}
	return t.A
}

// InternIndexAccess interns `Object[Index]`.
func (in *Interner) InternIndexAccess(object, index TypeID) TypeID {
	return in.intern(Type{Kind: KindIndexAccess, A: object, B: index})
}

// IndexAccessOperands returns the object and index operands.
func (in *Interner) IndexAccessOperands(id TypeID) (object, index TypeID, ok bool) {
	t, found := in.Lookup(id)
	if !found || t.Kind != KindIndexAccess {
		return NoTypeID, NoTypeID, false
	}
	return t.A, t.B, true
}

// InternTypeQuery interns `typeof symbolRef`.
func (in *Interner) InternTypeQuery(sym SymbolRef) TypeID {
	return in.intern(Type{Kind: KindTypeQuery, Payload: uint32(sym)})
}

// InternUniqueSymbol interns `unique symbol` bound to a declaration.
func (in *Interner) InternUniqueSymbol(sym SymbolRef) TypeID {
	return in.intern(Type{Kind: KindUniqueSymbol, Payload: uint32(sym)})
}

// InternInfer interns `infer Param`, where param is the synthesized
// TypeParameter TypeID the inference site binds.
func (in *Interner) InternInfer(param TypeID) TypeID {
	return in.intern(Type{Kind: KindInfer, A: param})
}

// InferParam returns the bound type-parameter TypeID of an Infer type.
func (in *Interner) InferParam(id TypeID) TypeID {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindInfer {
		return NoTypeID
	}
	return t.A
}

var thisTypeSingleton TypeID

// InternThis interns the singleton `this` type.
func (in *Interner) InternThis() TypeID {
	if thisTypeSingleton != NoTypeID {
		if t, ok := in.Lookup(thisTypeSingleton); ok && t.Kind == KindThis {
			return thisTypeSingleton
		}
	}
	id := in.intern(Type{Kind: KindThis})
	thisTypeSingleton = id
	return id
}

// ConditionalInfo is the side-table payload for KindConditional (spec §3:
// "Conditional(check, extends, true, false) — distributive over naked
// type-parameter check types").
type ConditionalInfo struct {
	Check   TypeID
	Extends TypeID
	True    TypeID
	False   TypeID
}

// InternConditional interns a conditional type.
func (in *Interner) InternConditional(check, extends, trueBranch, falseBranch TypeID) TypeID {
	payload := in.appendConditionalInfo(ConditionalInfo{Check: check, Extends: extends, True: trueBranch, False: falseBranch})
	return in.intern(Type{Kind: KindConditional, Payload: payload})
}

func (in *Interner) appendConditionalInfo(info ConditionalInfo) uint32 {
	for i := 1; i < len(in.condits); i++ {
		if in.condits[i] == info {
			return uint32(i)
		}
	}
	in.condits = append(in.condits, info)
	return uint32(len(in.condits) - 1)
}

// ConditionalInfo returns the four operands of a Conditional type.
func (in *Interner) ConditionalInfo(id TypeID) (ConditionalInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindConditional {
		return ConditionalInfo{}, false
	}
	return in.condits[t.Payload], true
}

// MappedModifier mirrors the AST's add/remove/unchanged tri-state for a
// mapped type's optional/readonly modifiers.
type MappedModifier uint8

const (
	MappedUnchanged MappedModifier = iota
	MappedAdd
	MappedRemove
)

// MappedInfo is the side-table payload for KindMapped (spec §3: "Mapped(key-
// source, template, optional `as` clause, optional/readonly modifiers: add /
// remove / unchanged)").
type MappedInfo struct {
	KeySource TypeID // the constraint the mapped type iterates
	NameType  TypeID // the `as` clause; NoTypeID when absent
	Template  TypeID
	Optional  MappedModifier
	Readonly  MappedModifier
}

// InternMapped interns a mapped type.
func (in *Interner) InternMapped(info MappedInfo) TypeID {
	payload := in.appendMappedInfo(info)
	return in.intern(Type{Kind: KindMapped, Payload: payload})
}

func (in *Interner) appendMappedInfo(info MappedInfo) uint32 {
	for i := 1; i < len(in.mappeds); i++ {
		if in.mappeds[i] == info {
			return uint32(i)
		}
	}
	in.mappeds = append(in.mappeds, info)
	return uint32(len(in.mappeds) - 1)
}

// MappedInfo returns the metadata of a Mapped type.
func (in *Interner) MappedInfo(id TypeID) (MappedInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindMapped {
		return MappedInfo{}, false
	}
	return in.mappeds[t.Payload], true
}

// TemplateSegment is either a literal quasi or a substituted type hole.
type TemplateSegment struct {
	IsType bool
	Str    source.StringID
	Type   TypeID
}

// TemplateLiteralInfo is the side-table payload for KindTemplateLiteral
// (spec §3: "sequence of atoms and type holes").
type TemplateLiteralInfo struct {
	Segments uint32 // slot in a dedicated listPool below
}

var templateSegmentPool = newListPool[TemplateSegment]()

func templateSegmentKey(segs []TemplateSegment) string {
	s := ""
	for _, seg := range segs {
		if seg.IsType {
			s += fmt.Sprintf("T%d;", seg.Type)
		} else {
			s += fmt.Sprintf("S%d;", seg.Str)
		}
	}
	return s
}

// InternTemplateLiteral interns a template literal type from its ordered segments.
func (in *Interner) InternTemplateLiteral(segments []TemplateSegment) TypeID {
	slot := templateSegmentPool.intern(templateSegmentKey(segments), segments)
	payload := in.appendTemplateInfo(TemplateLiteralInfo{Segments: slot})
	return in.intern(Type{Kind: KindTemplateLiteral, Payload: payload})
}

func (in *Interner) appendTemplateInfo(info TemplateLiteralInfo) uint32 {
	for i := 1; i < len(in.templates); i++ {
		if in.templates[i] == info {
			return uint32(i)
		}
	}
	in.templates = append(in.templates, info)
	return uint32(len(in.templates) - 1)
}

// TemplateLiteralSegments returns the ordered segments of a template literal type.
func (in *Interner) TemplateLiteralSegments(id TypeID) []TemplateSegment {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindTemplateLiteral {
		return nil
	}
	return templateSegmentPool.get(in.templates[t.Payload].Segments)
}

// StringIntrinsicKind enumerates the built-in template-literal string
// transforms (spec §3: "kind ∈ {Uppercase, Lowercase, Capitalize, Uncapitalize}").
type StringIntrinsicKind uint8

const (
	StringIntrinsicUppercase StringIntrinsicKind = iota
	StringIntrinsicLowercase
	StringIntrinsicCapitalize
	StringIntrinsicUncapitalize
)

// InternStringIntrinsic interns `Uppercase<T>` and its siblings.
func (in *Interner) InternStringIntrinsic(kind StringIntrinsicKind, argument TypeID) TypeID {
	return in.intern(Type{Kind: KindStringIntrinsic, A: argument, Payload: uint32(kind)})
}

// StringIntrinsicOperands returns the kind and argument of a StringIntrinsic type.
func (in *Interner) StringIntrinsicOperands(id TypeID) (StringIntrinsicKind, TypeID, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindStringIntrinsic {
		return 0, NoTypeID, false
	}
	return StringIntrinsicKind(t.Payload), t.A, true
}
