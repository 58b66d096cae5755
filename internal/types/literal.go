package types

import "github.com/vovakirdan/tscheck/internal/source"

// LiteralValueKind distinguishes the four literal type forms.
type LiteralValueKind uint8

const (
	LiteralValueString LiteralValueKind = iota
	LiteralValueNumber
	LiteralValueBigInt
	LiteralValueBoolean
)

// LiteralInfo is the side-table payload for KindLiteral.
type LiteralInfo struct {
	ValueKind LiteralValueKind
	Str       source.StringID
	Num       float64
	Bool      bool
}

// InternLiteral interns a literal type (string atom, number, bigint atom, or
// boolean — spec §3 "Literal").
func (in *Interner) InternLiteral(info LiteralInfo) TypeID {
	payload := in.appendLiteralInfo(info)
	return in.intern(Type{Kind: KindLiteral, Payload: payload})
}

func (in *Interner) appendLiteralInfo(info LiteralInfo) uint32 {
	for i := 1; i < len(in.literals); i++ {
		if in.literals[i] == info {
			return uint32(i)
		}
	}
	in.literals = append(in.literals, info)
	return uint32(len(in.literals) - 1)
}

// LiteralInfo returns the value metadata for a KindLiteral type.
func (in *Interner) LiteralInfo(id TypeID) (LiteralInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindLiteral {
		return LiteralInfo{}, false
	}
	return in.literals[t.Payload], true
}
