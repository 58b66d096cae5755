package types

import (
	"fmt"

	"github.com/vovakirdan/tscheck/internal/source"
)

// ArrayInfo is the side-table payload for KindArray.
type ArrayInfo struct {
	Element TypeID
}

// InternArray interns `Element[]`.
func (in *Interner) InternArray(element TypeID) TypeID {
	return in.intern(Type{Kind: KindArray, A: element})
}

// ArrayElement returns the element type of an array, or NoTypeID if id isn't one.
func (in *Interner) ArrayElement(id TypeID) TypeID {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindArray {
		return NoTypeID
	}
	return t.A
}

// TupleElement is one position of a Tuple type (spec §3: "ordered elements
// each with type, optional name, optional/rest flags").
type TupleElement struct {
	Name     source.StringID // NoStringID when unnamed
	Type     TypeID
	Optional bool
	Rest     bool
}

func tupleElemKey(e TupleElement) string {
	return fmt.Sprintf("%d|%d|%t|%t;", e.Name, e.Type, e.Optional, e.Rest)
}

func tupleListKey(elems []TupleElement) string {
	s := ""
	for _, e := range elems {
		s += tupleElemKey(e)
	}
	return s
}

// TupleInfo is the side-table payload for KindTuple.
type TupleInfo struct {
	Elements uint32 // slot in the TupleElement listPool
}

// InternTuple interns a tuple type from its ordered elements.
func (in *Interner) InternTuple(elements []TupleElement) TypeID {
	slot := in.tupleLists.intern(tupleListKey(elements), elements)
	payload := in.appendTupleInfo(TupleInfo{Elements: slot})
	return in.intern(Type{Kind: KindTuple, Payload: payload})
}

func (in *Interner) appendTupleInfo(info TupleInfo) uint32 {
	for i := 1; i < len(in.tuples); i++ {
		if in.tuples[i] == info {
			return uint32(i)
		}
	}
	in.tuples = append(in.tuples, info)
	return uint32(len(in.tuples) - 1)
}

// TupleElements returns the ordered elements of a tuple type.
func (in *Interner) TupleElements(id TypeID) []TupleElement {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindTuple {
		return nil
	}
	return in.tupleLists.get(in.tuples[t.Payload].Elements)
}
