package types

import (
	"fmt"

	"fortio.org/safecast"
)

// listPool deduplicates slices by content so equal lists share one slot
// (spec §3 invariant: "Every list ... is stored in a deduplicated list pool;
// equal lists share an id."). Keys are built from a comparable projection of
// T supplied by the caller via listKey, since T itself (Property, TupleElement)
// isn't always directly comparable-by-value in a map-friendly way.
type listPool[T any] struct {
	lists []([]T)
	index map[string]uint32
}

func newListPool[T any]() *listPool[T] {
	p := &listPool[T]{index: make(map[string]uint32, 32)}
	p.lists = append(p.lists, nil) // reserve 0 for "no list" / empty
	return p
}

// intern stores items under a precomputed structural key (produced by the
// caller, since list element equality differs per T) and returns its slot.
func (p *listPool[T]) intern(key string, items []T) uint32 {
	if len(items) == 0 {
		return 0
	}
	if slot, ok := p.index[key]; ok {
		return slot
	}
	n, err := safecast.Conv[uint32](len(p.lists))
	if err != nil {
		panic(fmt.Errorf("types: list pool overflow: %w", err))
	}
	clone := make([]T, len(items))
	copy(clone, items)
	p.lists = append(p.lists, clone)
	p.index[key] = n
	return n
}

func (p *listPool[T]) get(slot uint32) []T {
	if int(slot) >= len(p.lists) {
		return nil
	}
	return p.lists[slot]
}
