// Package defs implements the Definition Store: the canonical, append-only
// list of named declaration groups (spec §4.2). A DefId stands for every
// declaration of a given interface/class/enum/type-alias/module that merges
// under one binder symbol — an interface and a class sharing a name and
// scope map to one DefId whose Kind records both faces.
package defs

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/source"
)

// DefID is a dense, append-only identifier for a named definition.
type DefID uint32

// NoDefID marks the absence of a definition.
const NoDefID DefID = 0

// Kind classifies the syntactic faces a definition can present. Merged
// declarations OR these bits together under one DefId.
type Kind uint8

const (
	KindClass Kind = 1 << iota
	KindInterface
	KindAlias
	KindEnum
	KindModule
	KindTypeParameterOwner
)

func (k Kind) Has(bit Kind) bool { return k&bit != 0 }

// TypeParamInfo is the syntactic shape of one generic parameter as declared
// (before lowering): its name, and the AST nodes for its constraint/default,
// if any. The Type Environment/Type Universe hold the *lowered* TypeID
// counterparts once resolution has run.
type TypeParamInfo struct {
	Name       source.StringID
	Constraint ast.TypeNodeID
	Default    ast.TypeNodeID
	IsConst    bool
}

// Def is one entry in the store: a name, merged Kind bits, every declaring
// AST node, and its declared (unlowered) type parameters.
type Def struct {
	Name         source.StringID
	Kind         Kind
	Declarations []ast.DeclID
	TypeParams   []TypeParamInfo
}

// Store is the append-only definition table.
type Store struct {
	defs []Def
	// byNameScope indexes definitions by (scope-qualified) name so repeated
	// declarations of the same interface/class/namespace merge into one Def
	// instead of allocating a fresh DefId each time.
	byNameScope map[nameScopeKey]DefID
}

type nameScopeKey struct {
	Name  source.StringID
	Scope uint32
}

// NewStore constructs an empty, append-only Definition Store.
func NewStore() *Store {
	s := &Store{byNameScope: make(map[nameScopeKey]DefID, 64)}
	s.defs = append(s.defs, Def{}) // reserve 0 for NoDefID
	return s
}

// CreateDef allocates (or, if name+scope already has a Def, extends) a
// definition; the returned DefId is stable for the session (spec §4.2
// contract: "DefIds are dense; the store is append-only").
func (s *Store) CreateDef(name source.StringID, scope uint32, kind Kind, decl ast.DeclID) DefID {
	key := nameScopeKey{Name: name, Scope: scope}
	if id, ok := s.byNameScope[key]; ok {
		d := &s.defs[id]
		d.Kind |= kind
		d.Declarations = append(d.Declarations, decl)
		return id
	}
	n, err := safecast.Conv[uint32](len(s.defs))
	if err != nil {
		panic(fmt.Errorf("defs: definition table overflow: %w", err))
	}
	id := DefID(n)
	s.defs = append(s.defs, Def{Name: name, Kind: kind, Declarations: []ast.DeclID{decl}})
	s.byNameScope[key] = id
	return id
}

// Get returns the definition for id.
func (s *Store) Get(id DefID) (Def, bool) {
	if id == NoDefID || int(id) >= len(s.defs) {
		return Def{}, false
	}
	return s.defs[id], true
}

// SetTypeParams records a definition's declared (unlowered) generic parameters.
func (s *Store) SetTypeParams(id DefID, params []TypeParamInfo) {
	if id == NoDefID || int(id) >= len(s.defs) {
		return
	}
	s.defs[id].TypeParams = params
}

// TypeParams returns a definition's declared generic parameters.
func (s *Store) TypeParams(id DefID) []TypeParamInfo {
	d, ok := s.Get(id)
	if !ok {
		return nil
	}
	return d.TypeParams
}

// Len returns the number of definitions, including the reserved sentinel.
func (s *Store) Len() int { return len(s.defs) }
