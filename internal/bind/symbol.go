package bind

import (
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/source"
)

// SymbolFlags classifies what a symbol means in the places it's visible
// (spec "Symbol (read from binder)": "flags (Value, Type, Namespace-Module,
// Value-Module, Class, Interface, Enum, Type-Alias, Variable, Function,
// Method, Getter, Setter, Alias, Block-Scoped, Function-Scoped, Import,
// Export)"). A symbol can carry more than one bit — a class merges Value and
// Type, for instance.
type SymbolFlags uint32

const (
	FlagValue SymbolFlags = 1 << iota
	FlagType
	FlagNamespaceModule
	FlagValueModule
	FlagClass
	FlagInterface
	FlagEnum
	FlagTypeAlias
	FlagVariable
	FlagFunction
	FlagMethod
	FlagGetter
	FlagSetter
	FlagAlias
	FlagBlockScoped
	FlagFunctionScoped
	FlagImport
	FlagExport
)

// Has reports whether f carries every bit in mask.
func (f SymbolFlags) Has(mask SymbolFlags) bool { return f&mask == mask }

// Any reports whether f carries any bit in mask.
func (f SymbolFlags) Any(mask SymbolFlags) bool { return f&mask != 0 }

// Symbol is one named entity the binder discovered, with enough of its
// declaration history for the checker to resolve uses and merges without
// re-walking the AST.
type Symbol struct {
	Name             source.StringID
	Flags            SymbolFlags
	Declarations     []ast.DeclID
	ValueDeclaration ast.DeclID // NoDeclID when the symbol has no value position
	Parent           SymbolID   // NoSymbolID for a top-level/module symbol
	File             source.FileID
	ImportModule     source.StringID // specifier text, set only when FlagImport is set

	// Exports and Members are populated for symbols that introduce their own
	// namespace (modules/namespaces for Exports; classes/interfaces for
	// Members). Both are nil for an ordinary value/type symbol.
	Exports *SymbolTable
	Members *SymbolTable
}

// SymbolTable maps a name to the one symbol declared under it in one scope —
// used for file locals, module exports, and class/interface members alike.
type SymbolTable struct {
	byName map[source.StringID]SymbolID
}

// NewSymbolTable constructs an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byName: make(map[source.StringID]SymbolID, 16)}
}

// Set records id under name, overwriting any previous binding (merged
// declarations are expected to resolve to the same SymbolID before Set is
// called; this table does not itself perform merge logic).
func (t *SymbolTable) Set(name source.StringID, id SymbolID) {
	if t == nil {
		return
	}
	t.byName[name] = id
}

// Get looks up a symbol by name.
func (t *SymbolTable) Get(name source.StringID) (SymbolID, bool) {
	if t == nil {
		return NoSymbolID, false
	}
	id, ok := t.byName[name]
	return id, ok
}

// Names returns every name bound in the table, in no particular order.
func (t *SymbolTable) Names() []source.StringID {
	if t == nil {
		return nil
	}
	out := make([]source.StringID, 0, len(t.byName))
	for name := range t.byName {
		out = append(out, name)
	}
	return out
}

// Symbols is the dense, append-only arena of every Symbol the binder produced.
type Symbols struct {
	data []Symbol
}

// NewSymbols constructs an arena with capacity reserved up front.
func NewSymbols(capacity int) *Symbols {
	if capacity <= 0 {
		capacity = 64
	}
	return &Symbols{data: make([]Symbol, 1, capacity+1)} // slot 0 reserved for NoSymbolID
}

// New allocates a symbol and returns its id.
func (s *Symbols) New(sym Symbol) SymbolID {
	id := SymbolID(len(s.data))
	s.data = append(s.data, sym)
	return id
}

// Get returns a pointer to the symbol, or nil for an invalid id.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports the number of symbols, excluding the reserved sentinel.
func (s *Symbols) Len() int { return len(s.data) - 1 }
