package flow

import (
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/bind"
	"github.com/vovakirdan/tscheck/internal/types"
)

type assignKey struct {
	Node   bind.FlowNodeID
	Symbol bind.SymbolID
}

// DefiniteAssignmentQuery carries the syntactic facts spec §4.7's
// precondition list depends on that the flow graph alone doesn't encode —
// the checker already tracks these while walking the enclosing statement.
type DefiniteAssignmentQuery struct {
	Declared                   types.TypeID
	IsForInOfIterVarUsedInLoop bool
	UsedInDeferredFunctionBody bool
}

// IsDefinitelyAssigned reports whether symbol is guaranteed assigned by the
// time control reaches node, suppressing TS2454 (spec §4.7
// `is_definitely_assigned`). Most of the precondition list is evaluated
// directly off the AST; only the facts the checker tracks lexically
// (for-in/for-of loop-body usage, deferred-function anchoring) are taken as
// input.
func (e *Engine) IsDefinitelyAssigned(node bind.FlowNodeID, symbol bind.SymbolID, q DefiniteAssignmentQuery) bool {
	if q.IsForInOfIterVarUsedInLoop || q.UsedInDeferredFunctionBody {
		return true
	}
	b := e.Types.Builtins()
	if q.Declared == b.Any || q.Declared == b.Unknown {
		return true
	}
	if ty, ok := e.Types.Lookup(q.Declared); ok && ty.Kind == types.KindError {
		return true
	}
	if e.Types.TypeContainsUndefined(q.Declared) {
		return true
	}
	if sym := e.Symbols.Get(symbol); sym != nil && sym.ValueDeclaration.IsValid() {
		if decl := e.Decls.Get(sym.ValueDeclaration); decl != nil && decl.Kind == ast.DeclVar {
			if v := e.Decls.Vars.Get(decl.Payload); v != nil {
				if v.DefiniteAssignment {
					return true
				}
				if v.Initializer.IsValid() && v.VarKind != ast.VarVar {
					return true
				}
			}
		}
	}

	key := assignKey{Node: node, Symbol: symbol}
	if v, ok := e.assignCache[key]; ok {
		return v
	}
	visited := make(map[bind.FlowNodeID]bool, 16)
	result := e.assignedOnEveryPath(node, symbol, visited)
	e.assignCache[key] = result
	return result
}

// assignedOnEveryPath reports whether every backward path from node through
// the flow graph passes an assignment to symbol before reaching the
// function's entry (FlowStart, which is never itself an assignment).
func (e *Engine) assignedOnEveryPath(node bind.FlowNodeID, symbol bind.SymbolID, visited map[bind.FlowNodeID]bool) bool {
	if !node.IsValid() {
		return false
	}
	if visited[node] {
		// Loop back-edge: assume assigned so a loop that assigns on its first
		// iteration doesn't get flagged from its own back-edge.
		return true
	}
	visited[node] = true
	defer delete(visited, node)

	n := e.Graph.Get(node)
	if n == nil || n.Kind == bind.FlowStart {
		return false
	}
	if n.Kind == bind.FlowAssignment && n.Symbol == symbol {
		return true
	}
	if len(n.Antecedents) == 0 {
		return false
	}
	for _, ant := range n.Antecedents {
		if pred := e.Graph.Get(ant); pred != nil && pred.Kind == bind.FlowUnreachable {
			continue
		}
		if !e.assignedOnEveryPath(ant, symbol, visited) {
			return false
		}
	}
	return true
}
