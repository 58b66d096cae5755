package bind

import (
	"github.com/vovakirdan/tscheck/internal/ast"
	"github.com/vovakirdan/tscheck/internal/source"
)

// FlowNodeKind enumerates the guard/assignment kinds the binder's flow graph
// is built from (spec §4.7: "nodes are guards (type-of, instance-of,
// truthiness, equality/inequality against a literal or discriminant,
// assignment, call to assertion predicate, switch clause, for-in/of
// element)").
type FlowNodeKind uint8

const (
	FlowStart FlowNodeKind = iota
	FlowUnreachable
	FlowAssignment
	FlowTypeOfGuard
	FlowInstanceOfGuard
	FlowTruthinessGuard
	FlowEqualityGuard
	FlowAssertionCall
	FlowSwitchClause
	FlowForInOfElement
	FlowLabel
	FlowLoopBack
)

func (k FlowNodeKind) String() string {
	switch k {
	case FlowStart:
		return "start"
	case FlowUnreachable:
		return "unreachable"
	case FlowAssignment:
		return "assignment"
	case FlowTypeOfGuard:
		return "typeof-guard"
	case FlowInstanceOfGuard:
		return "instanceof-guard"
	case FlowTruthinessGuard:
		return "truthiness-guard"
	case FlowEqualityGuard:
		return "equality-guard"
	case FlowAssertionCall:
		return "assertion-call"
	case FlowSwitchClause:
		return "switch-clause"
	case FlowForInOfElement:
		return "for-in-of-element"
	case FlowLabel:
		return "label"
	case FlowLoopBack:
		return "loop-back"
	default:
		return "invalid"
	}
}

// FlowNode is one point in the binder's pre-built control-flow DAG. Exactly
// which fields are meaningful depends on Kind: a guard node's Expr holds the
// tested expression and Negated distinguishes the true/false branch; an
// assignment node's Symbol/Expr record what changed.
type FlowNode struct {
	Kind         FlowNodeKind
	Antecedents  []FlowNodeID // predecessors a backwards walk visits next
	Expr         ast.ExprID   // guard condition or assigned expression; NoExprID if unused
	Symbol       SymbolID     // the narrowed/assigned symbol, when applicable
	Negated      bool         // true on the false/failure branch of a guard
	Label        source.StringID // set for FlowLabel nodes; NoStringID otherwise
}

// FlowGraph is the dense arena of every flow node in one file.
type FlowGraph struct {
	data []FlowNode
}

// NewFlowGraph constructs an empty graph with slot 0 reserved for NoFlowNodeID.
func NewFlowGraph(capacity int) *FlowGraph {
	if capacity <= 0 {
		capacity = 64
	}
	return &FlowGraph{data: make([]FlowNode, 1, capacity+1)}
}

// New allocates a flow node and returns its id.
func (g *FlowGraph) New(node FlowNode) FlowNodeID {
	id := FlowNodeID(len(g.data))
	g.data = append(g.data, node)
	return id
}

// Get returns a pointer to the flow node, or nil for an invalid id.
func (g *FlowGraph) Get(id FlowNodeID) *FlowNode {
	if !id.IsValid() || int(id) >= len(g.data) {
		return nil
	}
	return &g.data[id]
}

// Len reports the number of flow nodes, excluding the reserved sentinel.
func (g *FlowGraph) Len() int { return len(g.data) - 1 }
