package flow

import "github.com/vovakirdan/tscheck/internal/bind"

// IsPostFinallyReachable reports whether node can actually be reached by a
// normal-completion path (spec §4.7 `is_post_finally_reachable`: "for
// reachability after try/finally"). The binder marks a flow-graph point
// FlowUnreachable exactly when every control path into it exits abnormally
// (return/throw/continue) before the finally block's continuation — e.g.
// code right after a try/catch whose every arm returns.
func (e *Engine) IsPostFinallyReachable(node bind.FlowNodeID) bool {
	if v, ok := e.reachCache[node]; ok {
		return v
	}
	visited := make(map[bind.FlowNodeID]bool, 16)
	result := e.reachableFrom(node, visited)
	e.reachCache[node] = result
	return result
}

func (e *Engine) reachableFrom(node bind.FlowNodeID, visited map[bind.FlowNodeID]bool) bool {
	if !node.IsValid() {
		return false
	}
	if visited[node] {
		// A loop back-edge is reachable if the loop was ever entered at all;
		// assume true rather than report every loop body unreachable.
		return true
	}
	visited[node] = true
	defer delete(visited, node)

	n := e.Graph.Get(node)
	if n == nil {
		return false
	}
	if n.Kind == bind.FlowUnreachable {
		return false
	}
	if n.Kind == bind.FlowStart {
		return true
	}
	if len(n.Antecedents) == 0 {
		return false
	}
	for _, ant := range n.Antecedents {
		if e.reachableFrom(ant, visited) {
			return true
		}
	}
	return false
}
