package bind

import "testing"

func TestSymbolsArenaReservesSentinel(t *testing.T) {
	syms := NewSymbols(0)
	if syms.Len() != 0 {
		t.Fatalf("expected empty arena, got len %d", syms.Len())
	}
	id := syms.New(Symbol{Name: 1, Flags: FlagVariable})
	if !id.IsValid() || id == NoSymbolID {
		t.Fatalf("expected a valid non-zero id, got %d", id)
	}
	sym := syms.Get(id)
	if sym == nil || sym.Name != 1 {
		t.Fatalf("unexpected symbol: %+v", sym)
	}
	if syms.Get(NoSymbolID) != nil {
		t.Fatalf("expected nil for NoSymbolID")
	}
}

func TestSymbolTableSetGet(t *testing.T) {
	tbl := NewSymbolTable()
	tbl.Set(5, SymbolID(1))
	id, ok := tbl.Get(5)
	if !ok || id != SymbolID(1) {
		t.Fatalf("expected lookup hit, got %v ok=%v", id, ok)
	}
	if _, ok := tbl.Get(6); ok {
		t.Fatalf("expected lookup miss for unset name")
	}
}

func TestSymbolFlagsHasAndAny(t *testing.T) {
	f := FlagValue | FlagFunction
	if !f.Has(FlagValue) {
		t.Fatalf("expected Has(FlagValue)")
	}
	if f.Has(FlagValue | FlagClass) {
		t.Fatalf("Has should require every bit in the mask")
	}
	if !f.Any(FlagClass | FlagFunction) {
		t.Fatalf("expected Any to match FlagFunction")
	}
}

func TestFlowGraphWalksAntecedents(t *testing.T) {
	g := NewFlowGraph(0)
	start := g.New(FlowNode{Kind: FlowStart})
	guard := g.New(FlowNode{Kind: FlowTypeOfGuard, Antecedents: []FlowNodeID{start}, Symbol: SymbolID(1)})
	node := g.Get(guard)
	if node == nil || len(node.Antecedents) != 1 || node.Antecedents[0] != start {
		t.Fatalf("unexpected flow node: %+v", node)
	}
}

func TestBinderExportsForPathCreatesOnMiss(t *testing.T) {
	b := NewBinder()
	m1 := b.ExportsForPath("a.ts")
	m2 := b.ExportsForPath("a.ts")
	if m1 != m2 {
		t.Fatalf("expected the same ModuleExports on repeated lookup")
	}
	if m1.Path != "a.ts" {
		t.Fatalf("unexpected path: %q", m1.Path)
	}
}
