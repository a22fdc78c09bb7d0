package callgraph

import (
	"testing"

	"solfront/internal/ast"
)

func TestGraphDeterministicInsertion(t *testing.T) {
	g := NewGraph()
	g.AddEdge(5, 9)
	g.AddEdge(5, 3)
	g.AddEdge(5, 9) // повтор не дублируется
	g.AddNode(1)

	wantNodes := []ast.NodeID{1, 3, 5, 9}
	if len(g.Nodes) != len(wantNodes) {
		t.Fatalf("nodes = %v", g.Nodes)
	}
	for i, want := range wantNodes {
		if g.Nodes[i] != want {
			t.Fatalf("nodes[%d] = %d, want %d", i, g.Nodes[i], want)
		}
	}
	callees := g.Callees(5)
	if len(callees) != 2 || callees[0] != 3 || callees[1] != 9 {
		t.Fatalf("callees = %v", callees)
	}
	if !g.Has(3) || g.Has(4) {
		t.Fatalf("membership broken")
	}
}

func TestAddNodeIgnoresInvalid(t *testing.T) {
	g := NewGraph()
	g.AddNode(ast.NoNode)
	if len(g.Nodes) != 0 {
		t.Fatalf("NoNode inserted: %v", g.Nodes)
	}
}

func TestShareFromAliasesEdges(t *testing.T) {
	a := NewGraph()
	a.AddEdge(2, 7)
	a.AddEdge(2, 8)

	b := NewGraph()
	b.ShareFrom(a, 2)

	if !b.Has(2) {
		t.Fatalf("shared node missing")
	}
	got := b.Callees(2)
	want := a.Callees(2)
	if len(got) != len(want) {
		t.Fatalf("callees = %v, want %v", got, want)
	}
	if &got[0] != &want[0] {
		t.Fatalf("edge list copied instead of shared")
	}
}
