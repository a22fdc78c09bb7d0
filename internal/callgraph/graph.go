// Package callgraph builds per-contract "may call" graphs over function
// definitions, separately for creation-time and deployed-time execution.
package callgraph

import (
	"slices"

	"solfront/internal/ast"
)

// Graph is a directed graph over FunctionDefinition ids. Nodes and edge
// lists are kept sorted so graph construction is deterministic and the
// interchange export is byte-stable.
type Graph struct {
	Nodes []ast.NodeID
	Edges map[ast.NodeID][]ast.NodeID
}

func NewGraph() *Graph {
	return &Graph{Edges: make(map[ast.NodeID][]ast.NodeID)}
}

// AddNode inserts the function into the node set.
func (g *Graph) AddNode(fn ast.NodeID) {
	if !fn.IsValid() {
		return
	}
	i, found := slices.BinarySearch(g.Nodes, fn)
	if found {
		return
	}
	g.Nodes = slices.Insert(g.Nodes, i, fn)
}

// AddEdge records that from may call to. Both endpoints join the node set.
func (g *Graph) AddEdge(from, to ast.NodeID) {
	g.AddNode(from)
	g.AddNode(to)
	edges := g.Edges[from]
	i, found := slices.BinarySearch(edges, to)
	if found {
		return
	}
	g.Edges[from] = slices.Insert(edges, i, to)
}

// Has reports whether the function is in the node set.
func (g *Graph) Has(fn ast.NodeID) bool {
	_, found := slices.BinarySearch(g.Nodes, fn)
	return found
}

// Callees returns the sorted callee list of fn (read-only).
func (g *Graph) Callees(fn ast.NodeID) []ast.NodeID {
	return g.Edges[fn]
}

// ShareFrom copies fn's edge list reference from other. The slice is shared,
// not duplicated: the deployed graph reuses creation-graph results this way.
func (g *Graph) ShareFrom(other *Graph, fn ast.NodeID) {
	g.AddNode(fn)
	if edges, ok := other.Edges[fn]; ok {
		g.Edges[fn] = edges
	}
}
