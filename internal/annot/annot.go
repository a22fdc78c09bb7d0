// Package annot holds the semantic annotations reconstructed by the
// analysis pipeline. They live in side tables keyed by node id, outside the
// syntax tree: the interchange boundary strips them, and the pipeline
// recomputes every entry from the bare syntax rather than trusting an
// external producer.
package annot

import (
	"solfront/internal/ast"
	"solfront/internal/callgraph"
	"solfront/internal/types"
)

// CallGraphs pairs the two per-contract graphs. Deployed may share edge
// slices with Creation (read-only sharing).
type CallGraphs struct {
	Creation *callgraph.Graph
	Deployed *callgraph.Graph
}

// Annotations is written once per analysis run and consumed read-only by
// the exporter. Every map is keyed by ast.NodeID.
type Annotations struct {
	// Scopes maps a declaration to the node owning the scope it is
	// declared in (its "scope" field in the interchange format).
	Scopes map[ast.NodeID]ast.NodeID
	// Types maps declarations, type names and expressions to their
	// resolved type.
	Types map[ast.NodeID]types.TypeID
	// Refs maps reference nodes to the declaration they resolved to.
	Refs map[ast.NodeID]ast.NodeID
	// Overloads records candidate sets for names the resolver could not
	// bind uniquely; the type checker disambiguates at call sites.
	Overloads map[ast.NodeID][]ast.NodeID
	// Linearized maps a contract to its C3 linearization (itself first).
	Linearized map[ast.NodeID][]ast.NodeID
	// FullyImplemented marks contracts with no unimplemented functions.
	FullyImplemented map[ast.NodeID]bool
	// Graphs holds per-contract call graphs, present only when the
	// call-graph stage ran.
	Graphs map[ast.NodeID]*CallGraphs
}

func New() *Annotations {
	return &Annotations{
		Scopes:           make(map[ast.NodeID]ast.NodeID),
		Types:            make(map[ast.NodeID]types.TypeID),
		Refs:             make(map[ast.NodeID]ast.NodeID),
		Overloads:        make(map[ast.NodeID][]ast.NodeID),
		Linearized:       make(map[ast.NodeID][]ast.NodeID),
		FullyImplemented: make(map[ast.NodeID]bool),
		Graphs:           make(map[ast.NodeID]*CallGraphs),
	}
}

// SetType records the type of a node. The first assignment wins; a type is
// never overwritten within one run.
func (a *Annotations) SetType(id ast.NodeID, t types.TypeID) {
	if !id.IsValid() || !t.IsValid() {
		return
	}
	if _, exists := a.Types[id]; exists {
		return
	}
	a.Types[id] = t
}

// TypeOf returns the recorded type or NoType.
func (a *Annotations) TypeOf(id ast.NodeID) types.TypeID {
	return a.Types[id]
}

// Bind records a reference → declaration back-link.
func (a *Annotations) Bind(ref, decl ast.NodeID) {
	if ref.IsValid() && decl.IsValid() {
		a.Refs[ref] = decl
	}
}

// RefOf returns the bound declaration or NoNode.
func (a *Annotations) RefOf(ref ast.NodeID) ast.NodeID {
	return a.Refs[ref]
}
