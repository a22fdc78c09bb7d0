package callgraph

import (
	"solfront/internal/ast"
)

// Refs maps reference nodes (identifiers, member accesses, new expressions)
// to their resolved declarations. The builder consumes the resolver's
// annotations through this narrow view.
type Refs map[ast.NodeID]ast.NodeID

// BuildCreation builds the creation-time call graph of a contract: every
// function reachable from its state-variable initializers and from the
// constructors of its linearized bases.
func BuildCreation(u *ast.Unit, refs Refs, linearized []ast.NodeID) *Graph {
	g := NewGraph()
	b := builder{unit: u, refs: refs, graph: g}
	for i := len(linearized) - 1; i >= 0; i-- {
		contract, ok := ast.At[*ast.ContractDefinition](u, linearized[i])
		if !ok {
			continue
		}
		for _, member := range contract.Members {
			if v, ok := ast.At[*ast.VariableDeclaration](u, member); ok && v.Value.IsValid() {
				// Initializer calls run at creation, attributed to the
				// constructor slot of the declaring contract.
				b.walkExpr(v.Value, b.constructorOf(contract))
			}
			if fn, ok := ast.At[*ast.FunctionDefinition](u, member); ok && fn.IsConstructor() {
				b.visit(member)
			}
		}
	}
	return g
}

// BuildDeployed builds the deployed-time call graph: every function
// reachable from the externally callable interface of the linearized
// hierarchy. Functions already walked for the creation graph contribute
// their edge lists by reference (shared, never recomputed).
func BuildDeployed(u *ast.Unit, refs Refs, linearized []ast.NodeID, creation *Graph) *Graph {
	g := NewGraph()
	b := builder{unit: u, refs: refs, graph: g, creation: creation}
	for _, cid := range linearized {
		contract, ok := ast.At[*ast.ContractDefinition](u, cid)
		if !ok {
			continue
		}
		for _, member := range contract.Members {
			fn, ok := ast.At[*ast.FunctionDefinition](u, member)
			if !ok || !fn.ExternallyCallable() {
				continue
			}
			b.visit(member)
		}
	}
	return g
}

type builder struct {
	unit     *ast.Unit
	refs     Refs
	graph    *Graph
	creation *Graph
}

// visit adds fn and walks its body once, following resolved callees
// transitively.
func (b *builder) visit(fn ast.NodeID) {
	if b.graph.Has(fn) {
		return
	}
	if b.creation != nil && b.creation.Has(fn) {
		b.graph.ShareFrom(b.creation, fn)
		for _, callee := range b.graph.Callees(fn) {
			b.visit(callee)
		}
		return
	}
	b.graph.AddNode(fn)
	def, ok := ast.At[*ast.FunctionDefinition](b.unit, fn)
	if !ok || !def.Body.IsValid() {
		return
	}
	b.walkExpr(def.Body, fn)
}

// walkExpr scans the subtree for calls whose callee resolved to a function
// definition and records "caller may call callee" edges.
func (b *builder) walkExpr(root ast.NodeID, caller ast.NodeID) {
	ast.Walk(b.unit, root, func(n ast.Node) bool {
		call, ok := n.(*ast.FunctionCall)
		if !ok {
			return true
		}
		callee := b.resolveCallee(call.Expression)
		if callee.IsValid() {
			// Initializers of a constructor-less contract have no caller
			// slot; the callee still enters the graph as a node.
			if caller.IsValid() {
				b.graph.AddEdge(caller, callee)
			}
			b.visit(callee)
		}
		return true
	})
}

// resolveCallee follows the callee expression to a function definition, if
// the resolver bound one.
func (b *builder) resolveCallee(expr ast.NodeID) ast.NodeID {
	decl, ok := b.refs[expr]
	if !ok {
		return ast.NoNode
	}
	if _, isFn := ast.At[*ast.FunctionDefinition](b.unit, decl); !isFn {
		return ast.NoNode
	}
	return decl
}

// constructorOf returns the contract's constructor id, or NoNode. Initializer
// edges with no constructor still register their callees as graph nodes.
func (b *builder) constructorOf(contract *ast.ContractDefinition) ast.NodeID {
	for _, member := range contract.Members {
		if fn, ok := ast.At[*ast.FunctionDefinition](b.unit, member); ok && fn.IsConstructor() {
			return member
		}
	}
	return ast.NoNode
}
