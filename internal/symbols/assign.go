package symbols

import (
	"solfront/internal/annot"
	"solfront/internal/ast"
)

// AssignScopes runs the scope-tree construction over one unit. One scope
// per scope-introducing node (source unit, contract, function, block);
// every declaration is annotated with the id of its scope-owner node.
// Cannot fail, runs before any other phase.
func AssignScopes(u *ast.Unit, t *Table, an *annot.Annotations) {
	root := u.Root
	suScope := t.NewScope(ScopeSourceUnit, NoScopeID, root)
	su, ok := ast.At[*ast.SourceUnit](u, root)
	if !ok {
		return
	}
	for _, top := range su.Nodes {
		switch n := u.Get(top).(type) {
		case *ast.ContractDefinition:
			an.Scopes[top] = root
			cs := t.NewScope(ScopeContract, suScope, top)
			for _, m := range n.Members {
				switch member := u.Get(m).(type) {
				case *ast.FunctionDefinition:
					an.Scopes[m] = top
					assignFunction(u, t, an, cs, m, member)
				case *ast.VariableDeclaration:
					an.Scopes[m] = top
				}
			}
		case *ast.FunctionDefinition:
			an.Scopes[top] = root
			assignFunction(u, t, an, suScope, top, n)
		}
	}
}

func assignFunction(u *ast.Unit, t *Table, an *annot.Annotations, parent ScopeID, id ast.NodeID, fn *ast.FunctionDefinition) {
	fs := t.NewScope(ScopeFunction, parent, id)
	assignParams(u, an, id, fn.Params)
	assignParams(u, an, id, fn.Returns)
	if fn.Body.IsValid() {
		assignBlock(u, t, an, fs, fn.Body)
	}
}

func assignParams(u *ast.Unit, an *annot.Annotations, owner ast.NodeID, list ast.NodeID) {
	pl, ok := ast.At[*ast.ParameterList](u, list)
	if !ok {
		return
	}
	for _, p := range pl.Parameters {
		an.Scopes[p] = owner
	}
}

func assignBlock(u *ast.Unit, t *Table, an *annot.Annotations, parent ScopeID, id ast.NodeID) {
	bs := t.NewScope(ScopeBlock, parent, id)
	block, ok := ast.At[*ast.Block](u, id)
	if !ok {
		return
	}
	for _, s := range block.Statements {
		assignStmt(u, t, an, bs, s)
	}
}

func assignStmt(u *ast.Unit, t *Table, an *annot.Annotations, scope ScopeID, id ast.NodeID) {
	switch n := u.Get(id).(type) {
	case *ast.VariableDeclarationStatement:
		an.Scopes[n.Declaration] = t.Scopes.Get(scope).Owner
	case *ast.IfStatement:
		assignBody(u, t, an, scope, n.TrueBody)
		if n.FalseBody.IsValid() {
			assignBody(u, t, an, scope, n.FalseBody)
		}
	case *ast.WhileStatement:
		assignBody(u, t, an, scope, n.Body)
	}
}

// assignBody handles a statement position that may or may not be a block.
func assignBody(u *ast.Unit, t *Table, an *annot.Annotations, scope ScopeID, id ast.NodeID) {
	if _, ok := ast.At[*ast.Block](u, id); ok {
		assignBlock(u, t, an, scope, id)
		return
	}
	assignStmt(u, t, an, scope, id)
}
