package symbols

import (
	"fmt"

	"solfront/internal/ast"
	"solfront/internal/diag"
)

// RegisterDeclarations inserts every named declaration into its assigned
// scope. A same-scope name collision is fatal unless both declarations are
// functions, which overload. Returns false when any collision was reported.
func RegisterDeclarations(u *ast.Unit, t *Table, r diag.Reporter) bool {
	reg := registrar{u: u, t: t, r: r, ok: true}
	su, found := ast.At[*ast.SourceUnit](u, u.Root)
	if !found {
		return true
	}
	suScope := t.ScopeOf(u.Root)
	for _, top := range su.Nodes {
		switch n := u.Get(top).(type) {
		case *ast.ContractDefinition:
			reg.declare(suScope, Symbol{
				Name: n.Name, Kind: SymbolContract, Decl: top, NameSpan: n.NameSpan,
			})
			cs := t.ScopeOf(top)
			for _, m := range n.Members {
				switch member := u.Get(m).(type) {
				case *ast.FunctionDefinition:
					reg.function(cs, m, member)
				case *ast.VariableDeclaration:
					reg.declare(cs, Symbol{
						Name: member.Name, Kind: SymbolVariable, Decl: m, NameSpan: member.NameSpan,
					})
				}
			}
		case *ast.FunctionDefinition:
			reg.function(suScope, top, n)
		}
	}
	return reg.ok
}

type registrar struct {
	u  *ast.Unit
	t  *Table
	r  diag.Reporter
	ok bool
}

func (reg *registrar) function(scope ScopeID, id ast.NodeID, fn *ast.FunctionDefinition) {
	// Constructors are anonymous; they get a symbol for bookkeeping but
	// never participate in name lookup.
	if fn.Name != "" {
		reg.declare(scope, Symbol{
			Name: fn.Name, Kind: SymbolFunction, Decl: id, NameSpan: fn.NameSpan,
		})
	} else {
		reg.t.Declare(scope, Symbol{Kind: SymbolFunction, Decl: id, NameSpan: fn.Span()})
	}
	fs := reg.t.ScopeOf(id)
	reg.params(fs, fn.Params)
	reg.params(fs, fn.Returns)
	if fn.Body.IsValid() {
		reg.block(fn.Body)
	}
}

func (reg *registrar) params(scope ScopeID, list ast.NodeID) {
	pl, ok := ast.At[*ast.ParameterList](reg.u, list)
	if !ok {
		return
	}
	for _, p := range pl.Parameters {
		v, ok := ast.At[*ast.VariableDeclaration](reg.u, p)
		if !ok || v.Name == "" {
			continue
		}
		reg.declare(scope, Symbol{
			Name: v.Name, Kind: SymbolParameter, Decl: p, NameSpan: v.NameSpan,
		})
	}
}

func (reg *registrar) block(id ast.NodeID) {
	bs := reg.t.ScopeOf(id)
	block, ok := ast.At[*ast.Block](reg.u, id)
	if !ok {
		return
	}
	for _, s := range block.Statements {
		reg.stmt(bs, s)
	}
}

func (reg *registrar) stmt(scope ScopeID, id ast.NodeID) {
	switch n := reg.u.Get(id).(type) {
	case *ast.VariableDeclarationStatement:
		v, ok := ast.At[*ast.VariableDeclaration](reg.u, n.Declaration)
		if !ok || v.Name == "" {
			return
		}
		reg.declare(scope, Symbol{
			Name: v.Name, Kind: SymbolVariable, Decl: n.Declaration, NameSpan: v.NameSpan,
		})
	case *ast.IfStatement:
		reg.body(scope, n.TrueBody)
		if n.FalseBody.IsValid() {
			reg.body(scope, n.FalseBody)
		}
	case *ast.WhileStatement:
		reg.body(scope, n.Body)
	}
}

func (reg *registrar) body(scope ScopeID, id ast.NodeID) {
	if _, ok := ast.At[*ast.Block](reg.u, id); ok {
		reg.block(id)
		return
	}
	reg.stmt(scope, id)
}

func (reg *registrar) declare(scope ScopeID, sym Symbol) {
	id, existing := reg.t.Declare(scope, sym)
	if !id.IsValid() || len(existing) == 0 {
		return
	}
	for _, prev := range existing {
		prevSym := reg.t.Symbols.Get(prev)
		if prevSym == nil {
			continue
		}
		if allowsOverload(sym.Kind) && allowsOverload(prevSym.Kind) {
			continue
		}
		diag.ErrorWithNote(reg.r, diag.DeclDuplicateName, sym.NameSpan,
			fmt.Sprintf("identifier %q already declared in this scope", sym.Name),
			prevSym.NameSpan, "previous declaration is here")
		reg.ok = false
		return
	}
}
