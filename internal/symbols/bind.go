package symbols

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
)

// bindUnit walks every declaration body and binds identifiers and
// user-defined type names to their declarations. The walk tracks the
// current scope explicitly; scope-introducing nodes switch it.
func (rs *resolver) bindUnit() {
	su, ok := ast.At[*ast.SourceUnit](rs.u, rs.u.Root)
	if !ok {
		return
	}
	suScope := rs.t.ScopeOf(rs.u.Root)
	for _, top := range su.Nodes {
		rs.bind(suScope, top)
	}
}

func (rs *resolver) bind(scope ScopeID, id ast.NodeID) {
	switch n := rs.u.Get(id).(type) {
	case *ast.ContractDefinition:
		cs := rs.t.ScopeOf(id)
		for _, m := range n.Members {
			rs.bind(cs, m)
		}
	case *ast.FunctionDefinition:
		fs := rs.t.ScopeOf(id)
		rs.bind(fs, n.Params)
		rs.bind(fs, n.Returns)
		if n.Body.IsValid() {
			rs.bind(fs, n.Body)
		}
	case *ast.Block:
		bs := rs.t.ScopeOf(id)
		for _, s := range n.Statements {
			rs.bind(bs, s)
		}
	case *ast.UserDefinedTypeName:
		rs.bindUserType(scope, id, n)
	case *ast.Identifier:
		rs.bindIdentifier(scope, id, n)
	case *ast.MemberAccess:
		// The member name is resolved against the base expression's type
		// later; only the base participates in lexical lookup.
		rs.bind(scope, n.Expression)
	default:
		for _, c := range ast.Children(rs.u, id) {
			rs.bind(scope, c)
		}
	}
}

func (rs *resolver) bindUserType(scope ScopeID, id ast.NodeID, tn *ast.UserDefinedTypeName) {
	single, overloads := rs.lookup(scope, tn.Name)
	if !single.IsValid() && len(overloads) == 0 {
		rs.errorf(diag.DeclUndeclaredIdentifier, tn.Span(),
			"undeclared identifier %q used as a type", tn.Name)
		return
	}
	if !single.IsValid() {
		// A set of function overloads can never denote a type; bind the
		// first so the declaration type checker reports not-a-type with a
		// concrete target.
		single = overloads[0]
	}
	rs.an.Bind(id, single)
}

func (rs *resolver) bindIdentifier(scope ScopeID, id ast.NodeID, ident *ast.Identifier) {
	if ident.Name == "this" {
		contract := rs.enclosingContract(scope)
		if !contract.IsValid() {
			rs.errorf(diag.DeclUndeclaredIdentifier, ident.Span(),
				"%q is only available inside a contract", "this")
			return
		}
		rs.an.Bind(id, contract)
		return
	}
	single, overloads := rs.lookup(scope, ident.Name)
	switch {
	case single.IsValid():
		rs.an.Bind(id, single)
	case len(overloads) > 0:
		rs.an.Overloads[id] = overloads
	default:
		rs.errorf(diag.DeclUndeclaredIdentifier, ident.Span(),
			"undeclared identifier %q", ident.Name)
	}
}

func (rs *resolver) enclosingContract(scope ScopeID) ast.NodeID {
	for cur := scope; cur.IsValid(); {
		sc := rs.t.Scopes.Get(cur)
		if sc == nil {
			break
		}
		if sc.Kind == ScopeContract {
			return sc.Owner
		}
		cur = sc.Parent
	}
	return ast.NoNode
}

// lookup walks the scope chain outward, inner scopes first. A contract
// scope consults the full linearized hierarchy. A unique match is returned
// as single; several function candidates form an unresolved overload set
// for the type checker to disambiguate at the call site.
func (rs *resolver) lookup(scope ScopeID, name string) (single ast.NodeID, overloads []ast.NodeID) {
	for cur := scope; cur.IsValid(); {
		sc := rs.t.Scopes.Get(cur)
		if sc == nil {
			break
		}
		var cands []ast.NodeID
		if sc.Kind == ScopeContract {
			cands = rs.contractLookup(sc.Owner, name)
		} else {
			for _, sid := range sc.Names[name] {
				cands = append(cands, rs.t.Symbols.Get(sid).Decl)
			}
		}
		if len(cands) == 1 {
			return cands[0], nil
		}
		if len(cands) > 1 {
			return ast.NoNode, cands
		}
		cur = sc.Parent
	}
	return ast.NoNode, nil
}

// contractLookup resolves a name through a contract and its linearized
// bases. The first non-function hit wins outright; function hits
// accumulate across the hierarchy into one overload set, except that a
// derived declaration hides a base declaration with the same name when
// the derived one is not a function.
func (rs *resolver) contractLookup(contract ast.NodeID, name string) []ast.NodeID {
	var fns []ast.NodeID
	for _, c := range rs.an.Linearized[contract] {
		cs := rs.t.ScopeOf(c)
		for _, sid := range rs.t.LookupLocal(cs, name) {
			sym := rs.t.Symbols.Get(sid)
			if sym.Kind != SymbolFunction {
				if len(fns) == 0 {
					return []ast.NodeID{sym.Decl}
				}
				// Functions found in a more derived contract shadow the
				// non-function base member.
				continue
			}
			fns = append(fns, sym.Decl)
		}
	}
	return fns
}
