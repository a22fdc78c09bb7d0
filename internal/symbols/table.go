package symbols

import (
	"solfront/internal/ast"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes, Symbols uint32 }

// Table aggregates the scope and symbol arenas for one analysis run,
// together with the node-to-scope and node-to-symbol side maps the
// pipeline phases consult.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	scopeOf map[ast.NodeID]ScopeID  // scope-introducing node → its scope
	symOf   map[ast.NodeID]SymbolID // declaration node → its symbol
}

// NewTable builds a fresh table with optional capacity hints.
func NewTable(h Hints) *Table {
	return &Table{
		Scopes:  NewScopes(h.Scopes),
		Symbols: NewSymbols(h.Symbols),
		scopeOf: make(map[ast.NodeID]ScopeID),
		symOf:   make(map[ast.NodeID]SymbolID),
	}
}

// NewScope allocates a scope owned by the given node and remembers the
// owner → scope association.
func (t *Table) NewScope(kind ScopeKind, parent ScopeID, owner ast.NodeID) ScopeID {
	id := t.Scopes.New(kind, parent, owner)
	if owner.IsValid() {
		t.scopeOf[owner] = id
	}
	return id
}

// ScopeOf returns the scope introduced by the node, or NoScopeID.
func (t *Table) ScopeOf(owner ast.NodeID) ScopeID {
	return t.scopeOf[owner]
}

// SymbolOf returns the symbol registered for the declaration node.
func (t *Table) SymbolOf(decl ast.NodeID) SymbolID {
	return t.symOf[decl]
}

// Declare registers a named symbol in the scope. It returns the new symbol
// id and any same-name symbols already present in that scope; collision
// policy is the caller's concern.
func (t *Table) Declare(scope ScopeID, sym Symbol) (SymbolID, []SymbolID) {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID, nil
	}
	sym.Scope = scope
	id := t.Symbols.New(sym)
	existing := sc.Names[sym.Name]
	sc.Names[sym.Name] = append(sc.Names[sym.Name], id)
	sc.Symbols = append(sc.Symbols, id)
	if sym.Decl.IsValid() {
		t.symOf[sym.Decl] = id
	}
	return id, existing
}

// LookupLocal returns the symbols bound to name in this scope only.
func (t *Table) LookupLocal(scope ScopeID, name string) []SymbolID {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return nil
	}
	return sc.Names[name]
}
