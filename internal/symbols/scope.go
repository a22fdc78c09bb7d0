package symbols

import (
	"solfront/internal/ast"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid    ScopeKind = iota
	ScopeSourceUnit           // top-level declarations of one source unit
	ScopeContract             // contract or interface body
	ScopeFunction             // parameters, return values and the body root
	ScopeBlock                // nested statement block
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeSourceUnit:
		return "source-unit"
	case ScopeContract:
		return "contract"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent-child hierarchy. Owner is the
// AST node that introduced the scope; its id is what declarations inside
// report as their `scope` in the interchange format.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	Owner    ast.NodeID
	Names    map[string][]SymbolID
	Symbols  []SymbolID
	Children []ScopeID
}
