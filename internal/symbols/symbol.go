package symbols

import (
	"solfront/internal/ast"
	"solfront/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolContract
	SymbolFunction
	SymbolVariable
	SymbolParameter
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolContract:
		return "contract"
	case SymbolFunction:
		return "function"
	case SymbolVariable:
		return "variable"
	case SymbolParameter:
		return "parameter"
	default:
		return "invalid"
	}
}

// allowsOverload reports whether two same-scope declarations of this kind
// may share a name. Only functions overload.
func allowsOverload(kind SymbolKind) bool {
	return kind == SymbolFunction
}

// Symbol describes a named entity available in a scope. Decl is the
// declaring AST node; NameSpan points at the identifier for diagnostics.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Scope    ScopeID
	Decl     ast.NodeID
	NameSpan source.Span
}
