package ast

import "solfront/internal/source"

// SourceUnit is the root of one compilation unit. Its Nodes are top-level
// declarations (pragma directives, contracts, free functions) in source order.
type SourceUnit struct {
	base
	Nodes []NodeID
}

func (*SourceUnit) Kind() NodeKind { return KindSourceUnit }

// PragmaDirective keeps the raw token texts after 'pragma' up to ';'.
type PragmaDirective struct {
	base
	Literals []string
}

func (*PragmaDirective) Kind() NodeKind { return KindPragmaDirective }

// ContractKind distinguishes contracts from interfaces.
type ContractKind uint8

const (
	ContractKindContract ContractKind = iota
	ContractKindInterface
)

func (k ContractKind) String() string {
	if k == ContractKindInterface {
		return "interface"
	}
	return "contract"
}

// ContractKindFromString maps the interchange spelling back, defaulting to
// contract.
func ContractKindFromString(s string) ContractKind {
	if s == "interface" {
		return ContractKindInterface
	}
	return ContractKindContract
}

type ContractDefinition struct {
	base
	Name         string
	NameSpan     source.Span
	ContractKind ContractKind
	Abstract     bool
	Bases        []NodeID // InheritanceSpecifier
	Members      []NodeID // VariableDeclaration | FunctionDefinition
	Doc          NodeID   // StructuredDocumentation or NoNode
}

func (*ContractDefinition) Kind() NodeKind { return KindContractDefinition }

// InheritanceSpecifier names one base contract in an 'is' list.
type InheritanceSpecifier struct {
	base
	Name string
}

func (*InheritanceSpecifier) Kind() NodeKind { return KindInheritanceSpecifier }

// FunctionKind separates ordinary functions from constructors.
type FunctionKind uint8

const (
	FunctionKindFunction FunctionKind = iota
	FunctionKindConstructor
)

func (k FunctionKind) String() string {
	if k == FunctionKindConstructor {
		return "constructor"
	}
	return "function"
}

func FunctionKindFromString(s string) FunctionKind {
	if s == "constructor" {
		return FunctionKindConstructor
	}
	return FunctionKindFunction
}

// Visibility of functions and state variables.
type Visibility uint8

const (
	VisibilityInternal Visibility = iota // default
	VisibilityPublic
	VisibilityExternal
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityExternal:
		return "external"
	case VisibilityPrivate:
		return "private"
	default:
		return "internal"
	}
}

func VisibilityFromString(s string) Visibility {
	switch s {
	case "public":
		return VisibilityPublic
	case "external":
		return VisibilityExternal
	case "private":
		return VisibilityPrivate
	default:
		return VisibilityInternal
	}
}

// Mutability of functions.
type Mutability uint8

const (
	MutabilityNonpayable Mutability = iota
	MutabilityView
	MutabilityPure
	MutabilityPayable
)

func (m Mutability) String() string {
	switch m {
	case MutabilityView:
		return "view"
	case MutabilityPure:
		return "pure"
	case MutabilityPayable:
		return "payable"
	default:
		return "nonpayable"
	}
}

func MutabilityFromString(s string) Mutability {
	switch s {
	case "view":
		return MutabilityView
	case "pure":
		return MutabilityPure
	case "payable":
		return MutabilityPayable
	default:
		return MutabilityNonpayable
	}
}

type FunctionDefinition struct {
	base
	Name       string // empty for constructors
	NameSpan   source.Span
	FnKind     FunctionKind
	Visibility Visibility
	Mutability Mutability
	Virtual    bool
	Override   bool
	Params     NodeID // ParameterList
	Returns    NodeID // ParameterList (empty list when absent)
	Body       NodeID // Block or NoNode for unimplemented functions
	Doc        NodeID
}

func (*FunctionDefinition) Kind() NodeKind { return KindFunctionDefinition }

// Implemented reports whether the function has a body.
func (f *FunctionDefinition) Implemented() bool { return f.Body.IsValid() }

// IsConstructor is a convenience predicate.
func (f *FunctionDefinition) IsConstructor() bool { return f.FnKind == FunctionKindConstructor }

// ExternallyCallable reports whether the function is part of the deployed
// external interface.
func (f *FunctionDefinition) ExternallyCallable() bool {
	return !f.IsConstructor() &&
		(f.Visibility == VisibilityPublic || f.Visibility == VisibilityExternal)
}

type ParameterList struct {
	base
	Parameters []NodeID // VariableDeclaration
}

func (*ParameterList) Kind() NodeKind { return KindParameterList }

// VariableDeclaration covers state variables, parameters, return values, and
// locals; the flags tell them apart.
type VariableDeclaration struct {
	base
	Name          string // may be empty for unnamed return values
	NameSpan      source.Span
	TypeName      NodeID
	Visibility    Visibility
	Constant      bool
	StateVariable bool
	Value         NodeID // initializer expression or NoNode
	Doc           NodeID
}

func (*VariableDeclaration) Kind() NodeKind { return KindVariableDeclaration }

// StructuredDocumentation carries the raw text of a doc comment, tags
// unparsed. Tag parsing is a pipeline stage, not a parser concern.
type StructuredDocumentation struct {
	base
	Text string
}

func (*StructuredDocumentation) Kind() NodeKind { return KindStructuredDocumentation }
