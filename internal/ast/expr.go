package ast

import "solfront/internal/source"

// Assignment covers '=', '+=' and '-='. Compound forms desugar in the type
// checker, not here; the parser keeps the source shape.
type Assignment struct {
	base
	Operator string
	LHS      NodeID
	RHS      NodeID
}

func (*Assignment) Kind() NodeKind { return KindAssignment }

type BinaryOperation struct {
	base
	Operator string
	Left     NodeID
	Right    NodeID
}

func (*BinaryOperation) Kind() NodeKind { return KindBinaryOperation }

type UnaryOperation struct {
	base
	Operator string
	Prefix   bool
	Sub      NodeID
}

func (*UnaryOperation) Kind() NodeKind { return KindUnaryOperation }

type FunctionCall struct {
	base
	Expression NodeID
	Arguments  []NodeID
}

func (*FunctionCall) Kind() NodeKind { return KindFunctionCall }

// NewExpression is the 'new C' part of 'new C(args)'; the surrounding call
// node carries the constructor arguments.
type NewExpression struct {
	base
	TypeName NodeID // UserDefinedTypeName
}

func (*NewExpression) Kind() NodeKind { return KindNewExpression }

type MemberAccess struct {
	base
	Expression NodeID
	Member     string
	MemberSpan source.Span
}

func (*MemberAccess) Kind() NodeKind { return KindMemberAccess }

// Identifier is a name use. Its resolved declaration is an analysis
// annotation (a weak back-reference by id), never stored in the tree.
type Identifier struct {
	base
	Name string
}

func (*Identifier) Kind() NodeKind { return KindIdentifier }

type LiteralKind uint8

const (
	LiteralNumber LiteralKind = iota
	LiteralBool
	LiteralString
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralBool:
		return "bool"
	case LiteralString:
		return "string"
	default:
		return "number"
	}
}

func LiteralKindFromString(s string) LiteralKind {
	switch s {
	case "bool":
		return LiteralBool
	case "string":
		return LiteralString
	default:
		return LiteralNumber
	}
}

type Literal struct {
	base
	LitKind LiteralKind
	Value   string // source spelling; string literals are unquoted
}

func (*Literal) Kind() NodeKind { return KindLiteral }
