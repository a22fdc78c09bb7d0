package types

import (
	"strings"

	"solfront/internal/ast"
)

// TypeID identifies an interned type. 0 means "no type assigned".
type TypeID uint32

const NoType TypeID = 0

func (id TypeID) IsValid() bool { return id != NoType }

type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindIntConst // untyped integer literal
	KindBool
	KindAddress
	KindString
	KindBytes32
	KindContract
	KindMapping
	KindFunction
	KindTuple // also models "no value" as the empty tuple
)

// Type is an immutable value describing the shape of an expression or
// declaration. Fields are populated per kind; unused fields stay zero.
type Type struct {
	Kind Kind

	// KindInteger
	Signed bool
	Bits   uint16

	// KindIntConst: decimal spelling of the literal value
	Const string

	// KindContract
	Name string
	Decl ast.NodeID

	// KindMapping
	Key   TypeID
	Value TypeID

	// KindFunction
	Params     []TypeID
	Returns    []TypeID
	Mutability ast.Mutability
	Visibility ast.Visibility

	// KindTuple
	Elems []TypeID
}

// String renders the canonical typeString of the interchange format.
// It doubles as the interner key, so it must be injective.
func (t *Type) String(in *Interner) string {
	switch t.Kind {
	case KindInteger:
		prefix := "uint"
		if t.Signed {
			prefix = "int"
		}
		return prefix + itoa(t.Bits)
	case KindIntConst:
		return "int_const " + t.Const
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindString:
		return "string"
	case KindBytes32:
		return "bytes32"
	case KindContract:
		return "contract " + t.Name
	case KindMapping:
		return "mapping(" + in.String(t.Key) + " => " + in.String(t.Value) + ")"
	case KindFunction:
		var sb strings.Builder
		sb.WriteString("function (")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(in.String(p))
		}
		sb.WriteString(")")
		switch t.Mutability {
		case ast.MutabilityView:
			sb.WriteString(" view")
		case ast.MutabilityPure:
			sb.WriteString(" pure")
		case ast.MutabilityPayable:
			sb.WriteString(" payable")
		}
		if t.Visibility == ast.VisibilityExternal {
			sb.WriteString(" external")
		}
		if len(t.Returns) > 0 {
			sb.WriteString(" returns (")
			for i, r := range t.Returns {
				if i > 0 {
					sb.WriteString(",")
				}
				sb.WriteString(in.String(r))
			}
			sb.WriteString(")")
		}
		return sb.String()
	case KindTuple:
		var sb strings.Builder
		sb.WriteString("tuple(")
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(in.String(e))
		}
		sb.WriteString(")")
		return sb.String()
	default:
		return "invalid"
	}
}

func itoa(v uint16) string {
	if v == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
