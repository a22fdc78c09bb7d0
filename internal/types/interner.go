package types

import (
	"fmt"

	"fortio.org/safecast"

	"solfront/internal/ast"
)

// Interner deduplicates types by canonical key. A type is assigned exactly
// once per node per analysis run and never mutated after interning.
type Interner struct {
	data  []Type
	index map[string]TypeID
}

func NewInterner() *Interner {
	return &Interner{index: make(map[string]TypeID)}
}

// Get returns the interned type, or nil for NoType.
func (in *Interner) Get(id TypeID) *Type {
	if !id.IsValid() || int(id) > len(in.data) {
		return nil
	}
	return &in.data[id-1]
}

// String renders the canonical typeString for id ("" for NoType).
func (in *Interner) String(id TypeID) string {
	t := in.Get(id)
	if t == nil {
		return ""
	}
	return t.String(in)
}

func (in *Interner) intern(t Type) TypeID {
	key := t.String(in)
	if id, ok := in.index[key]; ok {
		return id
	}
	in.data = append(in.data, t)
	raw, err := safecast.Conv[uint32](len(in.data))
	if err != nil {
		panic(fmt.Errorf("type interner overflow: %w", err))
	}
	id := TypeID(raw)
	in.index[key] = id
	return id
}

func (in *Interner) Integer(signed bool, bits uint16) TypeID {
	return in.intern(Type{Kind: KindInteger, Signed: signed, Bits: bits})
}

func (in *Interner) IntConst(value string) TypeID {
	return in.intern(Type{Kind: KindIntConst, Const: value})
}

func (in *Interner) Bool() TypeID    { return in.intern(Type{Kind: KindBool}) }
func (in *Interner) Address() TypeID { return in.intern(Type{Kind: KindAddress}) }
func (in *Interner) StringT() TypeID { return in.intern(Type{Kind: KindString}) }
func (in *Interner) Bytes32() TypeID { return in.intern(Type{Kind: KindBytes32}) }
func (in *Interner) Invalid() TypeID { return in.intern(Type{Kind: KindInvalid}) }

func (in *Interner) Contract(name string, decl ast.NodeID) TypeID {
	return in.intern(Type{Kind: KindContract, Name: name, Decl: decl})
}

func (in *Interner) Mapping(key, value TypeID) TypeID {
	return in.intern(Type{Kind: KindMapping, Key: key, Value: value})
}

// Function interns a function signature type. Two declarations with
// identical signatures share one id.
func (in *Interner) Function(params, returns []TypeID, mut ast.Mutability, vis ast.Visibility) TypeID {
	return in.intern(Type{
		Kind:       KindFunction,
		Params:     params,
		Returns:    returns,
		Mutability: mut,
		Visibility: vis,
	})
}

func (in *Interner) Tuple(elems []TypeID) TypeID {
	return in.intern(Type{Kind: KindTuple, Elems: elems})
}

// Void is the empty tuple, the type of calls with no return values.
func (in *Interner) Void() TypeID { return in.Tuple(nil) }

// Elementary maps a builtin type spelling to an interned type; ok is false
// for unknown spellings.
func (in *Interner) Elementary(name string) (TypeID, bool) {
	switch name {
	case "uint", "uint256":
		return in.Integer(false, 256), true
	case "int", "int256":
		return in.Integer(true, 256), true
	case "bool":
		return in.Bool(), true
	case "address":
		return in.Address(), true
	case "string":
		return in.StringT(), true
	case "bytes32":
		return in.Bytes32(), true
	default:
		return NoType, false
	}
}
