package ast

// ElementaryTypeName is a builtin type spelling (uint256, bool, address, ...).
type ElementaryTypeName struct {
	base
	Name string
}

func (*ElementaryTypeName) Kind() NodeKind { return KindElementaryTypeName }

// MappingTypeName is mapping(KeyType => ValueType).
type MappingTypeName struct {
	base
	KeyType   NodeID
	ValueType NodeID
}

func (*MappingTypeName) Kind() NodeKind { return KindMappingTypeName }

// UserDefinedTypeName references a declared type (a contract) by name.
// The binding to its declaration is an analysis annotation, not stored here.
type UserDefinedTypeName struct {
	base
	Name string
}

func (*UserDefinedTypeName) Kind() NodeKind { return KindUserDefinedTypeName }
