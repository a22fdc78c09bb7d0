package ast

// Children returns the child ids of a node in syntactic order. Invalid ids
// (NoNode) are skipped so callers never see holes.
func Children(u *Unit, id NodeID) []NodeID {
	n := u.Get(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	add := func(ids ...NodeID) {
		for _, c := range ids {
			if c.IsValid() {
				out = append(out, c)
			}
		}
	}
	switch n := n.(type) {
	case *SourceUnit:
		add(n.Nodes...)
	case *ContractDefinition:
		add(n.Doc)
		add(n.Bases...)
		add(n.Members...)
	case *FunctionDefinition:
		add(n.Doc, n.Params, n.Returns, n.Body)
	case *ParameterList:
		add(n.Parameters...)
	case *VariableDeclaration:
		add(n.Doc, n.TypeName, n.Value)
	case *MappingTypeName:
		add(n.KeyType, n.ValueType)
	case *Block:
		add(n.Statements...)
	case *VariableDeclarationStatement:
		add(n.Declaration, n.Value)
	case *ExpressionStatement:
		add(n.Expression)
	case *IfStatement:
		add(n.Condition, n.TrueBody, n.FalseBody)
	case *WhileStatement:
		add(n.Condition, n.Body)
	case *ReturnStatement:
		add(n.Expression)
	case *Assignment:
		add(n.LHS, n.RHS)
	case *BinaryOperation:
		add(n.Left, n.Right)
	case *UnaryOperation:
		add(n.Sub)
	case *FunctionCall:
		add(n.Expression)
		add(n.Arguments...)
	case *NewExpression:
		add(n.TypeName)
	case *MemberAccess:
		add(n.Expression)
	}
	return out
}

// Walk visits the subtree rooted at id top-down in syntactic order.
// Returning false from visit prunes the node's children.
func Walk(u *Unit, id NodeID, visit func(Node) bool) {
	n := u.Get(id)
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range Children(u, id) {
		Walk(u, c, visit)
	}
}

// Contracts returns the ids of all contract definitions in source order.
func (u *Unit) Contracts() []NodeID {
	root, ok := At[*SourceUnit](u, u.Root)
	if !ok {
		return nil
	}
	var out []NodeID
	for _, id := range root.Nodes {
		if _, ok := At[*ContractDefinition](u, id); ok {
			out = append(out, id)
		}
	}
	return out
}

// FreeFunctions returns the ids of file-level function definitions.
func (u *Unit) FreeFunctions() []NodeID {
	root, ok := At[*SourceUnit](u, u.Root)
	if !ok {
		return nil
	}
	var out []NodeID
	for _, id := range root.Nodes {
		if _, ok := At[*FunctionDefinition](u, id); ok {
			out = append(out, id)
		}
	}
	return out
}
