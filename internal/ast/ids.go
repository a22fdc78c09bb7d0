package ast

// NodeID is the stable identity of a node inside a Unit arena. IDs are
// 1-based and double as the node ids of the interchange format; 0 means
// "no node".
type NodeID uint32

const NoNode NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNode }

// NodeKind discriminates the concrete node type behind a NodeID.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota
	KindSourceUnit
	KindPragmaDirective
	KindContractDefinition
	KindInheritanceSpecifier
	KindFunctionDefinition
	KindParameterList
	KindVariableDeclaration
	KindElementaryTypeName
	KindMappingTypeName
	KindUserDefinedTypeName
	KindStructuredDocumentation
	KindBlock
	KindVariableDeclarationStatement
	KindExpressionStatement
	KindIfStatement
	KindWhileStatement
	KindReturnStatement
	KindBreakStatement
	KindContinueStatement
	KindAssignment
	KindBinaryOperation
	KindUnaryOperation
	KindFunctionCall
	KindNewExpression
	KindMemberAccess
	KindIdentifier
	KindLiteral
)

var kindNames = [...]string{
	KindInvalid:                      "Invalid",
	KindSourceUnit:                   "SourceUnit",
	KindPragmaDirective:              "PragmaDirective",
	KindContractDefinition:           "ContractDefinition",
	KindInheritanceSpecifier:         "InheritanceSpecifier",
	KindFunctionDefinition:           "FunctionDefinition",
	KindParameterList:                "ParameterList",
	KindVariableDeclaration:          "VariableDeclaration",
	KindElementaryTypeName:           "ElementaryTypeName",
	KindMappingTypeName:              "Mapping",
	KindUserDefinedTypeName:          "UserDefinedTypeName",
	KindStructuredDocumentation:      "StructuredDocumentation",
	KindBlock:                        "Block",
	KindVariableDeclarationStatement: "VariableDeclarationStatement",
	KindExpressionStatement:          "ExpressionStatement",
	KindIfStatement:                  "IfStatement",
	KindWhileStatement:               "WhileStatement",
	KindReturnStatement:              "Return",
	KindBreakStatement:               "Break",
	KindContinueStatement:            "Continue",
	KindAssignment:                   "Assignment",
	KindBinaryOperation:              "BinaryOperation",
	KindUnaryOperation:               "UnaryOperation",
	KindFunctionCall:                 "FunctionCall",
	KindNewExpression:                "NewExpression",
	KindMemberAccess:                 "MemberAccess",
	KindIdentifier:                   "Identifier",
	KindLiteral:                      "Literal",
}

// String returns the interchange nodeType spelling of the kind.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}

// KindFromString maps an interchange nodeType back to a kind, or KindInvalid.
func KindFromString(s string) NodeKind {
	for k, name := range kindNames {
		if name == s && NodeKind(k) != KindInvalid {
			return NodeKind(k)
		}
	}
	return KindInvalid
}
