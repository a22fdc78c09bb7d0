package ast

type Block struct {
	base
	Statements []NodeID
}

func (*Block) Kind() NodeKind { return KindBlock }

// VariableDeclarationStatement declares one local variable, optionally
// initialized.
type VariableDeclarationStatement struct {
	base
	Declaration NodeID // VariableDeclaration
	Value       NodeID // initializer expression or NoNode
}

func (*VariableDeclarationStatement) Kind() NodeKind { return KindVariableDeclarationStatement }

type ExpressionStatement struct {
	base
	Expression NodeID
}

func (*ExpressionStatement) Kind() NodeKind { return KindExpressionStatement }

type IfStatement struct {
	base
	Condition NodeID
	TrueBody  NodeID
	FalseBody NodeID // NoNode when there is no else branch
}

func (*IfStatement) Kind() NodeKind { return KindIfStatement }

type WhileStatement struct {
	base
	Condition NodeID
	Body      NodeID
}

func (*WhileStatement) Kind() NodeKind { return KindWhileStatement }

type ReturnStatement struct {
	base
	Expression NodeID // NoNode for bare return
}

func (*ReturnStatement) Kind() NodeKind { return KindReturnStatement }

type BreakStatement struct{ base }

func (*BreakStatement) Kind() NodeKind { return KindBreakStatement }

type ContinueStatement struct{ base }

func (*ContinueStatement) Kind() NodeKind { return KindContinueStatement }
