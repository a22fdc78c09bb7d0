package parser

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/token"
)

func (p *Parser) parseBlock() (ast.NodeID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken)
	if !ok {
		return ast.NoNode, false
	}
	node := &ast.Block{}
	for !p.atAny(token.RBrace, token.EOF) {
		stmt, ok := p.parseStatement()
		if !ok {
			p.resyncStmt()
			continue
		}
		node.Statements = append(node.Statements, stmt)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace); !ok {
		return ast.NoNode, false
	}
	return p.unit.AddAt(node, open.Span.Cover(p.lastSpan)), true
}

func (p *Parser) parseStatement() (ast.NodeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwBreak:
		p.next()
		if !p.expectSemicolon() {
			return ast.NoNode, false
		}
		return p.unit.AddAt(&ast.BreakStatement{}, tok.Span.Cover(p.lastSpan)), true
	case token.KwContinue:
		p.next()
		if !p.expectSemicolon() {
			return ast.NoNode, false
		}
		return p.unit.AddAt(&ast.ContinueStatement{}, tok.Span.Cover(p.lastSpan)), true
	default:
		if p.atTypeNameStart() {
			return p.parseLocalVariable()
		}
		return p.parseExpressionStatement()
	}
}

// atTypeNameStart различает объявление локальной переменной и выражение.
// Локальная переменная начинается с mapping, встроенного типа или двух
// идентификаторов подряд (пользовательский тип + имя).
func (p *Parser) atTypeNameStart() bool {
	tok := p.lx.Peek()
	if tok.Kind == token.KwMapping {
		return true
	}
	if tok.Kind != token.Ident {
		return false
	}
	if token.IsElementaryTypeName(tok.Text) {
		return true
	}
	return p.lx.Peek2().Kind == token.Ident
}

func (p *Parser) parseLocalVariable() (ast.NodeID, bool) {
	typeName, ok := p.parseTypeName()
	if !ok {
		return ast.NoNode, false
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return ast.NoNode, false
	}
	decl := &ast.VariableDeclaration{
		Name:     nameTok.Text,
		NameSpan: nameTok.Span,
		TypeName: typeName,
	}
	declSpan := p.unit.Get(typeName).Span().Cover(nameTok.Span)
	stmt := &ast.VariableDeclarationStatement{}
	if p.at(token.Assign) {
		p.next()
		if stmt.Value, ok = p.parseExpression(); !ok {
			return ast.NoNode, false
		}
	}
	if !p.expectSemicolon() {
		return ast.NoNode, false
	}
	stmt.Declaration = p.unit.AddAt(decl, declSpan)
	span := p.unit.Get(typeName).Span().Cover(p.lastSpan)
	return p.unit.AddAt(stmt, span), true
}

func (p *Parser) parseExpressionStatement() (ast.NodeID, bool) {
	start := p.lx.Peek().Span
	expr, ok := p.parseExpression()
	if !ok {
		return ast.NoNode, false
	}
	if !p.expectSemicolon() {
		return ast.NoNode, false
	}
	node := &ast.ExpressionStatement{Expression: expr}
	return p.unit.AddAt(node, start.Cover(p.lastSpan)), true
}

func (p *Parser) parseIf() (ast.NodeID, bool) {
	kw := p.next() // 'if'
	if _, ok := p.expect(token.LParen, diag.SynUnclosedParen); !ok {
		return ast.NoNode, false
	}
	node := &ast.IfStatement{}
	var ok bool
	if node.Condition, ok = p.parseExpression(); !ok {
		return ast.NoNode, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
		return ast.NoNode, false
	}
	if node.TrueBody, ok = p.parseStatement(); !ok {
		return ast.NoNode, false
	}
	if p.at(token.KwElse) {
		p.next()
		if node.FalseBody, ok = p.parseStatement(); !ok {
			return ast.NoNode, false
		}
	}
	return p.unit.AddAt(node, kw.Span.Cover(p.lastSpan)), true
}

func (p *Parser) parseWhile() (ast.NodeID, bool) {
	kw := p.next() // 'while'
	if _, ok := p.expect(token.LParen, diag.SynUnclosedParen); !ok {
		return ast.NoNode, false
	}
	node := &ast.WhileStatement{}
	var ok bool
	if node.Condition, ok = p.parseExpression(); !ok {
		return ast.NoNode, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
		return ast.NoNode, false
	}
	if node.Body, ok = p.parseStatement(); !ok {
		return ast.NoNode, false
	}
	return p.unit.AddAt(node, kw.Span.Cover(p.lastSpan)), true
}

func (p *Parser) parseReturn() (ast.NodeID, bool) {
	kw := p.next() // 'return'
	node := &ast.ReturnStatement{}
	if !p.at(token.Semicolon) {
		var ok bool
		if node.Expression, ok = p.parseExpression(); !ok {
			return ast.NoNode, false
		}
	}
	if !p.expectSemicolon() {
		return ast.NoNode, false
	}
	return p.unit.AddAt(node, kw.Span.Cover(p.lastSpan)), true
}
