package parser

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/token"
)

// parseExpression: присваивание — правоассоциативное, с самым низким
// приоритетом. Корректность LHS проверяет type checker, не парсер.
func (p *Parser) parseExpression() (ast.NodeID, bool) {
	lhs, ok := p.parseOr()
	if !ok {
		return ast.NoNode, false
	}
	if p.atAny(token.Assign, token.PlusAssign, token.MinusAssign) {
		opTok := p.next()
		rhs, ok := p.parseExpression()
		if !ok {
			return ast.NoNode, false
		}
		node := &ast.Assignment{Operator: opTok.Text, LHS: lhs, RHS: rhs}
		span := p.unit.Get(lhs).Span().Cover(p.unit.Get(rhs).Span())
		return p.unit.AddAt(node, span), true
	}
	return lhs, true
}

// binaryLevel строит левоассоциативный уровень приоритета.
func (p *Parser) binaryLevel(sub func() (ast.NodeID, bool), ops ...token.Kind) (ast.NodeID, bool) {
	left, ok := sub()
	if !ok {
		return ast.NoNode, false
	}
	for p.atAny(ops...) {
		opTok := p.next()
		right, ok := sub()
		if !ok {
			return ast.NoNode, false
		}
		node := &ast.BinaryOperation{Operator: opTok.Text, Left: left, Right: right}
		span := p.unit.Get(left).Span().Cover(p.unit.Get(right).Span())
		left = p.unit.AddAt(node, span)
	}
	return left, true
}

func (p *Parser) parseOr() (ast.NodeID, bool) {
	return p.binaryLevel(p.parseAnd, token.OrOr)
}

func (p *Parser) parseAnd() (ast.NodeID, bool) {
	return p.binaryLevel(p.parseEquality, token.AndAnd)
}

func (p *Parser) parseEquality() (ast.NodeID, bool) {
	return p.binaryLevel(p.parseRelational, token.EqEq, token.BangEq)
}

func (p *Parser) parseRelational() (ast.NodeID, bool) {
	return p.binaryLevel(p.parseAdditive, token.Lt, token.Gt, token.LtEq, token.GtEq)
}

func (p *Parser) parseAdditive() (ast.NodeID, bool) {
	return p.binaryLevel(p.parseMultiplicative, token.Plus, token.Minus)
}

func (p *Parser) parseMultiplicative() (ast.NodeID, bool) {
	return p.binaryLevel(p.parseUnary, token.Star, token.Slash, token.Percent)
}

func (p *Parser) parseUnary() (ast.NodeID, bool) {
	if p.atAny(token.Bang, token.Minus) {
		opTok := p.next()
		sub, ok := p.parseUnary()
		if !ok {
			return ast.NoNode, false
		}
		node := &ast.UnaryOperation{Operator: opTok.Text, Prefix: true, Sub: sub}
		span := opTok.Span.Cover(p.unit.Get(sub).Span())
		return p.unit.AddAt(node, span), true
	}
	return p.parsePostfix()
}

// parsePostfix: primary с хвостом из '.' member и '(' args ')'.
func (p *Parser) parsePostfix() (ast.NodeID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoNode, false
	}
	for {
		switch {
		case p.at(token.Dot):
			p.next()
			memberTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
			if !ok {
				return ast.NoNode, false
			}
			node := &ast.MemberAccess{
				Expression: expr,
				Member:     memberTok.Text,
				MemberSpan: memberTok.Span,
			}
			span := p.unit.Get(expr).Span().Cover(memberTok.Span)
			expr = p.unit.AddAt(node, span)
		case p.at(token.LParen):
			p.next()
			node := &ast.FunctionCall{Expression: expr}
			for !p.atAny(token.RParen, token.EOF) {
				arg, ok := p.parseExpression()
				if !ok {
					return ast.NoNode, false
				}
				node.Arguments = append(node.Arguments, arg)
				if !p.at(token.Comma) {
					break
				}
				p.next()
			}
			if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
				return ast.NoNode, false
			}
			span := p.unit.Get(expr).Span().Cover(p.lastSpan)
			expr = p.unit.AddAt(node, span)
		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimary() (ast.NodeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Number, token.HexNumber:
		p.next()
		return p.unit.AddAt(&ast.Literal{LitKind: ast.LiteralNumber, Value: tok.Text}, tok.Span), true
	case token.StringLit:
		p.next()
		return p.unit.AddAt(&ast.Literal{LitKind: ast.LiteralString, Value: tok.Text}, tok.Span), true
	case token.KwTrue, token.KwFalse:
		p.next()
		return p.unit.AddAt(&ast.Literal{LitKind: ast.LiteralBool, Value: tok.Text}, tok.Span), true
	case token.Ident, token.KwThis:
		p.next()
		return p.unit.AddAt(&ast.Identifier{Name: tok.Text}, tok.Span), true
	case token.KwNew:
		p.next()
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
		if !ok {
			return ast.NoNode, false
		}
		typeName := p.unit.AddAt(&ast.UserDefinedTypeName{Name: nameTok.Text}, nameTok.Span)
		node := &ast.NewExpression{TypeName: typeName}
		return p.unit.AddAt(node, tok.Span.Cover(nameTok.Span)), true
	case token.LParen:
		// скобки не сохраняются в дереве
		p.next()
		expr, ok := p.parseExpression()
		if !ok {
			return ast.NoNode, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return ast.NoNode, false
		}
		return expr, true
	default:
		p.errorf(diag.SynExpectExpression, tok.Span, "expected expression, found %s", describe(tok))
		return ast.NoNode, false
	}
}
