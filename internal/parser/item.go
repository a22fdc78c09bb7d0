package parser

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/token"
)

// parseUnit — основной цикл верхнего уровня: пока не EOF — parseTopLevel.
func (p *Parser) parseUnit() {
	startSpan := p.lx.Peek().Span
	root := &ast.SourceUnit{}
	for !p.at(token.EOF) {
		id, ok := p.parseTopLevel()
		if !ok {
			p.resyncTop()
			continue
		}
		if id.IsValid() {
			root.Nodes = append(root.Nodes, id)
		}
	}
	span := startSpan.Cover(p.lastSpan)
	p.unit.Root = p.unit.AddAt(root, span)
}

func (p *Parser) parseTopLevel() (ast.NodeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.KwPragma:
		return p.parsePragma()
	case token.KwAbstract:
		p.next()
		if !p.atAny(token.KwContract, token.KwInterface) {
			p.errorf(diag.SynUnexpectedToken, p.lx.Peek().Span,
				"expected 'contract' or 'interface' after 'abstract', found %s", describe(p.lx.Peek()))
			return ast.NoNode, false
		}
		return p.parseContract(tok, true)
	case token.KwContract, token.KwInterface:
		return p.parseContract(tok, false)
	case token.KwFunction:
		return p.parseFunction(tok)
	default:
		p.errorf(diag.SynUnexpectedToken, tok.Span,
			"expected pragma, contract, interface or function, found %s", describe(tok))
		return ast.NoNode, false
	}
}

// parsePragma: 'pragma' <...> ';' — токены сохраняются как есть.
func (p *Parser) parsePragma() (ast.NodeID, bool) {
	start, _ := p.expect(token.KwPragma, diag.SynUnexpectedToken)
	node := &ast.PragmaDirective{}
	for !p.atAny(token.Semicolon, token.EOF) {
		node.Literals = append(node.Literals, p.next().Text)
	}
	ok := p.expectSemicolon()
	return p.unit.AddAt(node, start.Span.Cover(p.lastSpan)), ok
}

func (p *Parser) parseContract(docTok token.Token, abstract bool) (ast.NodeID, bool) {
	kindTok := p.next() // 'contract' | 'interface'
	node := &ast.ContractDefinition{
		Abstract: abstract,
		Doc:      p.docNode(docTok),
	}
	if kindTok.Kind == token.KwInterface {
		node.ContractKind = ast.ContractKindInterface
	}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return ast.NoNode, false
	}
	node.Name = nameTok.Text
	node.NameSpan = nameTok.Span

	if p.at(token.KwIs) {
		p.next()
		for {
			baseTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
			if !ok {
				return ast.NoNode, false
			}
			spec := &ast.InheritanceSpecifier{Name: baseTok.Text}
			node.Bases = append(node.Bases, p.unit.AddAt(spec, baseTok.Span))
			if !p.at(token.Comma) {
				break
			}
			p.next()
		}
	}

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken); !ok {
		return ast.NoNode, false
	}
	for !p.atAny(token.RBrace, token.EOF) {
		member, ok := p.parseMember()
		if !ok {
			p.resyncStmt()
			continue
		}
		node.Members = append(node.Members, member)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace); !ok {
		return ast.NoNode, false
	}
	span := kindTok.Span.Cover(p.lastSpan)
	if abstract {
		span = docTok.Span.Cover(span)
	}
	return p.unit.AddAt(node, span), true
}

func (p *Parser) parseMember() (ast.NodeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.KwFunction:
		return p.parseFunction(tok)
	case token.KwConstructor:
		return p.parseConstructor(tok)
	default:
		return p.parseStateVariable(tok)
	}
}

// parseFunction: 'function' Ident '(' params ')' mods* ('returns' '(' params ')')? (block | ';')
func (p *Parser) parseFunction(docTok token.Token) (ast.NodeID, bool) {
	kw := p.next() // 'function'
	node := &ast.FunctionDefinition{
		FnKind: ast.FunctionKindFunction,
		Doc:    p.docNode(docTok),
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return ast.NoNode, false
	}
	node.Name = nameTok.Text
	node.NameSpan = nameTok.Span

	if node.Params, ok = p.parseParameterList(); !ok {
		return ast.NoNode, false
	}
	p.parseFunctionModifiers(node)
	if p.at(token.KwReturns) {
		p.next()
		if node.Returns, ok = p.parseParameterList(); !ok {
			return ast.NoNode, false
		}
	} else {
		node.Returns = p.emptyParameterList()
	}

	switch {
	case p.at(token.Semicolon):
		p.next()
	case p.at(token.LBrace):
		if node.Body, ok = p.parseBlock(); !ok {
			return ast.NoNode, false
		}
	default:
		p.errorf(diag.SynUnexpectedToken, p.lx.Peek().Span,
			"expected function body or ';', found %s", describe(p.lx.Peek()))
		return ast.NoNode, false
	}
	return p.unit.AddAt(node, kw.Span.Cover(p.lastSpan)), true
}

func (p *Parser) parseConstructor(docTok token.Token) (ast.NodeID, bool) {
	kw := p.next() // 'constructor'
	node := &ast.FunctionDefinition{
		FnKind: ast.FunctionKindConstructor,
		Doc:    p.docNode(docTok),
	}
	var ok bool
	if node.Params, ok = p.parseParameterList(); !ok {
		return ast.NoNode, false
	}
	p.parseFunctionModifiers(node)
	node.Returns = p.emptyParameterList()
	if p.at(token.KwReturns) {
		p.errorf(diag.SynConstructorReturns, p.lx.Peek().Span,
			"constructors cannot declare return values")
		return ast.NoNode, false
	}
	if node.Body, ok = p.parseBlock(); !ok {
		return ast.NoNode, false
	}
	return p.unit.AddAt(node, kw.Span.Cover(p.lastSpan)), true
}

func (p *Parser) parseFunctionModifiers(node *ast.FunctionDefinition) {
	for {
		switch p.lx.Peek().Kind {
		case token.KwPublic:
			node.Visibility = ast.VisibilityPublic
		case token.KwExternal:
			node.Visibility = ast.VisibilityExternal
		case token.KwInternal:
			node.Visibility = ast.VisibilityInternal
		case token.KwPrivate:
			node.Visibility = ast.VisibilityPrivate
		case token.KwView:
			node.Mutability = ast.MutabilityView
		case token.KwPure:
			node.Mutability = ast.MutabilityPure
		case token.KwPayable:
			node.Mutability = ast.MutabilityPayable
		case token.KwVirtual:
			node.Virtual = true
		case token.KwOverride:
			node.Override = true
		default:
			return
		}
		p.next()
	}
}

func (p *Parser) parseParameterList() (ast.NodeID, bool) {
	open, ok := p.expect(token.LParen, diag.SynUnclosedParen)
	if !ok {
		return ast.NoNode, false
	}
	node := &ast.ParameterList{}
	for !p.atAny(token.RParen, token.EOF) {
		typeName, ok := p.parseTypeName()
		if !ok {
			return ast.NoNode, false
		}
		param := &ast.VariableDeclaration{TypeName: typeName}
		span := p.unit.Get(typeName).Span()
		if p.at(token.Ident) {
			nameTok := p.next()
			param.Name = nameTok.Text
			param.NameSpan = nameTok.Span
			span = span.Cover(nameTok.Span)
		}
		node.Parameters = append(node.Parameters, p.unit.AddAt(param, span))
		if !p.at(token.Comma) {
			break
		}
		p.next()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
		return ast.NoNode, false
	}
	return p.unit.AddAt(node, open.Span.Cover(p.lastSpan)), true
}

// emptyParameterList создаёт пустой список в текущей позиции.
func (p *Parser) emptyParameterList() ast.NodeID {
	at := p.lastSpan.End
	return p.unit.AddAt(&ast.ParameterList{}, source.Span{Start: at, End: at})
}

// parseStateVariable: typeName (visibility|'constant')* Ident ('=' expr)? ';'
func (p *Parser) parseStateVariable(docTok token.Token) (ast.NodeID, bool) {
	typeName, ok := p.parseTypeName()
	if !ok {
		return ast.NoNode, false
	}
	node := &ast.VariableDeclaration{
		TypeName:      typeName,
		StateVariable: true,
		Doc:           p.docNode(docTok),
	}
	for mods := true; mods; {
		switch p.lx.Peek().Kind {
		case token.KwPublic:
			node.Visibility = ast.VisibilityPublic
			p.next()
		case token.KwInternal:
			node.Visibility = ast.VisibilityInternal
			p.next()
		case token.KwPrivate:
			node.Visibility = ast.VisibilityPrivate
			p.next()
		case token.KwConstant:
			node.Constant = true
			p.next()
		default:
			mods = false
		}
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return ast.NoNode, false
	}
	node.Name = nameTok.Text
	node.NameSpan = nameTok.Span
	if p.at(token.Assign) {
		p.next()
		if node.Value, ok = p.parseExpression(); !ok {
			return ast.NoNode, false
		}
	}
	if !p.expectSemicolon() {
		return ast.NoNode, false
	}
	span := p.unit.Get(typeName).Span().Cover(p.lastSpan)
	return p.unit.AddAt(node, span), true
}

func (p *Parser) parseTypeName() (ast.NodeID, bool) {
	tok := p.lx.Peek()
	switch {
	case tok.Kind == token.KwMapping:
		p.next()
		if _, ok := p.expect(token.LParen, diag.SynUnclosedParen); !ok {
			return ast.NoNode, false
		}
		key, ok := p.parseTypeName()
		if !ok {
			return ast.NoNode, false
		}
		if _, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken); !ok {
			return ast.NoNode, false
		}
		value, ok := p.parseTypeName()
		if !ok {
			return ast.NoNode, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen); !ok {
			return ast.NoNode, false
		}
		node := &ast.MappingTypeName{KeyType: key, ValueType: value}
		return p.unit.AddAt(node, tok.Span.Cover(p.lastSpan)), true
	case tok.Kind == token.Ident && token.IsElementaryTypeName(tok.Text):
		p.next()
		return p.unit.AddAt(&ast.ElementaryTypeName{Name: tok.Text}, tok.Span), true
	case tok.Kind == token.Ident:
		p.next()
		return p.unit.AddAt(&ast.UserDefinedTypeName{Name: tok.Text}, tok.Span), true
	default:
		p.errorf(diag.SynExpectTypeName, tok.Span, "expected type name, found %s", describe(tok))
		return ast.NoNode, false
	}
}
