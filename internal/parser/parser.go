package parser

import (
	"fmt"
	"slices"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/lexer"
	"solfront/internal/source"
	"solfront/internal/token"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

// Parser — состояние парсера на одну единицу компиляции.
type Parser struct {
	lx       *lexer.Lexer
	unit     *ast.Unit
	opts     Options
	errs     uint
	lastSpan source.Span // span последнего съеденного токена
}

// ParseSourceUnit is the entry point: it parses one file into a fresh arena
// unit. ok is false when any lexical or syntactic error was reported; the
// caller then discards the unit and keeps only the diagnostics.
func ParseSourceUnit(file *source.File, opts Options) (*ast.Unit, bool) {
	counter := &countingReporter{inner: opts.Reporter}
	opts.Reporter = counter

	p := Parser{
		lx:   lexer.New(file, counter),
		unit: ast.NewUnit(file.Name),
		opts: opts,
	}
	p.parseUnit()
	return p.unit, counter.errors == 0
}

// countingReporter отслеживает количество ошибок, проходящих через него.
type countingReporter struct {
	inner  diag.Reporter
	errors uint
}

func (c *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev >= diag.SevError {
		c.errors++
	}
	if c.inner != nil {
		c.inner.Report(code, sev, primary, msg, notes)
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) next() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// expect съедает токен требуемого вида или сообщает об ошибке.
func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	got := p.lx.Peek()
	p.errorf(code, got.Span, "expected %s, found %s", k, describe(got))
	return got, false
}

func (p *Parser) expectSemicolon() bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon)
	return ok
}

func (p *Parser) errorf(code diag.Code, span source.Span, format string, args ...any) {
	p.errs++
	if p.opts.MaxErrors != 0 && p.errs > p.opts.MaxErrors {
		return
	}
	diag.Error(p.opts.Reporter, code, span, fmt.Sprintf(format, args...))
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.Ident, token.Number, token.HexNumber:
		return fmt.Sprintf("'%s'", tok.Text)
	case token.StringLit:
		return "string literal"
	default:
		return tok.Kind.String()
	}
}

// resyncTop пропускает токены до начала следующего top-level элемента.
func (p *Parser) resyncTop() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth > 0 {
				depth--
			}
			p.next()
			if depth == 0 {
				return
			}
			continue
		case token.Semicolon:
			p.next()
			if depth == 0 {
				return
			}
			continue
		case token.KwContract, token.KwInterface, token.KwAbstract, token.KwPragma:
			if depth == 0 {
				return
			}
		}
		p.next()
	}
}

// resyncStmt пропускает токены до границы оператора.
func (p *Parser) resyncStmt() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.Semicolon:
			if depth == 0 {
				p.next()
				return
			}
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.next()
	}
}

// docNode материализует doc-комментарий токена в узел, если он есть.
func (p *Parser) docNode(tok token.Token) ast.NodeID {
	if tok.Doc == "" {
		return ast.NoNode
	}
	doc := &ast.StructuredDocumentation{Text: tok.Doc}
	return p.unit.AddAt(doc, source.Span{Start: tok.Span.Start, End: tok.Span.Start})
}
