package lexer

import (
	"strings"

	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/token"
)

// Lexer produces significant tokens from a source file. Documentation
// comments are not tokens of their own: their text is attached to the next
// significant token (Token.Doc) so the parser can hand it to declarations.
type Lexer struct {
	file     *source.File
	cursor   Cursor
	reporter diag.Reporter
	look     []token.Token // буфер предпросмотра (до двух токенов)
	doc      []string      // накопленные строки doc-комментария
}

func New(file *source.File, reporter diag.Reporter) *Lexer {
	return &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		reporter: reporter,
	}
}

// Peek возвращает следующий токен, не съедая его.
func (lx *Lexer) Peek() token.Token {
	lx.fill(1)
	return lx.look[0]
}

// Peek2 возвращает токен за следующим, не съедая ничего.
func (lx *Lexer) Peek2() token.Token {
	lx.fill(2)
	return lx.look[1]
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	lx.fill(1)
	tok := lx.look[0]
	lx.look = lx.look[1:]
	return tok
}

func (lx *Lexer) fill(n int) {
	for len(lx.look) < n {
		lx.look = append(lx.look, lx.scan())
	}
}

func (lx *Lexer) scan() token.Token {
	lx.skipTrivia()

	start := lx.cursor.Off
	doc := lx.takeDoc()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: source.Span{Start: start, End: start}, Doc: doc}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case isIdentStart(ch):
		tok = lx.scanIdent()
	case isDigit(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	default:
		tok = lx.scanOperator()
	}
	tok.Doc = doc
	return tok
}

// skipTrivia съедает пробелы и комментарии, собирая doc-комментарии.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			lx.cursor.Bump()
		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			if lx.cursor.PeekAt(2) == '/' {
				lx.scanDocLine()
			} else {
				lx.skipLineComment()
			}
		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			if lx.cursor.PeekAt(2) == '*' && lx.cursor.PeekAt(3) != '/' {
				lx.scanDocBlock()
			} else {
				lx.skipBlockComment()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) skipLineComment() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Off
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return
		}
		lx.cursor.Bump()
	}
	diag.Error(lx.reporter, diag.LexUnterminatedBlockComment,
		source.Span{Start: start, End: lx.cursor.Off}, "unterminated block comment")
}

// scanDocLine накапливает одну строку '///'.
func (lx *Lexer) scanDocLine() {
	lx.cursor.Bump()
	lx.cursor.Bump()
	lx.cursor.Bump()
	start := lx.cursor.Off
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	line := strings.TrimSpace(lx.cursor.Slice(start, lx.cursor.Off))
	lx.doc = append(lx.doc, line)
}

// scanDocBlock накапливает '/** ... */' построчно, срезая ведущие '*'.
func (lx *Lexer) scanDocBlock() {
	start := lx.cursor.Off
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'
	lx.cursor.Bump() // '*'
	bodyStart := lx.cursor.Off
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			body := lx.cursor.Slice(bodyStart, lx.cursor.Off)
			lx.cursor.Bump()
			lx.cursor.Bump()
			for _, line := range strings.Split(body, "\n") {
				line = strings.TrimSpace(line)
				line = strings.TrimPrefix(line, "*")
				line = strings.TrimSpace(line)
				if line != "" {
					lx.doc = append(lx.doc, line)
				}
			}
			return
		}
		lx.cursor.Bump()
	}
	diag.Error(lx.reporter, diag.LexUnterminatedBlockComment,
		source.Span{Start: start, End: lx.cursor.Off}, "unterminated documentation comment")
}

func (lx *Lexer) takeDoc() string {
	if len(lx.doc) == 0 {
		return ""
	}
	text := strings.Join(lx.doc, "\n")
	lx.doc = nil
	return text
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentCont(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
