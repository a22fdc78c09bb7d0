package lexer

import (
	"fmt"

	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/token"
)

func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Off
	for !lx.cursor.EOF() && isIdentCont(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	text := lx.cursor.Slice(start, lx.cursor.Off)
	return token.Token{
		Kind: token.LookupKeyword(text),
		Span: source.Span{Start: start, End: lx.cursor.Off},
		Text: text,
	}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Off
	kind := token.Number
	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') {
		kind = token.HexNumber
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for !lx.cursor.EOF() && isHexDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		if digits == 0 {
			sp := source.Span{Start: start, End: lx.cursor.Off}
			diag.Error(lx.reporter, diag.LexBadNumber, sp, "hex literal has no digits")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.Slice(start, lx.cursor.Off)}
		}
	} else {
		for !lx.cursor.EOF() && isDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	// число, сросшееся с идентификатором — ошибка ("123abc")
	if !lx.cursor.EOF() && isIdentStart(lx.cursor.Peek()) {
		for !lx.cursor.EOF() && isIdentCont(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := source.Span{Start: start, End: lx.cursor.Off}
		diag.Error(lx.reporter, diag.LexBadNumber, sp,
			fmt.Sprintf("malformed number literal %q", lx.cursor.Slice(start, lx.cursor.Off)))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.Slice(start, lx.cursor.Off)}
	}
	return token.Token{
		Kind: kind,
		Span: source.Span{Start: start, End: lx.cursor.Off},
		Text: lx.cursor.Slice(start, lx.cursor.Off),
	}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Off
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '"' {
			lx.cursor.Bump()
			return token.Token{
				Kind: token.StringLit,
				Span: source.Span{Start: start, End: lx.cursor.Off},
				// без кавычек
				Text: lx.cursor.Slice(start+1, lx.cursor.Off-1),
			}
		}
		if ch == '\n' {
			break
		}
		lx.cursor.Bump()
	}
	sp := source.Span{Start: start, End: lx.cursor.Off}
	diag.Error(lx.reporter, diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.Slice(start, lx.cursor.Off)}
}

func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Off
	ch := lx.cursor.Bump()

	two := func(next byte, kind, fallback token.Kind) token.Token {
		if lx.cursor.Peek() == next {
			lx.cursor.Bump()
			return lx.tok(kind, start)
		}
		return lx.tok(fallback, start)
	}

	switch ch {
	case '(':
		return lx.tok(token.LParen, start)
	case ')':
		return lx.tok(token.RParen, start)
	case '{':
		return lx.tok(token.LBrace, start)
	case '}':
		return lx.tok(token.RBrace, start)
	case ';':
		return lx.tok(token.Semicolon, start)
	case ',':
		return lx.tok(token.Comma, start)
	case '.':
		return lx.tok(token.Dot, start)
	case '+':
		return two('=', token.PlusAssign, token.Plus)
	case '-':
		return two('=', token.MinusAssign, token.Minus)
	case '*':
		return lx.tok(token.Star, start)
	case '/':
		return lx.tok(token.Slash, start)
	case '%':
		return lx.tok(token.Percent, start)
	case '!':
		return two('=', token.BangEq, token.Bang)
	case '<':
		return two('=', token.LtEq, token.Lt)
	case '>':
		return two('=', token.GtEq, token.Gt)
	case '=':
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			return lx.tok(token.EqEq, start)
		}
		if lx.cursor.Peek() == '>' {
			lx.cursor.Bump()
			return lx.tok(token.FatArrow, start)
		}
		return lx.tok(token.Assign, start)
	case '&':
		if lx.cursor.Peek() == '&' {
			lx.cursor.Bump()
			return lx.tok(token.AndAnd, start)
		}
	case '|':
		if lx.cursor.Peek() == '|' {
			lx.cursor.Bump()
			return lx.tok(token.OrOr, start)
		}
	}

	sp := source.Span{Start: start, End: lx.cursor.Off}
	diag.Error(lx.reporter, diag.LexUnknownChar, sp,
		fmt.Sprintf("unexpected character %q", lx.cursor.Slice(start, lx.cursor.Off)))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.Slice(start, lx.cursor.Off)}
}

func (lx *Lexer) tok(kind token.Kind, start uint32) token.Token {
	return token.Token{
		Kind: kind,
		Span: source.Span{Start: start, End: lx.cursor.Off},
		Text: lx.cursor.Slice(start, lx.cursor.Off),
	}
}
