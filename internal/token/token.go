package token

import "solfront/internal/source"

// Token represents a single source token with its location.
// Doc carries the text of a documentation comment (///-run or /** */ block)
// immediately preceding the token; it is empty for most tokens.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	Doc  string
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, HexNumber, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwPragma && t.Kind <= KwThis
}
