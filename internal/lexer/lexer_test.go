package lexer

import (
	"testing"

	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	lx := New(source.NewFile("test.sol", src), diag.NopReporter{})
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
		if len(out) > 1000 {
			t.Fatalf("lexer did not terminate")
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestKeywordsAndPunctuation(t *testing.T) {
	toks := scanAll(t, "contract C is D { mapping(address => uint256) m; }")
	want := []token.Kind{
		token.KwContract, token.Ident, token.KwIs, token.Ident, token.LBrace,
		token.KwMapping, token.LParen, token.Ident, token.FatArrow, token.Ident, token.RParen,
		token.Ident, token.Semicolon, token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMultiCharOperators(t *testing.T) {
	toks := scanAll(t, "a += b; c >= d; e == f; g != h; i && j || !k")
	want := []token.Kind{
		token.Ident, token.PlusAssign, token.Ident, token.Semicolon,
		token.Ident, token.GtEq, token.Ident, token.Semicolon,
		token.Ident, token.EqEq, token.Ident, token.Semicolon,
		token.Ident, token.BangEq, token.Ident, token.Semicolon,
		token.Ident, token.AndAnd, token.Ident, token.OrOr, token.Bang, token.Ident,
		token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNumbersAndStrings(t *testing.T) {
	toks := scanAll(t, `42 0x1f "hello"`)
	want := []token.Kind{token.Number, token.HexNumber, token.StringLit, token.EOF}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
	if toks[0].Text != "42" || toks[1].Text != "0x1f" {
		t.Fatalf("texts = %q %q", toks[0].Text, toks[1].Text)
	}
}

func TestDocCommentAttachesToNextToken(t *testing.T) {
	src := "/// @title Greeter\n/// line two\ncontract C {}"
	toks := scanAll(t, src)
	if toks[0].Kind != token.KwContract {
		t.Fatalf("first token = %v", toks[0].Kind)
	}
	if toks[0].Doc == "" {
		t.Fatalf("doc comment not attached")
	}
	if toks[1].Doc != "" {
		t.Fatalf("doc leaked to following token: %q", toks[1].Doc)
	}
}

func TestLineAndBlockCommentsAreTrivia(t *testing.T) {
	toks := scanAll(t, "a // tail\n/* block\nspanning */ b")
	want := []token.Kind{token.Ident, token.Ident, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d: %v", len(got), got)
	}
}

func TestUnknownCharReported(t *testing.T) {
	bag := diag.NewBag(4)
	lx := New(source.NewFile("test.sol", "a $ b"), diag.BagReporter{Bag: bag})
	for lx.Next().Kind != token.EOF {
	}
	if !bag.HasErrors() {
		t.Fatalf("unknown char not reported")
	}
	if bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("code = %v", bag.Items()[0].Code)
	}
}

func TestUnterminatedString(t *testing.T) {
	bag := diag.NewBag(4)
	lx := New(source.NewFile("test.sol", `"oops`), diag.BagReporter{Bag: bag})
	for lx.Next().Kind != token.EOF {
	}
	if !bag.HasErrors() {
		t.Fatalf("unterminated string not reported")
	}
}
