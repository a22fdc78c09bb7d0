package diag

import (
	"testing"

	"solfront/internal/source"
)

func TestBagCapAndOrder(t *testing.T) {
	b := NewBag(2)
	ok1 := b.Add(Diagnostic{Severity: SevError, Code: SynUnexpectedToken, Message: "first"})
	ok2 := b.Add(Diagnostic{Severity: SevError, Code: SynExpectSemicolon, Message: "second"})
	ok3 := b.Add(Diagnostic{Severity: SevError, Code: SynUnclosedBrace, Message: "third"})
	if !ok1 || !ok2 {
		t.Fatalf("adds below cap rejected: %v %v", ok1, ok2)
	}
	if ok3 {
		t.Fatalf("add above cap accepted")
	}
	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d", len(items))
	}
	if items[0].Message != "first" || items[1].Message != "second" {
		t.Fatalf("append order broken: %q %q", items[0].Message, items[1].Message)
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(8)
	b.Add(Diagnostic{Severity: SevWarning, Code: DeclHomonymShadowing, Message: "w"})
	if b.HasErrors() {
		t.Fatalf("warning counted as error")
	}
	if !b.HasWarnings() {
		t.Fatalf("warning not seen")
	}
	b.Add(Diagnostic{Severity: SevError, Code: TypeCondNotBool, Message: "e"})
	if !b.HasErrors() {
		t.Fatalf("error not seen")
	}
	b.Reset()
	if b.Len() != 0 || b.HasErrors() {
		t.Fatalf("reset did not clear")
	}
}

func TestCodeKind(t *testing.T) {
	cases := []struct {
		code Code
		kind string
	}{
		{LexUnknownChar, "ParserError"},
		{SynUnexpectedToken, "ParserError"},
		{SynBreakOutsideLoop, "SyntaxError"},
		{DeclUndeclaredIdentifier, "DeclarationError"},
		{DocUnknownTag, "DocstringParsingError"},
		{ContractMissingOverride, "TypeError"},
		{TypeCondNotBool, "TypeError"},
		{PostViewWrite, "TypeError"},
		{ICEPanic, "InternalCompilerError"},
	}
	for _, tc := range cases {
		if got := tc.code.Kind(); got != tc.kind {
			t.Fatalf("%s.Kind() = %q, want %q", tc.code.ID(), got, tc.kind)
		}
	}
}

func TestDiagnosticKindSeverityOverride(t *testing.T) {
	d := Diagnostic{Severity: SevWarning, Code: SynMissingPragma}
	if got := d.Kind(); got != "Warning" {
		t.Fatalf("warning Kind = %q", got)
	}
	d = Diagnostic{Severity: SevError, Code: SynMissingPragma}
	if got := d.Kind(); got != "SyntaxError" {
		t.Fatalf("error Kind = %q", got)
	}
}

func TestErrorWithNote(t *testing.T) {
	b := NewBag(4)
	r := BagReporter{Bag: b}
	ErrorWithNote(r, DeclDuplicateName, source.Span{Start: 10, End: 12}, "dup", source.Span{Start: 2, End: 4}, "previous declaration")
	items := b.Items()
	if len(items) != 1 {
		t.Fatalf("len = %d", len(items))
	}
	if len(items[0].Notes) != 1 || items[0].Notes[0].Msg != "previous declaration" {
		t.Fatalf("note missing: %+v", items[0])
	}
}
