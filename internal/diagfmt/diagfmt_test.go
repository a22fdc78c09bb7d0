package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"solfront/internal/diag"
	"solfront/internal/source"
)

func sampleBag() (*diag.Bag, *source.File) {
	file := source.NewFile("a.sol", "contract C {\n    uint256 x\n}\n")
	bag := diag.NewBag(8)
	r := diag.BagReporter{Bag: bag}
	diag.Error(r, diag.SynExpectSemicolon, source.Span{Start: 17, End: 26}, "expected ';', found '}'")
	diag.Warning(r, diag.SynMissingPragma, source.Span{Start: 0, End: 8}, "source unit has no pragma directive")
	return bag, file
}

func TestPrettyFormat(t *testing.T) {
	bag, file := sampleBag()
	var buf bytes.Buffer
	Pretty(&buf, bag, file, PrettyOpts{})

	out := buf.String()
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "a.sol:2:5: error SOL2002: ") {
		t.Fatalf("header line = %q", lines[0])
	}
	if !strings.Contains(out, "a.sol:1:1: warning SOL2103: ") {
		t.Fatalf("warning line missing:\n%s", out)
	}
	// Строка контекста и подчёркивание.
	if lines[1] != "      uint256 x" {
		t.Fatalf("context line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "      ^~~~~~~~") {
		t.Fatalf("underline = %q", lines[2])
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color escapes without Color option:\n%q", out)
	}
}

func TestPrettyNotes(t *testing.T) {
	file := source.NewFile("a.sol", "contract C { uint256 x; uint256 x; }\n")
	bag := diag.NewBag(8)
	diag.ErrorWithNote(diag.BagReporter{Bag: bag}, diag.DeclDuplicateName,
		source.Span{Start: 32, End: 33}, `name "x" already declared`,
		source.Span{Start: 21, End: 22}, "previously declared here")

	var buf bytes.Buffer
	Pretty(&buf, bag, file, PrettyOpts{ShowNotes: true})
	if !strings.Contains(buf.String(), "note: previously declared here") {
		t.Fatalf("note line missing:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, file, PrettyOpts{})
	if strings.Contains(buf.String(), "previously declared here") {
		t.Fatalf("note printed despite ShowNotes=false")
	}
}

func TestJSONOutput(t *testing.T) {
	bag, file := sampleBag()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, file); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	first := out.Diagnostics[0]
	if first.Severity != "error" || first.Code != "SOL2002" || first.Kind != "ParserError" {
		t.Fatalf("first = %+v", first)
	}
	if first.Location.StartLine != 2 || first.Location.StartCol != 5 {
		t.Fatalf("location = %+v", first.Location)
	}
	if out.Diagnostics[1].Severity != "warning" {
		t.Fatalf("second = %+v", out.Diagnostics[1])
	}
}
