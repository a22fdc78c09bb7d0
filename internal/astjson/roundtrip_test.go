package astjson

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"solfront/internal/diag"
	"solfront/internal/parser"
	"solfront/internal/source"
)

const rtSource = `pragma solidity 0.8.0;

contract Counter {
    uint256 private total;

    function add(uint256 n) public returns (uint256) {
        total += n;
        return total;
    }
}
`

func exportParsed(t *testing.T, src, name string) []byte {
	t.Helper()
	unit, ok := parser.ParseSourceUnit(source.NewFile(name, src), parser.Options{
		Reporter: diag.NopReporter{},
	})
	if !ok {
		t.Fatalf("parse failed")
	}
	data, err := Export(unit, nil, nil, StageParsed, false)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	return data
}

func TestRoundTripIsStable(t *testing.T) {
	data := exportParsed(t, rtSource, "counter.sol")

	unit, ok := Import(data, "counter.sol")
	if !ok {
		t.Fatalf("import of own export failed")
	}
	again, err := Export(unit, nil, nil, StageParsed, false)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Fatalf("round trip not byte-identical:\n%s\n---\n%s", data, again)
	}
}

func TestExportDeterministic(t *testing.T) {
	a := exportParsed(t, rtSource, "counter.sol")
	b := exportParsed(t, rtSource, "counter.sol")
	if !bytes.Equal(a, b) {
		t.Fatalf("two exports of the same source differ")
	}
}

func TestImportRejectsWrongStage(t *testing.T) {
	data := exportParsed(t, rtSource, "counter.sol")
	tampered := bytes.Replace(data, []byte(`"stage": "Parsed"`), []byte(`"stage": "AnalysisSuccessful"`), 1)
	if bytes.Equal(data, tampered) {
		tampered = bytes.Replace(data, []byte(`"Parsed"`), []byte(`"AnalysisSuccessful"`), 1)
	}
	if _, ok := Import(tampered, "counter.sol"); ok {
		t.Fatalf("import accepted a non-Parsed document")
	}
}

func TestImportRejectsNameMismatch(t *testing.T) {
	data := exportParsed(t, rtSource, "counter.sol")
	if _, ok := Import(data, "other.sol"); ok {
		t.Fatalf("import accepted a source-unit name mismatch")
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	if _, ok := Import([]byte(`{"stage": "Parsed"`), "counter.sol"); ok {
		t.Fatalf("import accepted truncated JSON")
	}
	if _, ok := Import([]byte(`{"stage": "Parsed", "sourceUnit": 7}`), "counter.sol"); ok {
		t.Fatalf("import accepted a non-object root")
	}
}

func TestImportRejectsDuplicateID(t *testing.T) {
	data := exportParsed(t, rtSource, "counter.sol")
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Перенумеровываем последний узел в id корня.
	s := string(doc["sourceUnit"])
	idx := strings.LastIndex(s, `"id": `)
	if idx < 0 {
		t.Fatalf("no id field found")
	}
	end := idx + len(`"id": `)
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	mutated := s[:idx+len(`"id": `)] + "1" + s[end:]
	tampered := strings.Replace(string(data), s, mutated, 1)
	if _, ok := Import([]byte(tampered), "counter.sol"); ok {
		t.Fatalf("import accepted duplicate node ids")
	}
}

func TestImportRejectsOversizedID(t *testing.T) {
	data := exportParsed(t, rtSource, "counter.sol")
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Уводим id последнего узла далеко за пределы документа.
	s := string(doc["sourceUnit"])
	idx := strings.LastIndex(s, `"id": `)
	if idx < 0 {
		t.Fatalf("no id field found")
	}
	end := idx + len(`"id": `)
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	mutated := s[:idx+len(`"id": `)] + "80000000" + s[end:]
	tampered := strings.Replace(string(data), s, mutated, 1)
	if _, ok := Import([]byte(tampered), "counter.sol"); ok {
		t.Fatalf("import accepted a node id far beyond the document bound")
	}
}

func TestImportIgnoresSemanticFields(t *testing.T) {
	data := exportParsed(t, rtSource, "counter.sol")
	tampered := bytes.Replace(data,
		[]byte(`"nodeType": "Identifier",`),
		[]byte(`"nodeType": "Identifier", "referencedDeclaration": 9999,`), 1)
	if bytes.Equal(data, tampered) {
		t.Fatalf("no identifier found to tamper with")
	}
	unit, ok := Import(tampered, "counter.sol")
	if !ok {
		t.Fatalf("import rejected an ignorable semantic field")
	}
	again, err := Export(unit, nil, nil, StageParsed, false)
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Fatalf("semantic field leaked into the re-export")
	}
}

func TestExportRequiresAnnotationsForAnalyzed(t *testing.T) {
	unit, ok := parser.ParseSourceUnit(source.NewFile("c.sol", rtSource), parser.Options{Reporter: diag.NopReporter{}})
	if !ok {
		t.Fatalf("parse failed")
	}
	if _, err := Export(unit, nil, nil, StageAnalysisSuccessful, false); err == nil {
		t.Fatalf("analyzed export without annotations succeeded")
	}
}

func TestCompactExportIsSingleLine(t *testing.T) {
	unit, ok := parser.ParseSourceUnit(source.NewFile("c.sol", rtSource), parser.Options{Reporter: diag.NopReporter{}})
	if !ok {
		t.Fatalf("parse failed")
	}
	data, err := Export(unit, nil, nil, StageParsed, true)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if bytes.ContainsRune(bytes.TrimRight(data, "\n"), '\n') {
		t.Fatalf("compact export spans multiple lines")
	}
}
