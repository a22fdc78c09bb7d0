// Package session is the external surface of the frontend: one Context
// owns a diagnostics bag and offers the parse / analyze / diagnostics
// triple that embedders call. A Context is not safe for concurrent use;
// callers run one Context per source unit.
package session

import (
	"strings"

	"solfront/internal/astjson"
	"solfront/internal/diag"
	"solfront/internal/parser"
	"solfront/internal/pipeline"
	"solfront/internal/source"
)

// DefaultMaxDiagnostics caps the bag of a fresh context.
const DefaultMaxDiagnostics = 256

// Context carries the state shared between a parse call and the
// diagnostics query that follows it.
type Context struct {
	bag    *diag.Bag
	closed bool

	// Compact switches the JSON output to single-line form.
	Compact bool
}

// New creates a ready-to-use context.
func New() *Context {
	return NewWithLimit(DefaultMaxDiagnostics)
}

// NewWithLimit creates a context whose bag holds at most limit
// diagnostics. Non-positive limits fall back to the default.
func NewWithLimit(limit int) *Context {
	if limit <= 0 {
		limit = DefaultMaxDiagnostics
	}
	return &Context{bag: diag.NewBag(limit)}
}

// Close invalidates the context. Further calls return failure; closing
// twice is harmless.
func (c *Context) Close() {
	c.closed = true
	c.bag.Reset()
}

// Parse lexes and parses one source unit and returns the Parsed-stage
// interchange document. Any syntax error fails the call; partial trees
// are never exported. Diagnostics from a previous call are cleared first.
func (c *Context) Parse(src, name string) (string, bool) {
	if c.closed {
		return "", false
	}
	c.bag.Reset()
	file := source.NewFile(name, src)
	unit, ok := parser.ParseSourceUnit(file, parser.Options{
		MaxErrors: uint(c.bag.Cap()),
		Reporter:  diag.BagReporter{Bag: c.bag},
	})
	if !ok {
		return "", false
	}
	out, err := astjson.Export(unit, nil, nil, astjson.StageParsed, c.Compact)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// Analyze imports a Parsed-stage document, runs the analysis pipeline and
// exports the annotated AnalysisSuccessful document. A structurally
// invalid document fails without producing diagnostics; a semantically
// broken one fails with the pipeline's diagnostics in the bag.
func (c *Context) Analyze(parsedJSON, name string) (string, bool) {
	if c.closed {
		return "", false
	}
	c.bag.Reset()
	unit, ok := astjson.Import([]byte(parsedJSON), name)
	if !ok {
		return "", false
	}
	res := pipeline.Analyze(unit, diag.BagReporter{Bag: c.bag})
	if !res.Succeeded() {
		return "", false
	}
	out, err := astjson.Export(unit, res.Annotations, res.Interner, astjson.StageAnalysisSuccessful, c.Compact)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// Diagnostics renders the accumulated diagnostics of the last call, one
// `<kind>: <message>` line each, in append order. Returns false when the
// bag is empty.
func (c *Context) Diagnostics() (string, bool) {
	if c.closed || c.bag.Len() == 0 {
		return "", false
	}
	var b strings.Builder
	for _, d := range c.bag.Items() {
		b.WriteString(d.Kind())
		b.WriteString(": ")
		b.WriteString(d.Message)
		b.WriteByte('\n')
	}
	return b.String(), true
}

// Bag exposes the raw diagnostics for renderers that want spans and
// severities rather than the flat query format.
func (c *Context) Bag() *diag.Bag {
	return c.bag
}
