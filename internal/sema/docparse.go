package sema

import (
	"fmt"
	"strings"

	"solfront/internal/annot"
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
)

// DocTag is one parsed @-tag of a structured doc comment. Arg carries the
// parameter name for @param and the base contract name for @inheritdoc.
type DocTag struct {
	Name string
	Arg  string
	Text string
}

// DocIndex maps documented declarations to their parsed tags. It is built
// by ParseDocstrings and consumed by the validation and analysis passes.
type DocIndex struct {
	Entries map[ast.NodeID][]DocTag
}

// docContexts lists which tags are legal on which declaration kind.
var docContexts = map[ast.NodeKind]map[string]bool{
	ast.KindContractDefinition: {
		"title": true, "author": true, "notice": true, "dev": true,
	},
	ast.KindFunctionDefinition: {
		"notice": true, "dev": true, "param": true, "return": true, "inheritdoc": true,
	},
	ast.KindVariableDeclaration: {
		"notice": true, "dev": true, "return": true, "inheritdoc": true,
	},
}

// ParseDocstrings splits every structured doc comment into tags. Untagged
// leading text counts as @notice. Unknown tags and malformed tag heads are
// DocstringParsingErrors; the pass accumulates and reports ok.
func ParseDocstrings(u *ast.Unit, r diag.Reporter) (*DocIndex, bool) {
	dp := docParser{u: u, r: r, ok: true, index: &DocIndex{Entries: make(map[ast.NodeID][]DocTag)}}
	ast.Walk(u, u.Root, func(n ast.Node) bool {
		switch d := n.(type) {
		case *ast.ContractDefinition:
			dp.parse(n.ID(), n.Kind(), d.Doc)
		case *ast.FunctionDefinition:
			dp.parse(n.ID(), n.Kind(), d.Doc)
		case *ast.VariableDeclaration:
			dp.parse(n.ID(), n.Kind(), d.Doc)
		}
		return true
	})
	return dp.index, dp.ok
}

type docParser struct {
	u     *ast.Unit
	r     diag.Reporter
	ok    bool
	index *DocIndex
}

func (dp *docParser) errorf(code diag.Code, span source.Span, format string, args ...any) {
	diag.Error(dp.r, code, span, fmt.Sprintf(format, args...))
	dp.ok = false
}

func (dp *docParser) parse(owner ast.NodeID, kind ast.NodeKind, docID ast.NodeID) {
	doc, found := ast.At[*ast.StructuredDocumentation](dp.u, docID)
	if !found {
		return
	}
	allowed := docContexts[kind]
	var tags []DocTag
	flush := func(t DocTag) {
		if t.Name == "" {
			return
		}
		t.Text = strings.TrimSpace(t.Text)
		tags = append(tags, t)
	}
	cur := DocTag{}
	for _, line := range strings.Split(doc.Text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "@") {
			if cur.Name == "" && trimmed != "" {
				cur.Name = "notice"
			}
			if cur.Name != "" {
				cur.Text += " " + trimmed
			}
			continue
		}
		flush(cur)
		cur = DocTag{}
		name, rest, _ := strings.Cut(trimmed[1:], " ")
		if name == "" || !docTagKnown(name) {
			dp.errorf(diag.DocUnknownTag, doc.Span(),
				"documentation tag @%s is unknown", name)
			continue
		}
		if allowed != nil && !allowed[name] {
			dp.errorf(diag.DocTagNotAllowed, doc.Span(),
				"documentation tag @%s is not allowed here", name)
			continue
		}
		cur.Name = name
		rest = strings.TrimSpace(rest)
		if name == "param" || name == "inheritdoc" {
			arg, tail, _ := strings.Cut(rest, " ")
			if arg == "" {
				dp.errorf(diag.DocMalformedTag, doc.Span(),
					"documentation tag @%s expects a name", name)
				cur = DocTag{}
				continue
			}
			cur.Arg = arg
			cur.Text = tail
			continue
		}
		cur.Text = rest
	}
	flush(cur)
	if len(tags) > 0 {
		dp.index.Entries[owner] = tags
	}
}

func docTagKnown(name string) bool {
	switch name {
	case "title", "author", "notice", "dev", "param", "return", "inheritdoc":
		return true
	}
	return false
}

// ValidateDocstrings cross-checks parsed tags against the documented
// signatures: every @param must name a parameter, and a function cannot
// carry more @return tags than it has return values.
func ValidateDocstrings(u *ast.Unit, docs *DocIndex, r diag.Reporter) bool {
	ok := true
	for owner, tags := range docs.Entries {
		fn, isFn := ast.At[*ast.FunctionDefinition](u, owner)
		if !isFn {
			continue
		}
		params := paramNames(u, fn.Params)
		returnCount := 0
		for _, tag := range tags {
			switch tag.Name {
			case "param":
				if !params[tag.Arg] {
					diag.Error(r, diag.DocParamUnknown, fn.NameSpan,
						fmt.Sprintf("documentation tag @param references unknown parameter %q", tag.Arg))
					ok = false
				}
			case "return":
				returnCount++
			}
		}
		if returns, found := ast.At[*ast.ParameterList](u, fn.Returns); found {
			if returnCount > len(returns.Parameters) {
				diag.Error(r, diag.DocReturnCount, fn.NameSpan,
					fmt.Sprintf("documentation has %d @return tags but the function returns %d values",
						returnCount, len(returns.Parameters)))
				ok = false
			}
		}
	}
	return ok
}

func paramNames(u *ast.Unit, list ast.NodeID) map[string]bool {
	out := make(map[string]bool)
	pl, found := ast.At[*ast.ParameterList](u, list)
	if !found {
		return out
	}
	for _, p := range pl.Parameters {
		if v, ok := ast.At[*ast.VariableDeclaration](u, p); ok && v.Name != "" {
			out[v.Name] = true
		}
	}
	return out
}

// AnalyzeDocstrings resolves @inheritdoc targets against the linearized
// hierarchy: the named contract must be a base of the enclosing contract.
// Gated pass, runs only on otherwise clean input.
func AnalyzeDocstrings(u *ast.Unit, docs *DocIndex, an *annot.Annotations, r diag.Reporter) bool {
	ok := true
	for _, cid := range u.Contracts() {
		contract := ast.MustAt[*ast.ContractDefinition](u, cid)
		lin := an.Linearized[cid]
		if len(lin) == 0 {
			continue
		}
		bases := make(map[string]bool)
		for _, b := range lin[1:] {
			if base, found := ast.At[*ast.ContractDefinition](u, b); found {
				bases[base.Name] = true
			}
		}
		for _, m := range contract.Members {
			for _, tag := range docs.Entries[m] {
				if tag.Name != "inheritdoc" {
					continue
				}
				if !bases[tag.Arg] {
					diag.Error(r, diag.DocInheritdocTarget, u.Get(m).Span(),
						fmt.Sprintf("documentation tag @inheritdoc references %q, which is not a base of %q",
							tag.Arg, contract.Name))
					ok = false
				}
			}
		}
	}
	return ok
}
