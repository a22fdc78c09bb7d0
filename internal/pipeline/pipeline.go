// Package pipeline drives the analysis stages over a parsed unit in the
// fixed frontend order. Stages come in three tiers: failures of abort
// stages end the run immediately, accumulate stages record the failure and
// keep going so independent errors surface together, and gated stages run
// only while no earlier stage has failed.
package pipeline

import (
	"fmt"

	"solfront/internal/annot"
	"solfront/internal/ast"
	"solfront/internal/callgraph"
	"solfront/internal/diag"
	"solfront/internal/sema"
	"solfront/internal/source"
	"solfront/internal/symbols"
	"solfront/internal/types"
)

// State is the run state of one analysis pipeline.
type State uint8

const (
	StateRunning State = iota
	StateDegraded
	StateAborted
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDegraded:
		return "degraded"
	case StateAborted:
		return "aborted"
	case StateSucceeded:
		return "succeeded"
	default:
		return "invalid"
	}
}

type tier uint8

const (
	tierAbort tier = iota
	tierAccumulate
	tierGated
)

// Result carries the artefacts of one run. Annotations are complete only
// when State is StateSucceeded; a degraded or aborted run leaves them
// partially filled and callers must not export them.
type Result struct {
	State       State
	Annotations *annot.Annotations
	Table       *symbols.Table
	Interner    *types.Interner
	Docs        *sema.DocIndex
}

// Succeeded reports whether every stage ran clean.
func (r *Result) Succeeded() bool { return r.State == StateSucceeded }

type run struct {
	u    *ast.Unit
	t    *symbols.Table
	an   *annot.Annotations
	in   *types.Interner
	docs *sema.DocIndex
	r    diag.Reporter
}

type stage struct {
	name string
	tier tier
	fn   func(*run) bool
}

// stages is the fixed order of the frontend. Reordering entries changes
// observable diagnostics ordering and which errors mask which.
var stages = []stage{
	{"assignScopes", tierAccumulate, func(p *run) bool {
		symbols.AssignScopes(p.u, p.t, p.an)
		return true
	}},
	{"syntaxCheck", tierAccumulate, func(p *run) bool {
		return sema.CheckSyntax(p.u, p.r)
	}},
	{"registerDeclarations", tierAbort, func(p *run) bool {
		return symbols.RegisterDeclarations(p.u, p.t, p.r)
	}},
	{"performImports", tierAbort, func(p *run) bool {
		return symbols.PerformImports(map[string]*ast.Unit{p.u.Name: p.u}, p.u.Name, p.r)
	}},
	{"warnHomonymDeclarations", tierAccumulate, func(p *run) bool {
		symbols.WarnHomonymDeclarations(p.t, p.r)
		return true
	}},
	{"docstringParse", tierAccumulate, func(p *run) bool {
		docs, ok := sema.ParseDocstrings(p.u, p.r)
		p.docs = docs
		return ok
	}},
	{"resolveNamesAndTypes", tierAbort, func(p *run) bool {
		return symbols.ResolveNamesAndTypes(p.u, p.t, p.an, p.r)
	}},
	{"declarationTypeCheck", tierAbort, func(p *run) bool {
		return sema.CheckDeclarationTypes(p.u, p.an, p.in, p.r)
	}},
	{"docstringValidate", tierAccumulate, func(p *run) bool {
		return sema.ValidateDocstrings(p.u, p.docs, p.r)
	}},
	{"contractLevelCheck", tierAccumulate, func(p *run) bool {
		return sema.CheckContractLevel(p.u, p.an, p.in, p.r)
	}},
	{"typeCheck", tierAccumulate, func(p *run) bool {
		return sema.CheckTypes(p.u, p.an, p.in, p.r)
	}},
	{"docstringAnalyze", tierGated, func(p *run) bool {
		return sema.AnalyzeDocstrings(p.u, p.docs, p.an, p.r)
	}},
	{"postTypeCheck", tierGated, func(p *run) bool {
		return sema.CheckPostType(p.u, p.an, p.r)
	}},
	{"callGraphs", tierGated, func(p *run) bool {
		buildCallGraphs(p)
		return true
	}},
	{"postTypeContractLevelCheck", tierGated, func(p *run) bool {
		return sema.CheckPostTypeContractLevel(p.u, p.an, p.in, p.r)
	}},
}

// Analyze runs the full stage list over one unit. Panics inside a stage
// never escape: they abort the run with an internal-compiler-error
// diagnostic instead.
func Analyze(u *ast.Unit, r diag.Reporter) *Result {
	p := &run{
		u:  u,
		t:  symbols.NewTable(symbols.Hints{}),
		an: annot.New(),
		in: types.NewInterner(),
		r:  r,
	}
	state := StateRunning
	for _, st := range stages {
		if st.tier == tierGated && state != StateRunning {
			continue
		}
		ok, panicked := runStage(st, p, r)
		if panicked {
			state = StateAborted
			break
		}
		if ok {
			continue
		}
		if st.tier == tierAbort {
			state = StateAborted
			break
		}
		state = StateDegraded
	}
	if state == StateRunning {
		state = StateSucceeded
	}
	return &Result{
		State:       state,
		Annotations: p.an,
		Table:       p.t,
		Interner:    p.in,
		Docs:        p.docs,
	}
}

func runStage(st stage, p *run, r diag.Reporter) (ok, panicked bool) {
	defer func() {
		if rec := recover(); rec != nil {
			diag.Error(r, diag.ICEPanic, source.Span{},
				fmt.Sprintf("internal error in stage %s: %v", st.name, rec))
			ok = false
			panicked = true
		}
	}()
	return st.fn(p), false
}

// buildCallGraphs fills an.Graphs for every contract. Creation graphs are
// built first; deployed graphs reuse their edges for shared functions.
func buildCallGraphs(p *run) {
	refs := callgraph.Refs(p.an.Refs)
	for _, cid := range p.u.Contracts() {
		lin := p.an.Linearized[cid]
		if len(lin) == 0 {
			lin = []ast.NodeID{cid}
		}
		creation := callgraph.BuildCreation(p.u, refs, lin)
		deployed := callgraph.BuildDeployed(p.u, refs, lin, creation)
		p.an.Graphs[cid] = &annot.CallGraphs{Creation: creation, Deployed: deployed}
	}
}
