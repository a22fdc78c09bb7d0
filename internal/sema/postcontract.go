package sema

import (
	"strings"

	"solfront/internal/annot"
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/types"
)

// CheckPostTypeContractLevel verifies the deployed external interface of
// every contract: two members reachable from outside must not share a
// signature unless one legitimately overrides the other. The classic case
// is a public state variable getter colliding with an inherited function.
// Gated pass, runs after the call graphs.
func CheckPostTypeContractLevel(u *ast.Unit, an *annot.Annotations, in *types.Interner, r diag.Reporter) bool {
	ok := true
	for _, cid := range u.Contracts() {
		lin := an.Linearized[cid]
		if len(lin) == 0 {
			continue
		}
		type entry struct {
			decl ast.NodeID
			fn   *ast.FunctionDefinition // nil for state variable getters
		}
		seen := make(map[string]entry)
		for _, c := range lin {
			contract, found := ast.At[*ast.ContractDefinition](u, c)
			if !found {
				continue
			}
			for _, m := range contract.Members {
				sel, fn, external := externalSelector(u, an, in, m)
				if !external {
					continue
				}
				prev, dup := seen[sel]
				if !dup {
					seen[sel] = entry{decl: m, fn: fn}
					continue
				}
				if prev.decl == m {
					continue
				}
				// The linearization walks derived to base, so a marked
				// override meeting its base function is the legal case.
				if prev.fn != nil && fn != nil && prev.fn.Override {
					continue
				}
				diag.ErrorWithNote(r, diag.PostSignatureCollision, spanOf(u, prev.decl),
					"external signature "+sel+" declared more than once in the hierarchy of "+
						ast.MustAt[*ast.ContractDefinition](u, cid).Name,
					spanOf(u, m), "colliding declaration is here")
				ok = false
			}
		}
	}
	return ok
}

// externalSelector renders the deployed-interface signature of a member,
// or reports that the member is not externally reachable. Public state
// variables contribute their generated zero-argument getter.
func externalSelector(u *ast.Unit, an *annot.Annotations, in *types.Interner, m ast.NodeID) (string, *ast.FunctionDefinition, bool) {
	switch member := u.Get(m).(type) {
	case *ast.FunctionDefinition:
		if !member.ExternallyCallable() {
			return "", nil, false
		}
		t := in.Get(an.TypeOf(m))
		if t == nil {
			return "", nil, false
		}
		var b strings.Builder
		b.WriteString(member.Name)
		b.WriteByte('(')
		for i, p := range t.Params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(in.String(p))
		}
		b.WriteByte(')')
		return b.String(), member, true
	case *ast.VariableDeclaration:
		if !member.StateVariable || member.Visibility != ast.VisibilityPublic {
			return "", nil, false
		}
		return member.Name + "()", nil, true
	}
	return "", nil, false
}

func spanOf(u *ast.Unit, id ast.NodeID) source.Span {
	if n := u.Get(id); n != nil {
		return n.Span()
	}
	return source.Span{}
}
