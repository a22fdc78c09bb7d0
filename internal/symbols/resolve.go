package symbols

import (
	"fmt"

	"solfront/internal/annot"
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
)

// ResolveNamesAndTypes binds every name use in the unit to a declaration:
// inheritance specifiers, user-defined type names, and identifiers in
// expressions. It also computes the C3 linearization of every contract,
// which later lookup through contract scopes depends on. Any unresolved
// name or broken hierarchy is fatal for the run.
func ResolveNamesAndTypes(u *ast.Unit, t *Table, an *annot.Annotations, r diag.Reporter) bool {
	rs := resolver{u: u, t: t, an: an, r: r, ok: true}
	rs.bindInheritance()
	rs.linearizeAll()
	if !rs.ok {
		// Without a usable hierarchy, contract-scope lookup would cascade
		// bogus "undeclared" errors; stop after reporting the real cause.
		return false
	}
	rs.bindUnit()
	return rs.ok
}

type resolver struct {
	u  *ast.Unit
	t  *Table
	an *annot.Annotations
	r  diag.Reporter
	ok bool
}

func (rs *resolver) errorf(code diag.Code, span source.Span, format string, args ...any) {
	diag.Error(rs.r, code, span, fmt.Sprintf(format, args...))
	rs.ok = false
}

// bindInheritance resolves every `is` entry against the source-unit scope.
// Base contracts are always top-level names, never locals.
func (rs *resolver) bindInheritance() {
	suScope := rs.t.ScopeOf(rs.u.Root)
	for _, cid := range rs.u.Contracts() {
		contract := ast.MustAt[*ast.ContractDefinition](rs.u, cid)
		for _, bid := range contract.Bases {
			base, ok := ast.At[*ast.InheritanceSpecifier](rs.u, bid)
			if !ok {
				continue
			}
			ids := rs.t.LookupLocal(suScope, base.Name)
			if len(ids) == 0 {
				rs.errorf(diag.DeclUndeclaredIdentifier, base.Span(),
					"undeclared identifier %q in base contract list", base.Name)
				continue
			}
			sym := rs.t.Symbols.Get(ids[0])
			if sym.Kind != SymbolContract {
				rs.errorf(diag.DeclBaseNotContract, base.Span(),
					"%q is not a contract and cannot be inherited from", base.Name)
				continue
			}
			rs.an.Bind(bid, sym.Decl)
		}
	}
}

// linearizeAll computes an.Linearized for every contract, most derived
// first, using C3 with the direct base list reversed for the merge.
func (rs *resolver) linearizeAll() {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[ast.NodeID]uint8)
	var visit func(cid ast.NodeID) bool
	visit = func(cid ast.NodeID) bool {
		switch state[cid] {
		case done:
			return true
		case visiting:
			contract := ast.MustAt[*ast.ContractDefinition](rs.u, cid)
			rs.errorf(diag.DeclInheritanceCycle, contract.NameSpan,
				"inheritance graph of %q contains a cycle", contract.Name)
			return false
		}
		state[cid] = visiting
		contract := ast.MustAt[*ast.ContractDefinition](rs.u, cid)
		bases := rs.directBases(cid)
		for _, b := range bases {
			if !visit(b) {
				state[cid] = done
				return false
			}
		}
		seqs := make([][]ast.NodeID, 0, len(bases)+1)
		for i := len(bases) - 1; i >= 0; i-- {
			seqs = append(seqs, rs.an.Linearized[bases[i]])
		}
		if len(bases) > 0 {
			rev := make([]ast.NodeID, 0, len(bases))
			for i := len(bases) - 1; i >= 0; i-- {
				rev = append(rev, bases[i])
			}
			seqs = append(seqs, rev)
		}
		merged, ok := c3Merge(seqs)
		if !ok {
			rs.errorf(diag.DeclLinearizationFailed, contract.NameSpan,
				"linearization of inheritance graph impossible for %q", contract.Name)
			state[cid] = done
			return false
		}
		rs.an.Linearized[cid] = append([]ast.NodeID{cid}, merged...)
		state[cid] = done
		return true
	}
	for _, cid := range rs.u.Contracts() {
		if !visit(cid) {
			return
		}
	}
}

// directBases returns the resolved direct base contracts in source order.
// Unresolved entries were already reported and are skipped.
func (rs *resolver) directBases(cid ast.NodeID) []ast.NodeID {
	contract := ast.MustAt[*ast.ContractDefinition](rs.u, cid)
	out := make([]ast.NodeID, 0, len(contract.Bases))
	for _, bid := range contract.Bases {
		if decl := rs.an.RefOf(bid); decl.IsValid() {
			out = append(out, decl)
		}
	}
	return out
}

// c3Merge is the standard C3 merge step: repeatedly take the head that
// appears in no tail. An empty candidate set with input left means the
// hierarchy has no consistent order.
func c3Merge(seqs [][]ast.NodeID) ([]ast.NodeID, bool) {
	work := make([][]ast.NodeID, 0, len(seqs))
	for _, s := range seqs {
		if len(s) > 0 {
			work = append(work, append([]ast.NodeID(nil), s...))
		}
	}
	var out []ast.NodeID
	for len(work) > 0 {
		var head ast.NodeID
		found := false
		for _, s := range work {
			if !inAnyTail(work, s[0]) {
				head = s[0]
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
		out = append(out, head)
		next := work[:0]
		for _, s := range work {
			if s[0] == head {
				s = s[1:]
			}
			if len(s) > 0 {
				next = append(next, s)
			}
		}
		work = next
	}
	return dedupKeepFirst(out), true
}

func inAnyTail(seqs [][]ast.NodeID, id ast.NodeID) bool {
	for _, s := range seqs {
		for _, c := range s[1:] {
			if c == id {
				return true
			}
		}
	}
	return false
}

func dedupKeepFirst(ids []ast.NodeID) []ast.NodeID {
	seen := make(map[ast.NodeID]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
