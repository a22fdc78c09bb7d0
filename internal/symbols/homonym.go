package symbols

import (
	"fmt"

	"solfront/internal/diag"
)

// WarnHomonymDeclarations reports a warning for every declaration that
// shadows a same-named declaration in an enclosing scope. Shadowing is
// legal; the warning is informational and the phase never fails.
func WarnHomonymDeclarations(t *Table, r diag.Reporter) {
	for id := SymbolID(1); int(id) <= t.Symbols.Len(); id++ {
		sym := t.Symbols.Get(id)
		if sym.Name == "" {
			continue
		}
		outer := shadowed(t, sym)
		if outer == nil {
			continue
		}
		r.Report(diag.DeclHomonymShadowing, diag.SevWarning, sym.NameSpan,
			fmt.Sprintf("declaration of %q shadows an outer declaration", sym.Name),
			[]diag.Note{{Span: outer.NameSpan, Msg: "outer declaration is here"}})
	}
}

// shadowed returns the nearest same-named symbol up the scope chain, or
// nil. Overloading inside one scope is not shadowing.
func shadowed(t *Table, sym *Symbol) *Symbol {
	sc := t.Scopes.Get(sym.Scope)
	if sc == nil {
		return nil
	}
	for cur := sc.Parent; cur.IsValid(); {
		scope := t.Scopes.Get(cur)
		if scope == nil {
			return nil
		}
		if ids := scope.Names[sym.Name]; len(ids) > 0 {
			return t.Symbols.Get(ids[0])
		}
		cur = scope.Parent
	}
	return nil
}
