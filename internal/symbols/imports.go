package symbols

import (
	"fmt"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
)

// PerformImports checks that every source unit the analysis run refers to
// is present in the unit map. A single-unit run only refers to itself, so
// an absent entry means the interchange handed us an inconsistent set.
func PerformImports(units map[string]*ast.Unit, name string, r diag.Reporter) bool {
	if _, ok := units[name]; !ok {
		diag.Error(r, diag.DeclMissingSourceUnit, source.Span{},
			fmt.Sprintf("source unit %q is not part of the analysis set", name))
		return false
	}
	return true
}
