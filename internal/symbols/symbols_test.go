package symbols

import (
	"testing"

	"solfront/internal/annot"
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/parser"
	"solfront/internal/source"
)

func parseForTest(t *testing.T, src string) *ast.Unit {
	t.Helper()
	unit, ok := parser.ParseSourceUnit(source.NewFile("test.sol", src), parser.Options{
		Reporter: diag.NopReporter{},
	})
	if !ok {
		t.Fatalf("test source does not parse")
	}
	return unit
}

func findContract(t *testing.T, u *ast.Unit, name string) ast.NodeID {
	t.Helper()
	root := ast.MustAt[*ast.SourceUnit](u, u.Root)
	for _, id := range root.Nodes {
		if c, ok := ast.At[*ast.ContractDefinition](u, id); ok && c.Name == name {
			return id
		}
	}
	t.Fatalf("contract %q not found", name)
	return ast.NoNode
}

func TestAssignScopesAndRegister(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal stored;

    function get(uint256 offset) public view returns (uint256) {
        uint256 local = stored;
        return local;
    }
}
`
	u := parseForTest(t, src)
	tbl := NewTable(Hints{})
	an := annot.New()
	AssignScopes(u, tbl, an)

	bag := diag.NewBag(16)
	if !RegisterDeclarations(u, tbl, diag.BagReporter{Bag: bag}) {
		t.Fatalf("registration failed: %v", bag.Items())
	}

	cid := findContract(t, u, "C")
	cscope := tbl.ScopeOf(cid)
	if !cscope.IsValid() {
		t.Fatalf("contract has no scope")
	}
	if ids := tbl.LookupLocal(cscope, "stored"); len(ids) != 1 {
		t.Fatalf("stored not registered: %v", ids)
	}
	if ids := tbl.LookupLocal(cscope, "get"); len(ids) != 1 {
		t.Fatalf("get not registered: %v", ids)
	}
	// Параметры и локальные живут во вложенных областях, не в контракте.
	if ids := tbl.LookupLocal(cscope, "offset"); len(ids) != 0 {
		t.Fatalf("parameter leaked into the contract scope")
	}
	if ids := tbl.LookupLocal(cscope, "local"); len(ids) != 0 {
		t.Fatalf("local leaked into the contract scope")
	}
}

func TestDuplicateDeclarationIsFatal(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal x;
    uint256 internal x;
}
`
	u := parseForTest(t, src)
	tbl := NewTable(Hints{})
	an := annot.New()
	AssignScopes(u, tbl, an)

	bag := diag.NewBag(16)
	if RegisterDeclarations(u, tbl, diag.BagReporter{Bag: bag}) {
		t.Fatalf("duplicate state variable accepted")
	}
	items := bag.Items()
	if len(items) == 0 || items[0].Code != diag.DeclDuplicateName {
		t.Fatalf("diagnostics = %v", items)
	}
	if len(items[0].Notes) == 0 {
		t.Fatalf("duplicate report carries no note about the first declaration")
	}
}

func TestFunctionOverloadIsNotDuplicate(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    function f(uint256 a) public {}
    function f(bool a) public {}
}
`
	u := parseForTest(t, src)
	tbl := NewTable(Hints{})
	an := annot.New()
	AssignScopes(u, tbl, an)

	bag := diag.NewBag(16)
	if !RegisterDeclarations(u, tbl, diag.BagReporter{Bag: bag}) {
		t.Fatalf("overload set rejected: %v", bag.Items())
	}
	cscope := tbl.ScopeOf(findContract(t, u, "C"))
	if ids := tbl.LookupLocal(cscope, "f"); len(ids) != 2 {
		t.Fatalf("overload set size = %d", len(ids))
	}
}

func TestHomonymShadowingWarning(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal value;

    function set(uint256 value) public {
    }
}
`
	u := parseForTest(t, src)
	tbl := NewTable(Hints{})
	an := annot.New()
	AssignScopes(u, tbl, an)

	bag := diag.NewBag(16)
	if !RegisterDeclarations(u, tbl, diag.BagReporter{Bag: bag}) {
		t.Fatalf("registration failed")
	}
	WarnHomonymDeclarations(tbl, diag.BagReporter{Bag: bag})

	if bag.HasErrors() {
		t.Fatalf("shadowing produced an error: %v", bag.Items())
	}
	if !bag.HasWarnings() {
		t.Fatalf("shadowing produced no warning")
	}
	w := bag.Items()[0]
	if w.Code != diag.DeclHomonymShadowing {
		t.Fatalf("code = %v", w.Code)
	}
	if len(w.Notes) == 0 {
		t.Fatalf("warning carries no note pointing at the shadowed declaration")
	}
}

func resolveForTest(t *testing.T, src string) (*ast.Unit, *annot.Annotations, *diag.Bag, bool) {
	t.Helper()
	u := parseForTest(t, src)
	tbl := NewTable(Hints{})
	an := annot.New()
	AssignScopes(u, tbl, an)
	bag := diag.NewBag(16)
	r := diag.BagReporter{Bag: bag}
	if !RegisterDeclarations(u, tbl, r) {
		t.Fatalf("registration failed: %v", bag.Items())
	}
	ok := ResolveNamesAndTypes(u, tbl, an, r)
	return u, an, bag, ok
}

func TestLinearizationOrder(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract A {}
contract B is A {}
contract C is A {}
contract D is B, C {}
`
	u, an, bag, ok := resolveForTest(t, src)
	if !ok {
		t.Fatalf("resolution failed: %v", bag.Items())
	}
	d := findContract(t, u, "D")
	want := []ast.NodeID{
		d,
		findContract(t, u, "C"),
		findContract(t, u, "B"),
		findContract(t, u, "A"),
	}
	got := an.Linearized[d]
	if len(got) != len(want) {
		t.Fatalf("linearization length = %d: %v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("linearization[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestInheritanceCycleIsFatal(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract A is B {}
contract B is A {}
`
	_, _, bag, ok := resolveForTest(t, src)
	if ok {
		t.Fatalf("cyclic hierarchy resolved")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.DeclInheritanceCycle {
			found = true
		}
	}
	if !found {
		t.Fatalf("no cycle diagnostic: %v", bag.Items())
	}
}

func TestUnmergeableHierarchyIsFatal(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract A {}
contract B {}
contract C is A, B {}
contract D is B, A {}
contract E is C, D {}
`
	_, _, bag, ok := resolveForTest(t, src)
	if ok {
		t.Fatalf("unmergeable hierarchy resolved")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.DeclLinearizationFailed {
			found = true
		}
	}
	if !found {
		t.Fatalf("no linearization diagnostic: %v", bag.Items())
	}
}

func TestUndeclaredIdentifierIsFatal(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    function f() public pure returns (uint256) {
        return missing;
    }
}
`
	_, _, bag, ok := resolveForTest(t, src)
	if ok {
		t.Fatalf("undeclared identifier resolved")
	}
	if bag.Items()[0].Code != diag.DeclUndeclaredIdentifier {
		t.Fatalf("code = %v", bag.Items()[0].Code)
	}
}

func TestInheritedMemberResolves(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract Base {
    uint256 internal stored;
}
contract Child is Base {
    function read() public view returns (uint256) {
        return stored;
    }
}
`
	_, _, bag, ok := resolveForTest(t, src)
	if !ok {
		t.Fatalf("inherited member did not resolve: %v", bag.Items())
	}
}

func TestBaseMustBeContract(t *testing.T) {
	src := `pragma solidity 0.8.0;
function free() {}
contract C is free {}
`
	_, _, bag, ok := resolveForTest(t, src)
	if ok {
		t.Fatalf("non-contract base accepted")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.DeclBaseNotContract {
			found = true
		}
	}
	if !found {
		t.Fatalf("no base diagnostic: %v", bag.Items())
	}
}

func TestPerformImports(t *testing.T) {
	u := parseForTest(t, "pragma solidity 0.8.0;\ncontract C {}\n")
	units := map[string]*ast.Unit{"test.sol": u}

	bag := diag.NewBag(4)
	if !PerformImports(units, "test.sol", diag.BagReporter{Bag: bag}) {
		t.Fatalf("present unit reported missing")
	}
	if PerformImports(units, "other.sol", diag.BagReporter{Bag: bag}) {
		t.Fatalf("absent unit accepted")
	}
	if bag.Items()[0].Code != diag.DeclMissingSourceUnit {
		t.Fatalf("code = %v", bag.Items()[0].Code)
	}
}
