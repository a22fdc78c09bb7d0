package sema

import (
	"testing"

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

func checkSyntaxCodes(t *testing.T, src string) (*diag.Bag, bool) {
	t.Helper()
	bag := diag.NewBag(32)
	ok := CheckSyntax(parseForTest(t, src), diag.BagReporter{Bag: bag})
	return bag, ok
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestSyntaxAccumulatesIndependentErrors(t *testing.T) {
	src := `pragma solidity 0.8.0;
interface I {
    uint256 internal x;
}
contract C {
    function f() public {
        break;
    }
}
`
	bag, ok := checkSyntaxCodes(t, src)
	if ok {
		t.Fatalf("broken unit passed")
	}
	if !hasCode(bag, diag.SynInterfaceStateVar) || !hasCode(bag, diag.SynBreakOutsideLoop) {
		t.Fatalf("independent errors not both reported: %v", bag.Items())
	}
}

func TestMissingPragmaIsOnlyAWarning(t *testing.T) {
	bag, ok := checkSyntaxCodes(t, "contract C {}\n")
	if !ok {
		t.Fatalf("missing pragma failed the check")
	}
	if !hasCode(bag, diag.SynMissingPragma) || bag.HasErrors() {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestPragmaPlacement(t *testing.T) {
	src := `contract C {}
pragma solidity 0.8.0;
pragma solidity 0.8.0;
`
	bag, ok := checkSyntaxCodes(t, src)
	if ok {
		t.Fatalf("misplaced pragma passed")
	}
	if !hasCode(bag, diag.SynPragmaPosition) || !hasCode(bag, diag.SynDuplicatePragma) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestConstructorRules(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    constructor() {}
    constructor(uint256 n) {}
}
`
	bag, ok := checkSyntaxCodes(t, src)
	if ok || !hasCode(bag, diag.SynMultipleConstructors) {
		t.Fatalf("second constructor accepted: %v", bag.Items())
	}
}

func TestInterfaceRules(t *testing.T) {
	src := `pragma solidity 0.8.0;
interface I {
    function f() external {}
    constructor() {}
}
`
	bag, ok := checkSyntaxCodes(t, src)
	if ok {
		t.Fatalf("broken interface passed")
	}
	if !hasCode(bag, diag.SynInterfaceFunctionBody) || !hasCode(bag, diag.SynInterfaceConstructor) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestFreeFunctionRules(t *testing.T) {
	src := `pragma solidity 0.8.0;
function declared();
function paid() payable {}
`
	bag, ok := checkSyntaxCodes(t, src)
	if ok {
		t.Fatalf("broken free functions passed")
	}
	if !hasCode(bag, diag.SynFreeFunctionBody) || !hasCode(bag, diag.SynFreeFunctionPayable) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestLoopControlInsideLoopIsFine(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    function f(uint256 n) public pure {
        while (n > 0) {
            if (n == 2) {
                continue;
            }
            break;
        }
    }
}
`
	bag, ok := checkSyntaxCodes(t, src)
	if !ok {
		t.Fatalf("valid loop control rejected: %v", bag.Items())
	}
}
