package parser

import (
	"testing"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
)

func parseSrc(t *testing.T, src string) (*ast.Unit, *diag.Bag, bool) {
	t.Helper()
	bag := diag.NewBag(32)
	unit, ok := ParseSourceUnit(source.NewFile("test.sol", src), Options{
		Reporter: diag.BagReporter{Bag: bag},
	})
	return unit, bag, ok
}

func TestParseContract(t *testing.T) {
	src := `pragma solidity 0.8.0;

contract Greeter is Base {
    uint256 private counter;

    constructor(uint256 start) {
        counter = start;
    }

    function bump() public returns (uint256) {
        counter += 1;
        return counter;
    }
}
`
	unit, bag, ok := parseSrc(t, src)
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	root := ast.MustAt[*ast.SourceUnit](unit, unit.Root)
	if len(root.Nodes) != 2 {
		t.Fatalf("top-level nodes = %d", len(root.Nodes))
	}
	c := ast.MustAt[*ast.ContractDefinition](unit, root.Nodes[1])
	if c.Name != "Greeter" || c.Abstract {
		t.Fatalf("contract = %q abstract=%v", c.Name, c.Abstract)
	}
	if len(c.Bases) != 1 {
		t.Fatalf("bases = %d", len(c.Bases))
	}
	if ast.MustAt[*ast.InheritanceSpecifier](unit, c.Bases[0]).Name != "Base" {
		t.Fatalf("base name wrong")
	}
	if len(c.Members) != 3 {
		t.Fatalf("members = %d", len(c.Members))
	}
	ctor := ast.MustAt[*ast.FunctionDefinition](unit, c.Members[1])
	if !ctor.IsConstructor() {
		t.Fatalf("second member not a constructor")
	}
	if !unit.Complete() {
		t.Fatalf("unit has holes")
	}
}

func TestParseAbstractAndInterface(t *testing.T) {
	src := `pragma solidity 0.8.0;
abstract contract A {
    function f() public virtual returns (bool);
}
interface I {
    function g() external;
}
`
	unit, bag, ok := parseSrc(t, src)
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	root := ast.MustAt[*ast.SourceUnit](unit, unit.Root)
	a := ast.MustAt[*ast.ContractDefinition](unit, root.Nodes[1])
	if !a.Abstract || a.ContractKind != ast.ContractKindContract {
		t.Fatalf("A: abstract=%v kind=%v", a.Abstract, a.ContractKind)
	}
	f := ast.MustAt[*ast.FunctionDefinition](unit, a.Members[0])
	if f.Implemented() {
		t.Fatalf("bodyless function marked implemented")
	}
	if !f.Virtual {
		t.Fatalf("virtual not recorded")
	}
	i := ast.MustAt[*ast.ContractDefinition](unit, root.Nodes[2])
	if i.ContractKind != ast.ContractKindInterface {
		t.Fatalf("I kind = %v", i.ContractKind)
	}
}

func TestParseMappingAndControlFlow(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    mapping(address => uint256) internal balances;

    function loop(uint256 n) public pure returns (uint256) {
        uint256 acc = 0;
        while (n > 0) {
            if (n == 7) {
                break;
            } else {
                acc += n;
            }
            n -= 1;
        }
        return acc;
    }
}
`
	_, bag, ok := parseSrc(t, src)
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
}

func TestAnySyntaxErrorFailsTheParse(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    function f() public {
        uint256 x = ;
    }
}
`
	unit, bag, ok := parseSrc(t, src)
	if ok {
		t.Fatalf("parse of broken source succeeded")
	}
	if unit == nil {
		t.Fatalf("unit should still be returned for the caller to discard")
	}
	if !bag.HasErrors() {
		t.Fatalf("no diagnostics recorded")
	}
	if bag.Items()[0].Code.Kind() != "ParserError" {
		t.Fatalf("kind = %q", bag.Items()[0].Code.Kind())
	}
}

func TestParserRecoversAndReportsMultipleErrors(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract A {
    function f( public {}
}
contract B {
    uint256 x = ;
}
`
	_, bag, ok := parseSrc(t, src)
	if ok {
		t.Fatalf("parse succeeded")
	}
	if bag.Len() < 2 {
		t.Fatalf("expected recovery to surface both errors, got %d", bag.Len())
	}
}

func TestMaxErrorsStopsReporting(t *testing.T) {
	src := `contract A { ? ? ? ? ? }`
	bag := diag.NewBag(64)
	_, ok := ParseSourceUnit(source.NewFile("test.sol", src), Options{
		MaxErrors: 2,
		Reporter:  diag.BagReporter{Bag: bag},
	})
	if ok {
		t.Fatalf("parse succeeded")
	}
	if bag.Len() > 3 {
		t.Fatalf("reported %d diagnostics despite MaxErrors", bag.Len())
	}
}

func TestDocstringAttachment(t *testing.T) {
	src := `pragma solidity 0.8.0;
/// @title Greeter
/// @notice Says hello.
contract Greeter {
    /// @param who target address
    function greet(address who) public view returns (uint256) {
        return 1;
    }
}
`
	unit, bag, ok := parseSrc(t, src)
	if !ok {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	root := ast.MustAt[*ast.SourceUnit](unit, unit.Root)
	c := ast.MustAt[*ast.ContractDefinition](unit, root.Nodes[1])
	if !c.Doc.IsValid() {
		t.Fatalf("contract docstring not attached")
	}
	fn := ast.MustAt[*ast.FunctionDefinition](unit, c.Members[0])
	if !fn.Doc.IsValid() {
		t.Fatalf("function docstring not attached")
	}
}
