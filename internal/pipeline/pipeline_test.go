package pipeline

import (
	"testing"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/parser"
	"solfront/internal/source"
)

func analyzeSrc(t *testing.T, src string) (*ast.Unit, *Result, *diag.Bag) {
	t.Helper()
	unit, ok := parser.ParseSourceUnit(source.NewFile("test.sol", src), parser.Options{
		Reporter: diag.NopReporter{},
	})
	if !ok {
		t.Fatalf("test source does not parse")
	}
	bag := diag.NewBag(64)
	res := Analyze(unit, diag.BagReporter{Bag: bag})
	return unit, res, bag
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

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

const cleanSource = `pragma solidity 0.8.0;

contract Token {
    uint256 internal totalSupply;
    mapping(address => uint256) internal balances;

    constructor(uint256 initial) {
        totalSupply = initial;
    }

    function supply() public view returns (uint256) {
        return totalSupply;
    }

    function bump(uint256 n) public returns (uint256) {
        totalSupply += n;
        return this.supply();
    }
}
`

func TestCleanUnitSucceeds(t *testing.T) {
	u, res, bag := analyzeSrc(t, cleanSource)
	if !res.Succeeded() {
		t.Fatalf("state = %v, diagnostics: %v", res.State, bag.Items())
	}
	if bag.HasErrors() {
		t.Fatalf("clean unit produced errors: %v", bag.Items())
	}
	token := findContract(t, u, "Token")
	if len(res.Annotations.Linearized[token]) != 1 {
		t.Fatalf("linearization missing")
	}
	if !res.Annotations.FullyImplemented[token] {
		t.Fatalf("implemented contract not marked fully implemented")
	}
	if res.Annotations.Graphs[token] == nil {
		t.Fatalf("call graphs not built")
	}
}

func TestCallGraphsSeparateCreationFromDeployed(t *testing.T) {
	u, res, _ := analyzeSrc(t, cleanSource)
	token := findContract(t, u, "Token")
	g := res.Annotations.Graphs[token]

	c := ast.MustAt[*ast.ContractDefinition](u, token)
	var ctor, supply, bump ast.NodeID
	for _, m := range c.Members {
		fn, ok := ast.At[*ast.FunctionDefinition](u, m)
		if !ok {
			continue
		}
		switch {
		case fn.IsConstructor():
			ctor = m
		case fn.Name == "supply":
			supply = m
		case fn.Name == "bump":
			bump = m
		}
	}
	if !g.Creation.Has(ctor) {
		t.Fatalf("constructor missing from the creation graph")
	}
	if g.Deployed.Has(ctor) {
		t.Fatalf("constructor leaked into the deployed graph")
	}
	callees := g.Deployed.Callees(bump)
	if len(callees) != 1 || callees[0] != supply {
		t.Fatalf("bump callees = %v, want [%d]", callees, supply)
	}
}

func TestCreationGraphWithoutConstructor(t *testing.T) {
	// Инициализатор поля без конструктора: вызываемая функция всё равно
	// должна попасть в creation-граф, хотя ребро вести некуда.
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal x = seed();

    function seed() internal pure returns (uint256) {
        return 1;
    }
}
`
	u, res, bag := analyzeSrc(t, src)
	if !res.Succeeded() {
		t.Fatalf("state = %v: %v", res.State, bag.Items())
	}
	cid := findContract(t, u, "C")
	g := res.Annotations.Graphs[cid]

	c := ast.MustAt[*ast.ContractDefinition](u, cid)
	var seed ast.NodeID
	for _, m := range c.Members {
		if fn, ok := ast.At[*ast.FunctionDefinition](u, m); ok && fn.Name == "seed" {
			seed = m
		}
	}
	if !g.Creation.Has(seed) {
		t.Fatalf("initializer callee missing from the creation graph")
	}
	if g.Deployed.Has(seed) {
		t.Fatalf("internal initializer callee leaked into the deployed graph")
	}
}

func TestAccumulateTierCollectsIndependentErrors(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    function a(bool flag) public pure returns (uint256) {
        if (flag + 1) {
            return 1;
        }
        return 0;
    }

    function b() public pure returns (bool) {
        return 42;
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.State != StateDegraded {
		t.Fatalf("state = %v", res.State)
	}
	if !hasCode(bag, diag.TypeOperandMismatch) && !hasCode(bag, diag.TypeCondNotBool) {
		t.Fatalf("condition error missing: %v", bag.Items())
	}
	if !hasCode(bag, diag.TypeReturnMismatch) {
		t.Fatalf("independent return error masked: %v", bag.Items())
	}
}

func TestGatedStagesSkipOnDegraded(t *testing.T) {
	// Ошибка типов в a() деградирует прогон; проверка мутабельности в b()
	// уже не должна запускаться.
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal stored;

    function a() public pure returns (bool) {
        return 42;
    }

    function b() public view {
        stored = 1;
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.State != StateDegraded {
		t.Fatalf("state = %v", res.State)
	}
	if hasCode(bag, diag.PostViewWrite) {
		t.Fatalf("gated stage ran on a degraded pipeline: %v", bag.Items())
	}
}

func TestViewWriteReportedOnCleanRun(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal stored;

    function b() public view {
        stored = 1;
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.State != StateDegraded {
		t.Fatalf("state = %v", res.State)
	}
	if !hasCode(bag, diag.PostViewWrite) {
		t.Fatalf("view write not reported: %v", bag.Items())
	}
}

func TestAbortTierStopsTheRun(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    function f() public pure returns (uint256) {
        return missing;
    }

    function g() public pure returns (bool) {
        return 42;
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.State != StateAborted {
		t.Fatalf("state = %v", res.State)
	}
	if !hasCode(bag, diag.DeclUndeclaredIdentifier) {
		t.Fatalf("missing identifier not reported: %v", bag.Items())
	}
	if hasCode(bag, diag.TypeReturnMismatch) {
		t.Fatalf("type checking ran after an abort: %v", bag.Items())
	}
}

func TestWarningsAloneStillSucceed(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal value;

    function set(uint256 value) public {
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if !res.Succeeded() {
		t.Fatalf("state = %v: %v", res.State, bag.Items())
	}
	if !hasCode(bag, diag.DeclHomonymShadowing) {
		t.Fatalf("shadowing warning missing: %v", bag.Items())
	}
	if bag.HasErrors() {
		t.Fatalf("warnings escalated: %v", bag.Items())
	}
}

func TestOverrideMatrix(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract Base {
    function a() public virtual returns (uint256) { return 1; }
    function b() public returns (uint256) { return 1; }
}
contract Child is Base {
    function a() public returns (uint256) { return 2; }
    function b() public override returns (uint256) { return 2; }
    function c() public override returns (uint256) { return 2; }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.State != StateDegraded {
		t.Fatalf("state = %v", res.State)
	}
	if !hasCode(bag, diag.ContractMissingOverride) {
		t.Fatalf("redefinition without override accepted: %v", bag.Items())
	}
	if !hasCode(bag, diag.ContractMissingVirtual) {
		t.Fatalf("override of non-virtual accepted: %v", bag.Items())
	}
	if !hasCode(bag, diag.ContractOverrideNothing) {
		t.Fatalf("override with no base target accepted: %v", bag.Items())
	}
}

func TestAbstractContractRules(t *testing.T) {
	src := `pragma solidity 0.8.0;
abstract contract A {
    function f() public virtual returns (uint256);
}
contract B is A {
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.State != StateDegraded {
		t.Fatalf("state = %v", res.State)
	}
	if !hasCode(bag, diag.ContractNotAbstract) {
		t.Fatalf("contract with unimplemented function accepted: %v", bag.Items())
	}
}

func TestAbstractImplementedByDerived(t *testing.T) {
	src := `pragma solidity 0.8.0;
abstract contract A {
    function f() public virtual returns (uint256);
}
contract B is A {
    function f() public override returns (uint256) { return 1; }
}
`
	_, res, bag := analyzeSrc(t, src)
	if !res.Succeeded() {
		t.Fatalf("state = %v: %v", res.State, bag.Items())
	}
}

func TestMappingRules(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    mapping(bool => uint256) internal bad;

    function f(mapping(address => uint256) m) public {}
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.State != StateAborted {
		t.Fatalf("state = %v", res.State)
	}
	if !hasCode(bag, diag.DeclMappingKey) {
		t.Fatalf("non-elementary mapping key accepted: %v", bag.Items())
	}
	if !hasCode(bag, diag.DeclMappingLocation) {
		t.Fatalf("mapping parameter accepted: %v", bag.Items())
	}
}

func TestConstantRules(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal constant LIMIT = 100;
    uint256 internal constant EMPTY;

    function f() public pure returns (uint256) {
        return LIMIT;
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.State != StateDegraded {
		t.Fatalf("state = %v", res.State)
	}
	if !hasCode(bag, diag.PostConstantUninitialized) {
		t.Fatalf("uninitialized constant accepted: %v", bag.Items())
	}
}

func TestConstantAssignmentRejected(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal constant LIMIT = 100;

    function f() public {
        LIMIT = 5;
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.Succeeded() {
		t.Fatalf("assignment to constant accepted")
	}
	if !hasCode(bag, diag.TypeConstantAssign) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestOverloadDispatch(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    function f(uint256 a) public pure returns (uint256) { return a; }
    function f(bool a) public pure returns (uint256) { return 1; }

    function g() public pure returns (uint256) {
        return f(true);
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if !res.Succeeded() {
		t.Fatalf("state = %v: %v", res.State, bag.Items())
	}
}

func TestNoOverloadMatch(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    function f(bool a) public pure returns (uint256) { return 1; }

    function g(address who) public pure returns (uint256) {
        return f(who);
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.Succeeded() {
		t.Fatalf("mismatched call accepted")
	}
	if !hasCode(bag, diag.TypeArgumentMismatch) && !hasCode(bag, diag.TypeNoOverloadMatch) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestNewRequiresConstructibleContract(t *testing.T) {
	src := `pragma solidity 0.8.0;
abstract contract A {
    function f() public virtual returns (uint256);
}
contract C {
    function make() public returns (A) {
        return new A();
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.Succeeded() {
		t.Fatalf("new of an abstract contract accepted")
	}
	if !hasCode(bag, diag.TypeNewNotConstructible) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestPureMayNotReadState(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal stored;

    function f() public pure returns (uint256) {
        return stored;
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.Succeeded() {
		t.Fatalf("pure state read accepted")
	}
	if !hasCode(bag, diag.PostPureStateAccess) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestMutabilityTransitivity(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal stored;

    function reader() public view returns (uint256) {
        return stored;
    }

    function strict() public pure returns (uint256) {
        return reader();
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.Succeeded() {
		t.Fatalf("pure calling view accepted")
	}
	if !hasCode(bag, diag.PostPureStateAccess) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestExternalSignatureCollision(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract Base {
    uint256 public data;
}
contract Child is Base {
    function data() public view returns (uint256) {
        return 1;
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.Succeeded() {
		t.Fatalf("colliding external signatures accepted")
	}
	if !hasCode(bag, diag.PostSignatureCollision) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestInterfaceMayOnlyInheritInterfaces(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract Base {}
interface I is Base {
}
`
	_, res, bag := analyzeSrc(t, src)
	if !hasCode(bag, diag.ContractInterfaceBase) {
		t.Fatalf("contract base of an interface accepted: %v (state %v)", bag.Items(), res.State)
	}
}

func TestLiteralBounds(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    function f() public pure returns (uint256) {
        return 115792089237316195423570985008687907853269984665640564039457584007913129639936;
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.Succeeded() {
		t.Fatalf("2**256 literal fit into uint256")
	}
	if !hasCode(bag, diag.TypeReturnMismatch) && !hasCode(bag, diag.TypeLiteralTooLarge) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestConstantFolding(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    uint256 internal constant LIMIT = 10 + 20 * 2;

    function f() public pure returns (uint256) {
        return LIMIT;
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if !res.Succeeded() {
		t.Fatalf("state = %v: %v", res.State, bag.Items())
	}
}

func TestDivisionByZeroInConstant(t *testing.T) {
	src := `pragma solidity 0.8.0;
contract C {
    function f() public pure returns (uint256) {
        return 10 / 0;
    }
}
`
	_, res, bag := analyzeSrc(t, src)
	if res.Succeeded() {
		t.Fatalf("constant division by zero accepted")
	}
	if !hasCode(bag, diag.TypeOperandMismatch) {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}
