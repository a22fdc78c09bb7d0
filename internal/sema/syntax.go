package sema

import (
	"fmt"

	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
)

// CheckSyntax runs the post-parse structural checks that need no name
// resolution: pragma placement, loop-control placement, constructor and
// interface shape rules. It accumulates diagnostics and reports ok.
func CheckSyntax(u *ast.Unit, r diag.Reporter) bool {
	sc := syntaxChecker{u: u, r: r, ok: true}
	sc.checkPragmas()
	su, found := ast.At[*ast.SourceUnit](u, u.Root)
	if !found {
		return sc.ok
	}
	for _, top := range su.Nodes {
		switch n := u.Get(top).(type) {
		case *ast.ContractDefinition:
			sc.checkContract(n)
		case *ast.FunctionDefinition:
			sc.checkFreeFunction(n)
		}
	}
	return sc.ok
}

type syntaxChecker struct {
	u  *ast.Unit
	r  diag.Reporter
	ok bool
}

func (sc *syntaxChecker) errorf(code diag.Code, span source.Span, format string, args ...any) {
	diag.Error(sc.r, code, span, fmt.Sprintf(format, args...))
	sc.ok = false
}

func (sc *syntaxChecker) checkPragmas() {
	su, found := ast.At[*ast.SourceUnit](sc.u, sc.u.Root)
	if !found {
		return
	}
	seenPragma := false
	seenDecl := false
	for _, top := range su.Nodes {
		n := sc.u.Get(top)
		if pragma, isPragma := n.(*ast.PragmaDirective); isPragma {
			if seenDecl {
				sc.errorf(diag.SynPragmaPosition, pragma.Span(),
					"pragma directive must precede all declarations")
			}
			if seenPragma {
				sc.errorf(diag.SynDuplicatePragma, pragma.Span(),
					"duplicate pragma directive")
			}
			seenPragma = true
			continue
		}
		seenDecl = true
	}
	if !seenPragma {
		diag.Warning(sc.r, diag.SynMissingPragma, su.Span(),
			"source unit does not specify a pragma")
	}
}

func (sc *syntaxChecker) checkContract(contract *ast.ContractDefinition) {
	isInterface := contract.ContractKind == ast.ContractKindInterface
	seenConstructor := false
	for _, m := range contract.Members {
		switch member := sc.u.Get(m).(type) {
		case *ast.FunctionDefinition:
			sc.checkLoopControl(member.Body)
			if member.IsConstructor() {
				if isInterface {
					sc.errorf(diag.SynInterfaceConstructor, member.Span(),
						"interface %q cannot declare a constructor", contract.Name)
				}
				if seenConstructor {
					sc.errorf(diag.SynMultipleConstructors, member.Span(),
						"contract %q already has a constructor", contract.Name)
				}
				seenConstructor = true
				sc.checkConstructor(member)
				continue
			}
			if isInterface && member.Implemented() {
				sc.errorf(diag.SynInterfaceFunctionBody, member.NameSpan,
					"function %q in interface %q must not have an implementation",
					member.Name, contract.Name)
			}
		case *ast.VariableDeclaration:
			if isInterface {
				sc.errorf(diag.SynInterfaceStateVar, member.NameSpan,
					"interface %q cannot declare state variables", contract.Name)
			}
		}
	}
}

func (sc *syntaxChecker) checkConstructor(fn *ast.FunctionDefinition) {
	if returns, found := ast.At[*ast.ParameterList](sc.u, fn.Returns); found && len(returns.Parameters) > 0 {
		sc.errorf(diag.SynConstructorReturns, returns.Span(),
			"constructor cannot declare return values")
	}
	if fn.Mutability == ast.MutabilityView || fn.Mutability == ast.MutabilityPure {
		sc.errorf(diag.SynConstructorMutability, fn.Span(),
			"constructor cannot be %s", fn.Mutability)
	}
}

func (sc *syntaxChecker) checkFreeFunction(fn *ast.FunctionDefinition) {
	sc.checkLoopControl(fn.Body)
	if !fn.Implemented() {
		sc.errorf(diag.SynFreeFunctionBody, fn.NameSpan,
			"free function %q must have an implementation", fn.Name)
	}
	if fn.Mutability == ast.MutabilityPayable {
		sc.errorf(diag.SynFreeFunctionPayable, fn.NameSpan,
			"free function %q cannot be payable", fn.Name)
	}
}

// checkLoopControl verifies break/continue appear only inside while bodies.
func (sc *syntaxChecker) checkLoopControl(body ast.NodeID) {
	if !body.IsValid() {
		return
	}
	var visit func(id ast.NodeID, depth int)
	visit = func(id ast.NodeID, depth int) {
		switch n := sc.u.Get(id).(type) {
		case *ast.WhileStatement:
			visit(n.Condition, depth)
			visit(n.Body, depth+1)
		case *ast.BreakStatement:
			if depth == 0 {
				sc.errorf(diag.SynBreakOutsideLoop, n.Span(),
					"break statement outside of a loop")
			}
		case *ast.ContinueStatement:
			if depth == 0 {
				sc.errorf(diag.SynContinueOutsideLoop, n.Span(),
					"continue statement outside of a loop")
			}
		default:
			for _, c := range ast.Children(sc.u, id) {
				visit(c, depth)
			}
		}
	}
	visit(body, 0)
}
