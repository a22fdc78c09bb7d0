package sema

import (
	"fmt"

	"solfront/internal/annot"
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
)

// CheckPostType runs the checks that need a fully typed unit: constant
// state variables must have compile-time constant initializers, view
// functions must not write state, pure functions must not touch state at
// all. Gated pass, runs only on otherwise clean input.
func CheckPostType(u *ast.Unit, an *annot.Annotations, r diag.Reporter) bool {
	pc := postChecker{u: u, an: an, r: r, ok: true}
	for _, cid := range u.Contracts() {
		contract := ast.MustAt[*ast.ContractDefinition](u, cid)
		for _, m := range contract.Members {
			switch member := u.Get(m).(type) {
			case *ast.VariableDeclaration:
				pc.checkConstant(member)
			case *ast.FunctionDefinition:
				pc.checkMutability(member)
			}
		}
	}
	for _, fid := range u.FreeFunctions() {
		pc.checkMutability(ast.MustAt[*ast.FunctionDefinition](u, fid))
	}
	return pc.ok
}

type postChecker struct {
	u  *ast.Unit
	an *annot.Annotations
	r  diag.Reporter
	ok bool
}

func (pc *postChecker) errorf(code diag.Code, span source.Span, format string, args ...any) {
	diag.Error(pc.r, code, span, fmt.Sprintf(format, args...))
	pc.ok = false
}

func (pc *postChecker) checkConstant(v *ast.VariableDeclaration) {
	if !v.Constant {
		return
	}
	if !v.Value.IsValid() {
		pc.errorf(diag.PostConstantUninitialized, v.NameSpan,
			"constant %q must be initialized at declaration", v.Name)
		return
	}
	if !pc.constEvaluable(v.Value) {
		pc.errorf(diag.PostConstantNotConstant, pc.u.Get(v.Value).Span(),
			"initializer of constant %q is not a compile-time constant", v.Name)
	}
}

// constEvaluable accepts literals, references to other constants, and
// arithmetic over those.
func (pc *postChecker) constEvaluable(id ast.NodeID) bool {
	switch n := pc.u.Get(id).(type) {
	case *ast.Literal:
		return true
	case *ast.Identifier:
		decl, found := ast.At[*ast.VariableDeclaration](pc.u, pc.an.RefOf(id))
		return found && decl.Constant
	case *ast.BinaryOperation:
		return pc.constEvaluable(n.Left) && pc.constEvaluable(n.Right)
	case *ast.UnaryOperation:
		return pc.constEvaluable(n.Sub)
	default:
		return false
	}
}

func (pc *postChecker) checkMutability(fn *ast.FunctionDefinition) {
	if !fn.Body.IsValid() {
		return
	}
	switch fn.Mutability {
	case ast.MutabilityView:
		pc.walkBody(fn, fn.Body, false)
	case ast.MutabilityPure:
		pc.walkBody(fn, fn.Body, true)
	}
}

// walkBody flags state access inside a restricted function. For view
// functions only writes are illegal; for pure functions any access is. A
// flagged assignment target is not re-reported as a read.
func (pc *postChecker) walkBody(fn *ast.FunctionDefinition, body ast.NodeID, pure bool) {
	var visit func(id ast.NodeID)
	visit = func(id ast.NodeID) {
		switch node := pc.u.Get(id).(type) {
		case *ast.Assignment:
			if pc.isStateRef(node.LHS) {
				if pure {
					pc.errorf(diag.PostPureStateAccess, node.Span(),
						"pure function %q cannot assign to state", fn.Name)
				} else {
					pc.errorf(diag.PostViewWrite, node.Span(),
						"view function %q cannot assign to state", fn.Name)
				}
			} else {
				visit(node.LHS)
			}
			visit(node.RHS)
		case *ast.Identifier:
			if pure && pc.isStateRef(id) {
				pc.errorf(diag.PostPureStateAccess, node.Span(),
					"pure function %q cannot read state", fn.Name)
			}
		case *ast.FunctionCall:
			pc.checkCallee(fn, node, pure)
			for _, c := range ast.Children(pc.u, id) {
				visit(c)
			}
		default:
			for _, c := range ast.Children(pc.u, id) {
				visit(c)
			}
		}
	}
	visit(body)
}

// checkCallee enforces mutability transitivity: a view function may only
// call view or pure functions, a pure function only pure ones.
func (pc *postChecker) checkCallee(fn *ast.FunctionDefinition, call *ast.FunctionCall, pure bool) {
	callee, found := ast.At[*ast.FunctionDefinition](pc.u, pc.an.RefOf(call.Expression))
	if !found {
		return
	}
	if pure {
		if callee.Mutability != ast.MutabilityPure {
			pc.errorf(diag.PostPureStateAccess, call.Span(),
				"pure function %q cannot call %s function %q",
				fn.Name, callee.Mutability, callee.Name)
		}
		return
	}
	if callee.Mutability != ast.MutabilityPure && callee.Mutability != ast.MutabilityView {
		pc.errorf(diag.PostViewWrite, call.Span(),
			"view function %q cannot call %s function %q",
			fn.Name, callee.Mutability, callee.Name)
	}
}

func (pc *postChecker) isStateRef(id ast.NodeID) bool {
	if _, isIdent := ast.At[*ast.Identifier](pc.u, id); !isIdent {
		return false
	}
	decl, found := ast.At[*ast.VariableDeclaration](pc.u, pc.an.RefOf(id))
	return found && decl.StateVariable
}
