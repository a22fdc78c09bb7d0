package sema

import (
	"fmt"
	"math/big"

	"solfront/internal/annot"
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/types"
)

// CheckTypes assigns a type to every expression and checks the typing
// rules of statements and calls. It never stops at the first problem:
// failed subexpressions get the invalid type and unrelated errors still
// surface in the same run. Accumulating pass.
func CheckTypes(u *ast.Unit, an *annot.Annotations, in *types.Interner, r diag.Reporter) bool {
	tc := typeChecker{u: u, an: an, in: in, r: r, ok: true}
	su, found := ast.At[*ast.SourceUnit](u, u.Root)
	if !found {
		return true
	}
	for _, top := range su.Nodes {
		switch n := u.Get(top).(type) {
		case *ast.ContractDefinition:
			for _, m := range n.Members {
				switch member := u.Get(m).(type) {
				case *ast.FunctionDefinition:
					tc.checkFunction(m, member)
				case *ast.VariableDeclaration:
					tc.checkInitializer(m, member)
				}
			}
		case *ast.FunctionDefinition:
			tc.checkFunction(top, n)
		}
	}
	return tc.ok
}

type typeChecker struct {
	u  *ast.Unit
	an *annot.Annotations
	in *types.Interner
	r  diag.Reporter
	ok bool

	curFn ast.NodeID // enclosing function, for return checking
}

func (tc *typeChecker) errorf(code diag.Code, span source.Span, format string, args ...any) {
	diag.Error(tc.r, code, span, fmt.Sprintf(format, args...))
	tc.ok = false
}

func (tc *typeChecker) checkInitializer(id ast.NodeID, v *ast.VariableDeclaration) {
	if !v.Value.IsValid() {
		return
	}
	vt := tc.expr(v.Value)
	if !tc.requireValue(vt, tc.u.Get(v.Value).Span()) {
		return
	}
	declared := tc.an.TypeOf(id)
	if !tc.convertible(vt, declared) {
		tc.errorf(diag.TypeAssignMismatch, tc.u.Get(v.Value).Span(),
			"cannot initialize %s from %s", tc.in.String(declared), tc.in.String(vt))
	}
}

func (tc *typeChecker) checkFunction(id ast.NodeID, fn *ast.FunctionDefinition) {
	if !fn.Body.IsValid() {
		return
	}
	prev := tc.curFn
	tc.curFn = id
	tc.stmt(fn.Body)
	tc.curFn = prev
}

func (tc *typeChecker) stmt(id ast.NodeID) {
	switch n := tc.u.Get(id).(type) {
	case *ast.Block:
		for _, s := range n.Statements {
			tc.stmt(s)
		}
	case *ast.VariableDeclarationStatement:
		v, found := ast.At[*ast.VariableDeclaration](tc.u, n.Declaration)
		if !found {
			return
		}
		if !v.Value.IsValid() {
			return
		}
		vt := tc.expr(v.Value)
		if !tc.requireValue(vt, tc.u.Get(v.Value).Span()) {
			return
		}
		declared := tc.an.TypeOf(n.Declaration)
		if !tc.convertible(vt, declared) {
			tc.errorf(diag.TypeAssignMismatch, tc.u.Get(v.Value).Span(),
				"cannot initialize %s from %s", tc.in.String(declared), tc.in.String(vt))
		}
	case *ast.ExpressionStatement:
		tc.expr(n.Expression)
	case *ast.IfStatement:
		tc.condition(n.Condition)
		tc.stmt(n.TrueBody)
		if n.FalseBody.IsValid() {
			tc.stmt(n.FalseBody)
		}
	case *ast.WhileStatement:
		tc.condition(n.Condition)
		tc.stmt(n.Body)
	case *ast.ReturnStatement:
		tc.checkReturn(n)
	}
}

func (tc *typeChecker) condition(id ast.NodeID) {
	t := tc.expr(id)
	if !tc.isBool(t) && !tc.isInvalid(t) {
		tc.errorf(diag.TypeCondNotBool, tc.u.Get(id).Span(),
			"condition has type %s, bool expected", tc.in.String(t))
	}
}

func (tc *typeChecker) checkReturn(ret *ast.ReturnStatement) {
	fnType := tc.in.Get(tc.an.TypeOf(tc.curFn))
	if fnType == nil {
		return
	}
	returns := fnType.Returns
	if !ret.Expression.IsValid() {
		if len(returns) > 0 && !tc.returnsNamed() {
			tc.errorf(diag.TypeReturnArity, ret.Span(),
				"return without value in a function returning %d values", len(returns))
		}
		return
	}
	rt := tc.expr(ret.Expression)
	if len(returns) != 1 {
		tc.errorf(diag.TypeReturnArity, ret.Span(),
			"return carries one value but the function declares %d", len(returns))
		return
	}
	if !tc.convertible(rt, returns[0]) {
		tc.errorf(diag.TypeReturnMismatch, tc.u.Get(ret.Expression).Span(),
			"cannot return %s from a function returning %s",
			tc.in.String(rt), tc.in.String(returns[0]))
	}
}

// returnsNamed reports whether every declared return value has a name, in
// which case a bare return is legal.
func (tc *typeChecker) returnsNamed() bool {
	fn, found := ast.At[*ast.FunctionDefinition](tc.u, tc.curFn)
	if !found {
		return false
	}
	pl, found := ast.At[*ast.ParameterList](tc.u, fn.Returns)
	if !found || len(pl.Parameters) == 0 {
		return false
	}
	for _, p := range pl.Parameters {
		v, ok := ast.At[*ast.VariableDeclaration](tc.u, p)
		if !ok || v.Name == "" {
			return false
		}
	}
	return true
}

// expr types one expression node, records the type and returns it. The
// invalid type marks failed subexpressions and is convertible to
// everything so one mistake does not cascade.
func (tc *typeChecker) expr(id ast.NodeID) types.TypeID {
	t := tc.exprUncached(id)
	tc.an.SetType(id, t)
	return t
}

func (tc *typeChecker) exprUncached(id ast.NodeID) types.TypeID {
	switch n := tc.u.Get(id).(type) {
	case *ast.Literal:
		return tc.literal(n)
	case *ast.Identifier:
		return tc.identifier(id, n)
	case *ast.Assignment:
		return tc.assignment(n)
	case *ast.BinaryOperation:
		return tc.binary(n)
	case *ast.UnaryOperation:
		return tc.unary(n)
	case *ast.FunctionCall:
		return tc.call(n)
	case *ast.MemberAccess:
		return tc.memberValue(id, n)
	case *ast.NewExpression:
		// Bare `new C` outside a call; the call case handles arguments.
		return tc.newTarget(n)
	default:
		return tc.in.Invalid()
	}
}

func (tc *typeChecker) literal(lit *ast.Literal) types.TypeID {
	switch lit.LitKind {
	case ast.LiteralBool:
		return tc.in.Bool()
	case ast.LiteralString:
		return tc.in.StringT()
	default:
		v, ok := new(big.Int).SetString(lit.Value, 0)
		if !ok {
			tc.errorf(diag.TypeLiteralTooLarge, lit.Span(),
				"invalid number literal %q", lit.Value)
			return tc.in.Invalid()
		}
		return tc.in.IntConst(v.String())
	}
}

func (tc *typeChecker) identifier(id ast.NodeID, ident *ast.Identifier) types.TypeID {
	decl := tc.an.RefOf(id)
	if !decl.IsValid() {
		if len(tc.an.Overloads[id]) > 0 {
			tc.errorf(diag.TypeAmbiguousCall, ident.Span(),
				"no unique declaration for %q outside of a call", ident.Name)
		}
		return tc.in.Invalid()
	}
	return tc.an.TypeOf(decl)
}

func (tc *typeChecker) assignment(asg *ast.Assignment) types.TypeID {
	lt := tc.expr(asg.LHS)
	rt := tc.expr(asg.RHS)
	if !tc.requireValue(rt, tc.u.Get(asg.RHS).Span()) {
		return lt
	}
	tc.checkAssignable(asg.LHS)
	if asg.Operator != "=" {
		// += and -= demand numeric operands on both sides.
		if !tc.isNumeric(lt) || !tc.isNumeric(rt) {
			tc.errorf(diag.TypeOperandMismatch, asg.Span(),
				"operator %s needs integer operands, got %s and %s",
				asg.Operator, tc.in.String(lt), tc.in.String(rt))
			return lt
		}
	}
	if !tc.convertible(rt, lt) {
		tc.errorf(diag.TypeAssignMismatch, asg.Span(),
			"cannot assign %s to %s", tc.in.String(rt), tc.in.String(lt))
	}
	return lt
}

// checkAssignable rejects assignment targets that are not mutable named
// declarations: constants, functions, contracts, arbitrary expressions.
func (tc *typeChecker) checkAssignable(lhs ast.NodeID) {
	node := tc.u.Get(lhs)
	switch node.(type) {
	case *ast.Identifier, *ast.MemberAccess:
	default:
		tc.errorf(diag.TypeNotAssignable, node.Span(), "expression is not assignable")
		return
	}
	decl := tc.an.RefOf(lhs)
	v, found := ast.At[*ast.VariableDeclaration](tc.u, decl)
	if !found {
		tc.errorf(diag.TypeNotAssignable, node.Span(), "expression is not assignable")
		return
	}
	if v.Constant {
		tc.errorf(diag.TypeConstantAssign, node.Span(),
			"cannot assign to constant %q", v.Name)
	}
}

func (tc *typeChecker) binary(bin *ast.BinaryOperation) types.TypeID {
	lt := tc.expr(bin.Left)
	rt := tc.expr(bin.Right)
	if tc.isInvalid(lt) || tc.isInvalid(rt) {
		return tc.in.Invalid()
	}
	switch bin.Operator {
	case "+", "-", "*", "/", "%":
		return tc.arithmetic(bin, lt, rt)
	case "<", "<=", ">", ">=":
		if !tc.isNumeric(lt) || !tc.isNumeric(rt) || !tc.comparable(lt, rt) {
			tc.operandMismatch(bin, lt, rt)
		}
		return tc.in.Bool()
	case "==", "!=":
		if !tc.convertible(lt, rt) && !tc.convertible(rt, lt) {
			tc.operandMismatch(bin, lt, rt)
		}
		return tc.in.Bool()
	case "&&", "||":
		if !tc.isBool(lt) || !tc.isBool(rt) {
			tc.operandMismatch(bin, lt, rt)
		}
		return tc.in.Bool()
	default:
		tc.operandMismatch(bin, lt, rt)
		return tc.in.Invalid()
	}
}

func (tc *typeChecker) operandMismatch(bin *ast.BinaryOperation, lt, rt types.TypeID) {
	tc.errorf(diag.TypeOperandMismatch, bin.Span(),
		"operator %s not applicable to %s and %s",
		bin.Operator, tc.in.String(lt), tc.in.String(rt))
}

// arithmetic folds constant operands and otherwise finds the common
// integer type of the two sides.
func (tc *typeChecker) arithmetic(bin *ast.BinaryOperation, lt, rt types.TypeID) types.TypeID {
	l, r := tc.in.Get(lt), tc.in.Get(rt)
	if l.Kind == types.KindIntConst && r.Kind == types.KindIntConst {
		folded, ok := foldConst(bin.Operator, l.Const, r.Const)
		if !ok {
			tc.errorf(diag.TypeOperandMismatch, bin.Span(),
				"constant expression %s %s %s cannot be evaluated",
				l.Const, bin.Operator, r.Const)
			return tc.in.Invalid()
		}
		return tc.in.IntConst(folded)
	}
	common, ok := tc.commonInteger(lt, rt)
	if !ok {
		tc.operandMismatch(bin, lt, rt)
		return tc.in.Invalid()
	}
	return common
}

func (tc *typeChecker) unary(un *ast.UnaryOperation) types.TypeID {
	st := tc.expr(un.Sub)
	if tc.isInvalid(st) {
		return st
	}
	s := tc.in.Get(st)
	switch un.Operator {
	case "!":
		if s.Kind != types.KindBool {
			tc.errorf(diag.TypeUnaryOperand, un.Span(),
				"operator ! not applicable to %s", tc.in.String(st))
			return tc.in.Invalid()
		}
		return st
	case "-":
		if s.Kind == types.KindIntConst {
			v, _ := new(big.Int).SetString(s.Const, 10)
			return tc.in.IntConst(new(big.Int).Neg(v).String())
		}
		if s.Kind == types.KindInteger && s.Signed {
			return st
		}
		tc.errorf(diag.TypeUnaryOperand, un.Span(),
			"operator - not applicable to %s", tc.in.String(st))
		return tc.in.Invalid()
	default:
		tc.errorf(diag.TypeUnaryOperand, un.Span(),
			"unknown unary operator %s", un.Operator)
		return tc.in.Invalid()
	}
}

func foldConst(op, left, right string) (string, bool) {
	l, okL := new(big.Int).SetString(left, 10)
	r, okR := new(big.Int).SetString(right, 10)
	if !okL || !okR {
		return "", false
	}
	out := new(big.Int)
	switch op {
	case "+":
		out.Add(l, r)
	case "-":
		out.Sub(l, r)
	case "*":
		out.Mul(l, r)
	case "/":
		if r.Sign() == 0 {
			return "", false
		}
		out.Quo(l, r)
	case "%":
		if r.Sign() == 0 {
			return "", false
		}
		out.Rem(l, r)
	default:
		return "", false
	}
	return out.String(), true
}

// requireValue reports a dedicated error when a no-result call is used in
// a value position. Returns true when the operand does carry a value.
func (tc *typeChecker) requireValue(t types.TypeID, span source.Span) bool {
	tt := tc.in.Get(t)
	if tt != nil && tt.Kind == types.KindTuple && len(tt.Elems) == 0 {
		tc.errorf(diag.TypeVoidValue, span, "expression returns no value")
		return false
	}
	return true
}

func (tc *typeChecker) isBool(t types.TypeID) bool {
	tt := tc.in.Get(t)
	return tt != nil && tt.Kind == types.KindBool
}

func (tc *typeChecker) isInvalid(t types.TypeID) bool {
	tt := tc.in.Get(t)
	return tt == nil || tt.Kind == types.KindInvalid
}

func (tc *typeChecker) isNumeric(t types.TypeID) bool {
	tt := tc.in.Get(t)
	if tt == nil {
		return false
	}
	return tt.Kind == types.KindInteger || tt.Kind == types.KindIntConst || tt.Kind == types.KindInvalid
}

// comparable reports whether two numeric operands can be ordered.
func (tc *typeChecker) comparable(a, b types.TypeID) bool {
	_, ok := tc.commonInteger(a, b)
	return ok
}

// commonInteger finds the integer type both operands convert to: constants
// adapt to the sized side, equal-sign integers widen to the larger side.
func (tc *typeChecker) commonInteger(a, b types.TypeID) (types.TypeID, bool) {
	ta, tb := tc.in.Get(a), tc.in.Get(b)
	if ta == nil || tb == nil {
		return types.NoType, false
	}
	switch {
	case ta.Kind == types.KindIntConst && tb.Kind == types.KindIntConst:
		return a, true
	case ta.Kind == types.KindIntConst && tb.Kind == types.KindInteger:
		if tc.convertible(a, b) {
			return b, true
		}
	case ta.Kind == types.KindInteger && tb.Kind == types.KindIntConst:
		if tc.convertible(b, a) {
			return a, true
		}
	case ta.Kind == types.KindInteger && tb.Kind == types.KindInteger:
		if ta.Signed != tb.Signed {
			return types.NoType, false
		}
		if ta.Bits >= tb.Bits {
			return a, true
		}
		return b, true
	}
	return types.NoType, false
}

// convertible implements the implicit conversions of the language:
// identity, fitting integer constants, widening same-sign integers, and a
// contract to any of its bases. The invalid type converts to everything.
func (tc *typeChecker) convertible(from, to types.TypeID) bool {
	if from == to {
		return true
	}
	f, t := tc.in.Get(from), tc.in.Get(to)
	if f == nil || t == nil {
		return false
	}
	if f.Kind == types.KindInvalid || t.Kind == types.KindInvalid {
		return true
	}
	switch {
	case f.Kind == types.KindIntConst && t.Kind == types.KindInteger:
		return constFits(f.Const, t.Signed, t.Bits)
	case f.Kind == types.KindInteger && t.Kind == types.KindInteger:
		return f.Signed == t.Signed && t.Bits >= f.Bits
	case f.Kind == types.KindContract && t.Kind == types.KindContract:
		for _, base := range tc.an.Linearized[f.Decl] {
			if base == t.Decl {
				return true
			}
		}
	}
	return false
}

// constFits checks an integer constant against the value range of a sized
// integer type.
func constFits(value string, signed bool, bits uint16) bool {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return false
	}
	one := big.NewInt(1)
	if signed {
		max := new(big.Int).Sub(new(big.Int).Lsh(one, uint(bits-1)), one)
		min := new(big.Int).Neg(new(big.Int).Lsh(one, uint(bits-1)))
		return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
	}
	if v.Sign() < 0 {
		return false
	}
	max := new(big.Int).Sub(new(big.Int).Lsh(one, uint(bits)), one)
	return v.Cmp(max) <= 0
}
