package sema

import (
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/types"
)

// call types a function call: it resolves the callee (possibly through an
// overload set or a `new` expression), matches arguments against the
// winning signature, binds the winner and produces the call result type.
func (tc *typeChecker) call(fc *ast.FunctionCall) types.TypeID {
	args := make([]types.TypeID, 0, len(fc.Arguments))
	for _, a := range fc.Arguments {
		args = append(args, tc.expr(a))
	}
	switch callee := tc.u.Get(fc.Expression).(type) {
	case *ast.NewExpression:
		return tc.callNew(fc, callee, args)
	case *ast.Identifier:
		cands := tc.identifierCandidates(fc.Expression)
		if len(cands) == 0 {
			tc.expr(fc.Expression)
			return tc.in.Invalid()
		}
		return tc.dispatch(fc, fc.Expression, callee.Name, cands, args)
	case *ast.MemberAccess:
		cands, visible := tc.memberCandidates(callee)
		if len(cands) == 0 {
			if visible {
				tc.errorf(diag.TypeMemberUnknown, callee.MemberSpan,
					"member %q not found", callee.Member)
			}
			return tc.in.Invalid()
		}
		return tc.dispatch(fc, fc.Expression, callee.Member, cands, args)
	default:
		t := tc.expr(fc.Expression)
		if !tc.isInvalid(t) {
			tc.errorf(diag.TypeNotCallable, tc.u.Get(fc.Expression).Span(),
				"expression of type %s is not callable", tc.in.String(t))
		}
		return tc.in.Invalid()
	}
}

// identifierCandidates returns every function declaration an identifier
// callee may refer to, resolved or still overloaded.
func (tc *typeChecker) identifierCandidates(id ast.NodeID) []ast.NodeID {
	if decl := tc.an.RefOf(id); decl.IsValid() {
		return []ast.NodeID{decl}
	}
	return tc.an.Overloads[id]
}

// dispatch picks the unique candidate whose parameters accept the argument
// types and binds it to the callee node. Overridden base declarations
// share the derived signature and are deduplicated in favor of the most
// derived one, which candidate lists put first.
func (tc *typeChecker) dispatch(fc *ast.FunctionCall, callee ast.NodeID, name string, cands []ast.NodeID, args []types.TypeID) types.TypeID {
	var matches []ast.NodeID
	seen := make(map[types.TypeID]bool)
	for _, cand := range cands {
		sig := tc.an.TypeOf(cand)
		if seen[sig] {
			continue
		}
		t := tc.in.Get(sig)
		if t == nil || t.Kind != types.KindFunction {
			tc.errorf(diag.TypeNotCallable, tc.u.Get(callee).Span(),
				"%q is not a function", name)
			return tc.in.Invalid()
		}
		if tc.argsMatch(t.Params, args) {
			seen[sig] = true
			matches = append(matches, cand)
		}
	}
	switch {
	case len(matches) == 1:
		tc.an.Bind(callee, matches[0])
		tc.an.SetType(callee, tc.an.TypeOf(matches[0]))
		return tc.resultType(matches[0])
	case len(matches) > 1:
		tc.errorf(diag.TypeAmbiguousCall, fc.Span(),
			"call of %q is ambiguous, %d overloads match", name, len(matches))
		return tc.in.Invalid()
	case len(cands) == 1:
		tc.explainMismatch(fc, name, cands[0], args)
		return tc.in.Invalid()
	default:
		tc.errorf(diag.TypeNoOverloadMatch, fc.Span(),
			"no overload of %q matches the call arguments", name)
		return tc.in.Invalid()
	}
}

// explainMismatch reports why the single candidate did not accept the
// arguments: wrong count, or the first incompatible argument.
func (tc *typeChecker) explainMismatch(fc *ast.FunctionCall, name string, cand ast.NodeID, args []types.TypeID) {
	t := tc.in.Get(tc.an.TypeOf(cand))
	if t == nil {
		return
	}
	if len(t.Params) != len(args) {
		tc.errorf(diag.TypeArgumentCount, fc.Span(),
			"%q expects %d arguments, got %d", name, len(t.Params), len(args))
		return
	}
	for i, p := range t.Params {
		if !tc.convertible(args[i], p) {
			tc.errorf(diag.TypeArgumentMismatch, tc.u.Get(fc.Arguments[i]).Span(),
				"argument %d of %q: cannot convert %s to %s",
				i+1, name, tc.in.String(args[i]), tc.in.String(p))
			return
		}
	}
}

func (tc *typeChecker) argsMatch(params, args []types.TypeID) bool {
	if len(params) != len(args) {
		return false
	}
	for i := range params {
		if !tc.convertible(args[i], params[i]) {
			return false
		}
	}
	return true
}

// resultType maps a function declaration to its call result: no returns
// is void, one return is that value, several form a tuple.
func (tc *typeChecker) resultType(fnDecl ast.NodeID) types.TypeID {
	t := tc.in.Get(tc.an.TypeOf(fnDecl))
	if t == nil || t.Kind != types.KindFunction {
		return tc.in.Invalid()
	}
	switch len(t.Returns) {
	case 0:
		return tc.in.Void()
	case 1:
		return t.Returns[0]
	default:
		return tc.in.Tuple(t.Returns)
	}
}

// callNew handles `new C(args)`: the target must be a deployable contract
// and the arguments must satisfy its constructor, if any.
func (tc *typeChecker) callNew(fc *ast.FunctionCall, ne *ast.NewExpression, args []types.TypeID) types.TypeID {
	contractType := tc.newTarget(ne)
	tc.an.SetType(ne.ID(), contractType)
	t := tc.in.Get(contractType)
	if t == nil || t.Kind != types.KindContract {
		return tc.in.Invalid()
	}
	ctor := tc.constructorOf(t.Decl)
	var params []types.TypeID
	if ctor.IsValid() {
		if ct := tc.in.Get(tc.an.TypeOf(ctor)); ct != nil {
			params = ct.Params
		}
	}
	if len(params) != len(args) {
		tc.errorf(diag.TypeArgumentCount, fc.Span(),
			"constructor expects %d arguments, got %d", len(params), len(args))
		return contractType
	}
	for i, p := range params {
		if !tc.convertible(args[i], p) {
			tc.errorf(diag.TypeArgumentMismatch, tc.u.Get(fc.Arguments[i]).Span(),
				"constructor argument %d: cannot convert %s to %s",
				i+1, tc.in.String(args[i]), tc.in.String(p))
		}
	}
	return contractType
}

// newTarget checks that the `new` operand denotes a deployable contract:
// not an interface, not abstract, not unimplemented.
func (tc *typeChecker) newTarget(ne *ast.NewExpression) types.TypeID {
	decl := tc.an.RefOf(ne.TypeName)
	contract, found := ast.At[*ast.ContractDefinition](tc.u, decl)
	if !found {
		tc.errorf(diag.TypeNewNotConstructible, tc.u.Get(ne.TypeName).Span(),
			"operand of new must name a contract")
		return tc.in.Invalid()
	}
	switch {
	case contract.ContractKind == ast.ContractKindInterface:
		tc.errorf(diag.TypeNewNotConstructible, tc.u.Get(ne.TypeName).Span(),
			"cannot instantiate interface %q", contract.Name)
	case contract.Abstract:
		tc.errorf(diag.TypeNewNotConstructible, tc.u.Get(ne.TypeName).Span(),
			"cannot instantiate abstract contract %q", contract.Name)
	case !tc.an.FullyImplemented[decl]:
		tc.errorf(diag.TypeNewNotConstructible, tc.u.Get(ne.TypeName).Span(),
			"cannot instantiate contract %q with unimplemented functions", contract.Name)
	}
	return tc.in.Contract(contract.Name, decl)
}

func (tc *typeChecker) constructorOf(cid ast.NodeID) ast.NodeID {
	for _, c := range tc.an.Linearized[cid] {
		contract, found := ast.At[*ast.ContractDefinition](tc.u, c)
		if !found {
			continue
		}
		for _, m := range contract.Members {
			if fn, isFn := ast.At[*ast.FunctionDefinition](tc.u, m); isFn && fn.IsConstructor() {
				return m
			}
		}
	}
	return ast.NoNode
}

// memberValue types a member access used as a value: reading a public
// state variable or naming a unique externally callable function.
func (tc *typeChecker) memberValue(id ast.NodeID, ma *ast.MemberAccess) types.TypeID {
	cands, clean := tc.memberCandidates(ma)
	if len(cands) == 0 {
		if clean {
			tc.errorf(diag.TypeMemberUnknown, ma.MemberSpan,
				"member %q not found", ma.Member)
		}
		return tc.in.Invalid()
	}
	if len(cands) > 1 {
		tc.errorf(diag.TypeAmbiguousCall, ma.MemberSpan,
			"member %q is overloaded and needs a call to disambiguate", ma.Member)
		return tc.in.Invalid()
	}
	tc.an.Bind(id, cands[0])
	return tc.an.TypeOf(cands[0])
}

// memberCandidates resolves a member name through the contract type of
// the base expression. Only the external interface is reachable through a
// contract value: external and public functions plus public state
// variables. The second result is false when an error was already
// reported for the base or the member.
func (tc *typeChecker) memberCandidates(ma *ast.MemberAccess) ([]ast.NodeID, bool) {
	baseType := tc.expr(ma.Expression)
	if tc.isInvalid(baseType) {
		return nil, false
	}
	t := tc.in.Get(baseType)
	if t.Kind != types.KindContract {
		tc.errorf(diag.TypeMemberUnknown, ma.MemberSpan,
			"type %s has no members", tc.in.String(baseType))
		return nil, false
	}
	var out []ast.NodeID
	hidden := false
	for _, c := range tc.an.Linearized[t.Decl] {
		contract, found := ast.At[*ast.ContractDefinition](tc.u, c)
		if !found {
			continue
		}
		for _, m := range contract.Members {
			switch member := tc.u.Get(m).(type) {
			case *ast.FunctionDefinition:
				if member.Name != ma.Member {
					continue
				}
				if member.ExternallyCallable() {
					out = append(out, m)
				} else {
					hidden = true
				}
			case *ast.VariableDeclaration:
				if member.Name != ma.Member {
					continue
				}
				if member.Visibility == ast.VisibilityPublic {
					out = append(out, m)
				} else {
					hidden = true
				}
			}
		}
	}
	if len(out) == 0 && hidden {
		tc.errorf(diag.TypeMemberNotVisible, ma.MemberSpan,
			"member %q exists but is not visible through %s", ma.Member, tc.in.String(baseType))
		return nil, false
	}
	return out, true
}
