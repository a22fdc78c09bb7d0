package sema

import (
	"fmt"
	"strings"

	"solfront/internal/annot"
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/types"
)

// CheckContractLevel validates each contract against its linearized
// hierarchy: overriding rules, in-contract duplicate signatures, interface
// base restrictions and abstractness. It also records fullyImplemented for
// the exporter. Accumulating pass.
func CheckContractLevel(u *ast.Unit, an *annot.Annotations, in *types.Interner, r diag.Reporter) bool {
	cc := contractChecker{u: u, an: an, in: in, r: r, ok: true}
	for _, cid := range u.Contracts() {
		cc.check(cid)
	}
	return cc.ok
}

type contractChecker struct {
	u  *ast.Unit
	an *annot.Annotations
	in *types.Interner
	r  diag.Reporter
	ok bool
}

func (cc *contractChecker) errorf(code diag.Code, span source.Span, format string, args ...any) {
	diag.Error(cc.r, code, span, fmt.Sprintf(format, args...))
	cc.ok = false
}

func (cc *contractChecker) check(cid ast.NodeID) {
	contract := ast.MustAt[*ast.ContractDefinition](cc.u, cid)
	cc.checkBases(cid, contract)
	cc.checkDuplicates(contract)
	cc.checkOverrides(cid, contract)
	cc.checkAbstractness(cid, contract)
}

// checkBases rejects interfaces inheriting from non-interfaces.
func (cc *contractChecker) checkBases(cid ast.NodeID, contract *ast.ContractDefinition) {
	if contract.ContractKind != ast.ContractKindInterface {
		return
	}
	for _, bid := range contract.Bases {
		base, found := ast.At[*ast.ContractDefinition](cc.u, cc.an.RefOf(bid))
		if !found {
			continue
		}
		if base.ContractKind != ast.ContractKindInterface {
			cc.errorf(diag.ContractInterfaceBase, cc.u.Get(bid).Span(),
				"interface %q can only inherit from other interfaces", contract.Name)
		}
	}
}

// checkDuplicates flags two functions of one contract whose name and
// parameter types coincide. Overloads must differ in parameters.
func (cc *contractChecker) checkDuplicates(contract *ast.ContractDefinition) {
	seen := make(map[string]*ast.FunctionDefinition)
	for _, m := range contract.Members {
		fn, found := ast.At[*ast.FunctionDefinition](cc.u, m)
		if !found || fn.Name == "" {
			continue
		}
		key := cc.signature(m, fn)
		if prev, dup := seen[key]; dup {
			diag.ErrorWithNote(cc.r, diag.ContractDuplicateFunction, fn.NameSpan,
				fmt.Sprintf("function %q with the same parameter types is already declared", fn.Name),
				prev.NameSpan, "other declaration is here")
			cc.ok = false
			continue
		}
		seen[key] = fn
	}
}

func (cc *contractChecker) checkOverrides(cid ast.NodeID, contract *ast.ContractDefinition) {
	lin := cc.an.Linearized[cid]
	if len(lin) == 0 {
		return
	}
	for _, m := range contract.Members {
		fn, found := ast.At[*ast.FunctionDefinition](cc.u, m)
		if !found || fn.Name == "" {
			continue
		}
		key := cc.signature(m, fn)
		baseID, baseFn := cc.findBaseFunction(lin[1:], key)
		if baseFn == nil {
			if fn.Override {
				cc.errorf(diag.ContractOverrideNothing, fn.NameSpan,
					"function %q is marked override but overrides nothing", fn.Name)
			}
			continue
		}
		if !fn.Override {
			cc.errorf(diag.ContractMissingOverride, fn.NameSpan,
				"function %q overrides a base function and must be marked override", fn.Name)
		}
		if !baseFn.Virtual {
			cc.errorf(diag.ContractMissingVirtual, fn.NameSpan,
				"function %q overrides a base function that is not virtual", fn.Name)
		}
		if !cc.sameReturns(m, baseID) {
			cc.errorf(diag.ContractOverrideMismatch, fn.NameSpan,
				"function %q overrides a base function with different return types", fn.Name)
		}
	}
}

// findBaseFunction locates the nearest base declaration with the given
// signature, walking the linearization from most to least derived.
func (cc *contractChecker) findBaseFunction(bases []ast.NodeID, key string) (ast.NodeID, *ast.FunctionDefinition) {
	for _, b := range bases {
		base, found := ast.At[*ast.ContractDefinition](cc.u, b)
		if !found {
			continue
		}
		for _, m := range base.Members {
			fn, isFn := ast.At[*ast.FunctionDefinition](cc.u, m)
			if isFn && fn.Name != "" && cc.signature(m, fn) == key {
				return m, fn
			}
		}
	}
	return ast.NoNode, nil
}

// checkAbstractness decides per external-visible signature whether its
// most derived declaration has a body, then records fullyImplemented and
// rejects non-abstract contracts with unimplemented functions.
func (cc *contractChecker) checkAbstractness(cid ast.NodeID, contract *ast.ContractDefinition) {
	lin := cc.an.Linearized[cid]
	if len(lin) == 0 {
		lin = []ast.NodeID{cid}
	}
	implemented := make(map[string]bool)
	var unimplemented []string
	for _, c := range lin {
		cur, found := ast.At[*ast.ContractDefinition](cc.u, c)
		if !found {
			continue
		}
		for _, m := range cur.Members {
			fn, isFn := ast.At[*ast.FunctionDefinition](cc.u, m)
			if !isFn || fn.Name == "" {
				continue
			}
			key := cc.signature(m, fn)
			if _, decided := implemented[key]; decided {
				continue
			}
			implemented[key] = fn.Implemented()
			if !fn.Implemented() {
				unimplemented = append(unimplemented, fn.Name)
			}
		}
	}
	fully := len(unimplemented) == 0
	cc.an.FullyImplemented[cid] = fully
	if fully {
		return
	}
	if contract.ContractKind == ast.ContractKindContract && !contract.Abstract {
		cc.errorf(diag.ContractNotAbstract, contract.NameSpan,
			"contract %q must be marked abstract, function %q is unimplemented",
			contract.Name, unimplemented[0])
	}
}

// signature builds the overload key: name plus canonical parameter types.
func (cc *contractChecker) signature(id ast.NodeID, fn *ast.FunctionDefinition) string {
	t := cc.in.Get(cc.an.TypeOf(id))
	var b strings.Builder
	b.WriteString(fn.Name)
	b.WriteByte('(')
	if t != nil {
		for i, p := range t.Params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(cc.in.String(p))
		}
	}
	b.WriteByte(')')
	return b.String()
}

func (cc *contractChecker) sameReturns(a, b ast.NodeID) bool {
	ta := cc.in.Get(cc.an.TypeOf(a))
	tb := cc.in.Get(cc.an.TypeOf(b))
	if ta == nil || tb == nil || len(ta.Returns) != len(tb.Returns) {
		return false
	}
	for i := range ta.Returns {
		if ta.Returns[i] != tb.Returns[i] {
			return false
		}
	}
	return true
}
