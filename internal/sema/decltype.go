package sema

import (
	"fmt"

	"solfront/internal/annot"
	"solfront/internal/ast"
	"solfront/internal/diag"
	"solfront/internal/source"
	"solfront/internal/types"
)

// CheckDeclarationTypes computes and interns the declared type of every
// typed declaration and verifies the types are well formed: type names
// must denote types, mappings live only in contract storage, mapping state
// variables take no constant modifier and no initializer. Failure here is
// fatal; expression checking cannot run on broken declared types.
func CheckDeclarationTypes(u *ast.Unit, an *annot.Annotations, in *types.Interner, r diag.Reporter) bool {
	dc := declChecker{u: u, an: an, in: in, r: r, ok: true}
	su, found := ast.At[*ast.SourceUnit](u, u.Root)
	if !found {
		return true
	}
	for _, top := range su.Nodes {
		switch n := u.Get(top).(type) {
		case *ast.ContractDefinition:
			an.SetType(top, in.Contract(n.Name, top))
			for _, m := range n.Members {
				switch member := u.Get(m).(type) {
				case *ast.FunctionDefinition:
					dc.function(m, member)
				case *ast.VariableDeclaration:
					dc.stateVariable(m, member)
				}
			}
		case *ast.FunctionDefinition:
			dc.function(top, n)
		}
	}
	return dc.ok
}

type declChecker struct {
	u  *ast.Unit
	an *annot.Annotations
	in *types.Interner
	r  diag.Reporter
	ok bool
}

func (dc *declChecker) errorf(code diag.Code, span source.Span, format string, args ...any) {
	diag.Error(dc.r, code, span, fmt.Sprintf(format, args...))
	dc.ok = false
}

func (dc *declChecker) function(id ast.NodeID, fn *ast.FunctionDefinition) {
	params := dc.paramTypes(fn.Params)
	returns := dc.paramTypes(fn.Returns)
	dc.an.SetType(id, dc.in.Function(params, returns, fn.Mutability, fn.Visibility))
	if fn.Body.IsValid() {
		dc.locals(fn.Body)
	}
}

func (dc *declChecker) paramTypes(list ast.NodeID) []types.TypeID {
	pl, found := ast.At[*ast.ParameterList](dc.u, list)
	if !found {
		return nil
	}
	out := make([]types.TypeID, 0, len(pl.Parameters))
	for _, p := range pl.Parameters {
		v, ok := ast.At[*ast.VariableDeclaration](dc.u, p)
		if !ok {
			continue
		}
		t := dc.typeName(v.TypeName)
		if dc.isMapping(t) {
			dc.errorf(diag.DeclMappingLocation, dc.u.Get(v.TypeName).Span(),
				"mapping types are only allowed for state variables")
			t = dc.in.Invalid()
		}
		dc.an.SetType(p, t)
		out = append(out, t)
	}
	return out
}

func (dc *declChecker) stateVariable(id ast.NodeID, v *ast.VariableDeclaration) {
	t := dc.typeName(v.TypeName)
	dc.an.SetType(id, t)
	if !dc.isMapping(t) {
		return
	}
	if v.Constant {
		dc.errorf(diag.DeclMappingConstant, v.NameSpan,
			"state variable %q of mapping type cannot be constant", v.Name)
	}
	if v.Value.IsValid() {
		dc.errorf(diag.DeclMappingInitial, v.NameSpan,
			"state variable %q of mapping type cannot have an initializer", v.Name)
	}
	if v.Visibility == ast.VisibilityPublic {
		dc.errorf(diag.DeclStateVarGetterArg, v.NameSpan,
			"state variable %q of mapping type cannot be public, its getter would take an argument", v.Name)
	}
}

func (dc *declChecker) locals(body ast.NodeID) {
	ast.Walk(dc.u, body, func(n ast.Node) bool {
		stmt, isLocal := n.(*ast.VariableDeclarationStatement)
		if !isLocal {
			return true
		}
		v, found := ast.At[*ast.VariableDeclaration](dc.u, stmt.Declaration)
		if !found {
			return true
		}
		t := dc.typeName(v.TypeName)
		if dc.isMapping(t) {
			dc.errorf(diag.DeclMappingLocation, dc.u.Get(v.TypeName).Span(),
				"mapping types are only allowed for state variables")
			t = dc.in.Invalid()
		}
		dc.an.SetType(stmt.Declaration, t)
		return true
	})
}

// typeName interns the type denoted by a type-name node. Errors yield the
// invalid type so dependent declarations still get an entry.
func (dc *declChecker) typeName(id ast.NodeID) types.TypeID {
	switch n := dc.u.Get(id).(type) {
	case *ast.ElementaryTypeName:
		t, ok := dc.in.Elementary(n.Name)
		if !ok {
			dc.errorf(diag.DeclNotAType, n.Span(), "%q does not name a type", n.Name)
			t = dc.in.Invalid()
		}
		dc.an.SetType(id, t)
		return t
	case *ast.MappingTypeName:
		key := dc.typeName(n.KeyType)
		if !dc.isElementaryKey(key) {
			dc.errorf(diag.DeclMappingKey, dc.u.Get(n.KeyType).Span(),
				"only elementary types can be mapping keys")
			key = dc.in.Invalid()
		}
		value := dc.typeName(n.ValueType)
		t := dc.in.Mapping(key, value)
		dc.an.SetType(id, t)
		return t
	case *ast.UserDefinedTypeName:
		decl := dc.an.RefOf(id)
		if contract, found := ast.At[*ast.ContractDefinition](dc.u, decl); found {
			t := dc.in.Contract(contract.Name, decl)
			dc.an.SetType(id, t)
			return t
		}
		dc.errorf(diag.DeclNotAType, n.Span(), "%q does not name a type", n.Name)
		return dc.in.Invalid()
	default:
		return dc.in.Invalid()
	}
}

func (dc *declChecker) isMapping(t types.TypeID) bool {
	tt := dc.in.Get(t)
	return tt != nil && tt.Kind == types.KindMapping
}

func (dc *declChecker) isElementaryKey(t types.TypeID) bool {
	tt := dc.in.Get(t)
	if tt == nil {
		return false
	}
	switch tt.Kind {
	case types.KindInteger, types.KindBool, types.KindAddress, types.KindString, types.KindBytes32:
		return true
	}
	return false
}
