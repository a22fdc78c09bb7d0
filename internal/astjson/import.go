package astjson

import (
	"encoding/json"
	"fmt"

	"solfront/internal/ast"
	"solfront/internal/source"
)

// Import reconstructs an arena unit from a Parsed-stage document. Any
// structural problem (malformed JSON, a non-Parsed stage marker, a
// source-unit name mismatch, holes or duplicates in the id space) yields
// (nil, false). No diagnostics are synthesized: interchange failures are
// structural, not semantic. Semantic fields present in the document are
// discarded; the pipeline reconstructs them.
func Import(data []byte, sourceUnitName string) (*ast.Unit, bool) {
	var doc struct {
		Stage      Stage           `json:"stage"`
		SourceUnit json.RawMessage `json:"sourceUnit"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false
	}
	if doc.Stage != StageParsed || len(doc.SourceUnit) == 0 {
		return nil, false
	}

	// Ids must form a dense 1..N space, so the largest legal id is the
	// node count, and a node never costs less than one byte of input.
	// Bounding by the document length keeps a crafted id field from
	// growing the arena far beyond the document that claims it.
	imp := importer{unit: ast.NewUnit(sourceUnitName), maxID: uint32(min(len(data), 1<<31))}
	root, err := imp.node(doc.SourceUnit)
	if err != nil {
		return nil, false
	}
	if _, ok := ast.At[*ast.SourceUnit](imp.unit, root); !ok {
		return nil, false
	}
	if imp.rootPath != sourceUnitName {
		return nil, false
	}
	imp.unit.Root = root
	if !imp.unit.Complete() {
		return nil, false
	}
	return imp.unit, true
}

type importer struct {
	unit     *ast.Unit
	rootPath string
	maxID    uint32
}

type probe struct {
	NodeType string `json:"nodeType"`
	ID       uint32 `json:"id"`
	Src      string `json:"src"`
}

func (im *importer) place(n ast.Node, pr probe) (ast.NodeID, error) {
	if pr.ID > im.maxID {
		return ast.NoNode, fmt.Errorf("node id %d exceeds the document bound %d", pr.ID, im.maxID)
	}
	span, err := parseSrc(pr.Src)
	if err != nil {
		return ast.NoNode, err
	}
	n.SetSpan(span)
	if err := im.unit.AddWithID(n, ast.NodeID(pr.ID)); err != nil {
		return ast.NoNode, err
	}
	return ast.NodeID(pr.ID), nil
}

// nameLoc parses an optional name location; a missing or malformed one
// degrades to the empty span rather than failing the import.
func nameLoc(loc string) source.Span {
	if loc == "" {
		return source.Span{}
	}
	sp, err := parseSrc(loc)
	if err != nil {
		return source.Span{}
	}
	return sp
}

// maybeNode imports an optional child (nil or absent → NoNode).
func (im *importer) maybeNode(raw json.RawMessage) (ast.NodeID, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return ast.NoNode, nil
	}
	return im.node(raw)
}

func (im *importer) nodeList(raws []json.RawMessage) ([]ast.NodeID, error) {
	out := make([]ast.NodeID, 0, len(raws))
	for _, raw := range raws {
		id, err := im.node(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (im *importer) node(raw json.RawMessage) (ast.NodeID, error) {
	var pr probe
	if err := json.Unmarshal(raw, &pr); err != nil {
		return ast.NoNode, err
	}
	switch ast.KindFromString(pr.NodeType) {
	case ast.KindSourceUnit:
		var v struct {
			AbsolutePath string            `json:"absolutePath"`
			Nodes        []json.RawMessage `json:"nodes"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		im.rootPath = v.AbsolutePath
		nodes, err := im.nodeList(v.Nodes)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.SourceUnit{Nodes: nodes}, pr)

	case ast.KindPragmaDirective:
		var v struct {
			Literals []string `json:"literals"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.PragmaDirective{Literals: v.Literals}, pr)

	case ast.KindContractDefinition:
		var v struct {
			Name          string            `json:"name"`
			NameLoc       string            `json:"nameLocation"`
			ContractKind  string            `json:"contractKind"`
			Abstract      bool              `json:"abstract"`
			BaseContracts []json.RawMessage `json:"baseContracts"`
			Documentation json.RawMessage   `json:"documentation"`
			Nodes         []json.RawMessage `json:"nodes"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		bases, err := im.nodeList(v.BaseContracts)
		if err != nil {
			return ast.NoNode, err
		}
		doc, err := im.maybeNode(v.Documentation)
		if err != nil {
			return ast.NoNode, err
		}
		members, err := im.nodeList(v.Nodes)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.ContractDefinition{
			Name:         v.Name,
			NameSpan:     nameLoc(v.NameLoc),
			ContractKind: ast.ContractKindFromString(v.ContractKind),
			Abstract:     v.Abstract,
			Bases:        bases,
			Members:      members,
			Doc:          doc,
		}, pr)

	case ast.KindInheritanceSpecifier:
		var v struct {
			BaseName string `json:"baseName"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.InheritanceSpecifier{Name: v.BaseName}, pr)

	case ast.KindFunctionDefinition:
		var v struct {
			Name          string          `json:"name"`
			NameLoc       string          `json:"nameLocation"`
			FnKind        string          `json:"kind"`
			Visibility    string          `json:"visibility"`
			Mutability    string          `json:"stateMutability"`
			Virtual       bool            `json:"virtual"`
			Override      bool            `json:"override"`
			Documentation json.RawMessage `json:"documentation"`
			Parameters    json.RawMessage `json:"parameters"`
			Returns       json.RawMessage `json:"returnParameters"`
			Body          json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		doc, err := im.maybeNode(v.Documentation)
		if err != nil {
			return ast.NoNode, err
		}
		params, err := im.node(v.Parameters)
		if err != nil {
			return ast.NoNode, err
		}
		returns, err := im.node(v.Returns)
		if err != nil {
			return ast.NoNode, err
		}
		body, err := im.maybeNode(v.Body)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.FunctionDefinition{
			Name:       v.Name,
			NameSpan:   nameLoc(v.NameLoc),
			FnKind:     ast.FunctionKindFromString(v.FnKind),
			Visibility: ast.VisibilityFromString(v.Visibility),
			Mutability: ast.MutabilityFromString(v.Mutability),
			Virtual:    v.Virtual,
			Override:   v.Override,
			Params:     params,
			Returns:    returns,
			Body:       body,
			Doc:        doc,
		}, pr)

	case ast.KindParameterList:
		var v struct {
			Parameters []json.RawMessage `json:"parameters"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		params, err := im.nodeList(v.Parameters)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.ParameterList{Parameters: params}, pr)

	case ast.KindVariableDeclaration:
		var v struct {
			Name          string          `json:"name"`
			NameLoc       string          `json:"nameLocation"`
			TypeName      json.RawMessage `json:"typeName"`
			Visibility    string          `json:"visibility"`
			Constant      bool            `json:"constant"`
			StateVariable bool            `json:"stateVariable"`
			Documentation json.RawMessage `json:"documentation"`
			Value         json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		typeName, err := im.node(v.TypeName)
		if err != nil {
			return ast.NoNode, err
		}
		doc, err := im.maybeNode(v.Documentation)
		if err != nil {
			return ast.NoNode, err
		}
		value, err := im.maybeNode(v.Value)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.VariableDeclaration{
			Name:          v.Name,
			NameSpan:      nameLoc(v.NameLoc),
			TypeName:      typeName,
			Visibility:    ast.VisibilityFromString(v.Visibility),
			Constant:      v.Constant,
			StateVariable: v.StateVariable,
			Value:         value,
			Doc:           doc,
		}, pr)

	case ast.KindElementaryTypeName:
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.ElementaryTypeName{Name: v.Name}, pr)

	case ast.KindMappingTypeName:
		var v struct {
			KeyType   json.RawMessage `json:"keyType"`
			ValueType json.RawMessage `json:"valueType"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		key, err := im.node(v.KeyType)
		if err != nil {
			return ast.NoNode, err
		}
		value, err := im.node(v.ValueType)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.MappingTypeName{KeyType: key, ValueType: value}, pr)

	case ast.KindUserDefinedTypeName:
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.UserDefinedTypeName{Name: v.Name}, pr)

	case ast.KindStructuredDocumentation:
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.StructuredDocumentation{Text: v.Text}, pr)

	case ast.KindBlock:
		var v struct {
			Statements []json.RawMessage `json:"statements"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		stmts, err := im.nodeList(v.Statements)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.Block{Statements: stmts}, pr)

	case ast.KindVariableDeclarationStatement:
		var v struct {
			Declarations []json.RawMessage `json:"declarations"`
			InitialValue json.RawMessage   `json:"initialValue"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		if len(v.Declarations) != 1 {
			return ast.NoNode, fmt.Errorf("expected exactly one declaration, got %d", len(v.Declarations))
		}
		decl, err := im.node(v.Declarations[0])
		if err != nil {
			return ast.NoNode, err
		}
		value, err := im.maybeNode(v.InitialValue)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.VariableDeclarationStatement{Declaration: decl, Value: value}, pr)

	case ast.KindExpressionStatement:
		var v struct {
			Expression json.RawMessage `json:"expression"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		expr, err := im.node(v.Expression)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.ExpressionStatement{Expression: expr}, pr)

	case ast.KindIfStatement:
		var v struct {
			Condition json.RawMessage `json:"condition"`
			TrueBody  json.RawMessage `json:"trueBody"`
			FalseBody json.RawMessage `json:"falseBody"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		cond, err := im.node(v.Condition)
		if err != nil {
			return ast.NoNode, err
		}
		trueBody, err := im.node(v.TrueBody)
		if err != nil {
			return ast.NoNode, err
		}
		falseBody, err := im.maybeNode(v.FalseBody)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.IfStatement{Condition: cond, TrueBody: trueBody, FalseBody: falseBody}, pr)

	case ast.KindWhileStatement:
		var v struct {
			Condition json.RawMessage `json:"condition"`
			Body      json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		cond, err := im.node(v.Condition)
		if err != nil {
			return ast.NoNode, err
		}
		body, err := im.node(v.Body)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.WhileStatement{Condition: cond, Body: body}, pr)

	case ast.KindReturnStatement:
		var v struct {
			Expression json.RawMessage `json:"expression"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		expr, err := im.maybeNode(v.Expression)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.ReturnStatement{Expression: expr}, pr)

	case ast.KindBreakStatement:
		return im.place(&ast.BreakStatement{}, pr)

	case ast.KindContinueStatement:
		return im.place(&ast.ContinueStatement{}, pr)

	case ast.KindAssignment:
		var v struct {
			Operator string          `json:"operator"`
			LHS      json.RawMessage `json:"leftHandSide"`
			RHS      json.RawMessage `json:"rightHandSide"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		lhs, err := im.node(v.LHS)
		if err != nil {
			return ast.NoNode, err
		}
		rhs, err := im.node(v.RHS)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.Assignment{Operator: v.Operator, LHS: lhs, RHS: rhs}, pr)

	case ast.KindBinaryOperation:
		var v struct {
			Operator string          `json:"operator"`
			Left     json.RawMessage `json:"leftExpression"`
			Right    json.RawMessage `json:"rightExpression"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		left, err := im.node(v.Left)
		if err != nil {
			return ast.NoNode, err
		}
		right, err := im.node(v.Right)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.BinaryOperation{Operator: v.Operator, Left: left, Right: right}, pr)

	case ast.KindUnaryOperation:
		var v struct {
			Operator string          `json:"operator"`
			Prefix   bool            `json:"prefix"`
			Sub      json.RawMessage `json:"subExpression"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		sub, err := im.node(v.Sub)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.UnaryOperation{Operator: v.Operator, Prefix: v.Prefix, Sub: sub}, pr)

	case ast.KindFunctionCall:
		var v struct {
			Expression json.RawMessage   `json:"expression"`
			Arguments  []json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		expr, err := im.node(v.Expression)
		if err != nil {
			return ast.NoNode, err
		}
		args, err := im.nodeList(v.Arguments)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.FunctionCall{Expression: expr, Arguments: args}, pr)

	case ast.KindNewExpression:
		var v struct {
			TypeName json.RawMessage `json:"typeName"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		typeName, err := im.node(v.TypeName)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.NewExpression{TypeName: typeName}, pr)

	case ast.KindMemberAccess:
		var v struct {
			Expression json.RawMessage `json:"expression"`
			MemberName string          `json:"memberName"`
			MemberLoc  string          `json:"memberLocation"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		expr, err := im.node(v.Expression)
		if err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.MemberAccess{Expression: expr, Member: v.MemberName, MemberSpan: nameLoc(v.MemberLoc)}, pr)

	case ast.KindIdentifier:
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.Identifier{Name: v.Name}, pr)

	case ast.KindLiteral:
		var v struct {
			LitKind string `json:"kind"`
			Value   string `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return ast.NoNode, err
		}
		return im.place(&ast.Literal{LitKind: ast.LiteralKindFromString(v.LitKind), Value: v.Value}, pr)

	default:
		return ast.NoNode, fmt.Errorf("unknown node type %q", pr.NodeType)
	}
}
