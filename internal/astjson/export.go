package astjson

import (
	"encoding/json"
	"fmt"

	"solfront/internal/annot"
	"solfront/internal/ast"
	"solfront/internal/callgraph"
	"solfront/internal/types"
)

// document is the interchange envelope.
type document struct {
	Stage      Stage `json:"stage"`
	SourceUnit any   `json:"sourceUnit"`
}

type sourceUnitJSON struct {
	header
	AbsolutePath string `json:"absolutePath"`
	Nodes        []any  `json:"nodes"`
}

type pragmaJSON struct {
	header
	Literals []string `json:"literals"`
}

type contractJSON struct {
	header
	Name          string            `json:"name"`
	NameLoc       string            `json:"nameLocation"`
	ContractKind  string            `json:"contractKind"`
	Abstract      bool              `json:"abstract"`
	BaseContracts []any             `json:"baseContracts,omitempty"`
	Documentation any               `json:"documentation,omitempty"`
	Nodes         []any             `json:"nodes"`
	Scope         uint32            `json:"scope,omitempty"`
	Linearized    []uint32          `json:"linearizedBaseContracts,omitempty"`
	FullyImpl     *bool             `json:"fullyImplemented,omitempty"`
	CreationGraph *callGraphJSON    `json:"creationCallGraph,omitempty"`
	DeployedGraph *callGraphJSON    `json:"deployedCallGraph,omitempty"`
	TypeDesc      *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type inheritanceJSON struct {
	header
	BaseName string `json:"baseName"`
	RefDecl  uint32 `json:"referencedDeclaration,omitempty"`
}

type functionJSON struct {
	header
	Name          string            `json:"name"`
	NameLoc       string            `json:"nameLocation"`
	FnKind        string            `json:"kind"`
	Visibility    string            `json:"visibility"`
	Mutability    string            `json:"stateMutability"`
	Virtual       bool              `json:"virtual"`
	Override      bool              `json:"override"`
	Documentation any               `json:"documentation,omitempty"`
	Parameters    any               `json:"parameters"`
	Returns       any               `json:"returnParameters"`
	Body          any               `json:"body,omitempty"`
	Scope         uint32            `json:"scope,omitempty"`
	TypeDesc      *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type paramListJSON struct {
	header
	Parameters []any `json:"parameters"`
}

type variableJSON struct {
	header
	Name          string            `json:"name"`
	NameLoc       string            `json:"nameLocation"`
	TypeName      any               `json:"typeName"`
	Visibility    string            `json:"visibility"`
	Constant      bool              `json:"constant"`
	StateVariable bool              `json:"stateVariable"`
	Documentation any               `json:"documentation,omitempty"`
	Value         any               `json:"value,omitempty"`
	Scope         uint32            `json:"scope,omitempty"`
	TypeDesc      *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type elementaryTypeJSON struct {
	header
	Name     string            `json:"name"`
	TypeDesc *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type mappingTypeJSON struct {
	header
	KeyType   any               `json:"keyType"`
	ValueType any               `json:"valueType"`
	TypeDesc  *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type userTypeJSON struct {
	header
	Name     string            `json:"name"`
	RefDecl  uint32            `json:"referencedDeclaration,omitempty"`
	TypeDesc *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type docJSON struct {
	header
	Text string `json:"text"`
}

type blockJSON struct {
	header
	Statements []any `json:"statements"`
}

type varDeclStmtJSON struct {
	header
	Declarations []any `json:"declarations"`
	InitialValue any   `json:"initialValue,omitempty"`
}

type exprStmtJSON struct {
	header
	Expression any `json:"expression"`
}

type ifJSON struct {
	header
	Condition any `json:"condition"`
	TrueBody  any `json:"trueBody"`
	FalseBody any `json:"falseBody,omitempty"`
}

type whileJSON struct {
	header
	Condition any `json:"condition"`
	Body      any `json:"body"`
}

type returnJSON struct {
	header
	Expression any `json:"expression,omitempty"`
}

type bareStmtJSON struct {
	header
}

type assignmentJSON struct {
	header
	Operator string            `json:"operator"`
	LHS      any               `json:"leftHandSide"`
	RHS      any               `json:"rightHandSide"`
	TypeDesc *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type binaryJSON struct {
	header
	Operator string            `json:"operator"`
	Left     any               `json:"leftExpression"`
	Right    any               `json:"rightExpression"`
	TypeDesc *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type unaryJSON struct {
	header
	Operator string            `json:"operator"`
	Prefix   bool              `json:"prefix"`
	Sub      any               `json:"subExpression"`
	TypeDesc *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type callJSON struct {
	header
	Expression any               `json:"expression"`
	Arguments  []any             `json:"arguments"`
	TypeDesc   *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type newJSON struct {
	header
	TypeName any               `json:"typeName"`
	TypeDesc *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type memberJSON struct {
	header
	Expression any               `json:"expression"`
	MemberName string            `json:"memberName"`
	MemberLoc  string            `json:"memberLocation"`
	RefDecl    uint32            `json:"referencedDeclaration,omitempty"`
	TypeDesc   *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type identifierJSON struct {
	header
	Name      string            `json:"name"`
	RefDecl   uint32            `json:"referencedDeclaration,omitempty"`
	Overloads []uint32          `json:"overloadedDeclarations,omitempty"`
	TypeDesc  *typeDescriptions `json:"typeDescriptions,omitempty"`
}

type literalJSON struct {
	header
	LitKind  string            `json:"kind"`
	Value    string            `json:"value"`
	TypeDesc *typeDescriptions `json:"typeDescriptions,omitempty"`
}

// exporter walks the arena and builds the export object graph.
type exporter struct {
	unit    *ast.Unit
	annots  *annot.Annotations
	interns *types.Interner
	stage   Stage
}

// Export serializes the unit at the given stage. At StageParsed no semantic
// fields are emitted; annots and interner may be nil then. Output is
// deterministic: the same tree and annotations always yield identical bytes.
func Export(u *ast.Unit, an *annot.Annotations, in *types.Interner, stage Stage, compact bool) ([]byte, error) {
	if u == nil || !u.Root.IsValid() {
		return nil, fmt.Errorf("no source unit to export")
	}
	if stage != StageParsed && stage != StageAnalysisSuccessful {
		return nil, fmt.Errorf("unknown export stage %q", stage)
	}
	if stage == StageAnalysisSuccessful && (an == nil || in == nil) {
		return nil, fmt.Errorf("analysis export requires annotations")
	}
	ex := exporter{unit: u, annots: an, interns: in, stage: stage}
	doc := document{Stage: stage, SourceUnit: ex.node(u.Root)}
	if compact {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (ex *exporter) semantic() bool { return ex.stage == StageAnalysisSuccessful }

func (ex *exporter) header(n ast.Node) header {
	return header{
		NodeType: n.Kind().String(),
		ID:       uint32(n.ID()),
		Src:      formatSrc(n.Span()),
	}
}

func (ex *exporter) scope(id ast.NodeID) uint32 {
	if !ex.semantic() {
		return 0
	}
	return uint32(ex.annots.Scopes[id])
}

func (ex *exporter) ref(id ast.NodeID) uint32 {
	if !ex.semantic() {
		return 0
	}
	return uint32(ex.annots.RefOf(id))
}

func (ex *exporter) typeDesc(id ast.NodeID) *typeDescriptions {
	if !ex.semantic() {
		return nil
	}
	t := ex.annots.TypeOf(id)
	if !t.IsValid() {
		return nil
	}
	return &typeDescriptions{TypeString: ex.interns.String(t)}
}

func (ex *exporter) maybe(id ast.NodeID) any {
	if !id.IsValid() {
		return nil
	}
	return ex.node(id)
}

func (ex *exporter) list(ids []ast.NodeID) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, ex.node(id))
	}
	return out
}

func (ex *exporter) graph(g *callgraph.Graph) *callGraphJSON {
	if g == nil {
		return nil
	}
	out := &callGraphJSON{Nodes: make([]uint32, 0, len(g.Nodes))}
	for _, n := range g.Nodes {
		out.Nodes = append(out.Nodes, uint32(n))
	}
	for _, from := range g.Nodes {
		for _, to := range g.Callees(from) {
			out.Edges = append(out.Edges, callEdgeJSON{From: uint32(from), To: uint32(to)})
		}
	}
	return out
}

func (ex *exporter) node(id ast.NodeID) any {
	n := ex.unit.Get(id)
	switch n := n.(type) {
	case *ast.SourceUnit:
		return &sourceUnitJSON{
			header:       ex.header(n),
			AbsolutePath: ex.unit.Name,
			Nodes:        ex.list(n.Nodes),
		}
	case *ast.PragmaDirective:
		return &pragmaJSON{header: ex.header(n), Literals: n.Literals}
	case *ast.ContractDefinition:
		out := &contractJSON{
			header:        ex.header(n),
			Name:          n.Name,
			NameLoc:       formatSrc(n.NameSpan),
			ContractKind:  n.ContractKind.String(),
			Abstract:      n.Abstract,
			BaseContracts: ex.list(n.Bases),
			Documentation: ex.maybe(n.Doc),
			Nodes:         ex.list(n.Members),
			Scope:         ex.scope(id),
			TypeDesc:      ex.typeDesc(id),
		}
		if ex.semantic() {
			for _, lin := range ex.annots.Linearized[id] {
				out.Linearized = append(out.Linearized, uint32(lin))
			}
			if impl, ok := ex.annots.FullyImplemented[id]; ok {
				out.FullyImpl = &impl
			}
			if graphs := ex.annots.Graphs[id]; graphs != nil {
				out.CreationGraph = ex.graph(graphs.Creation)
				out.DeployedGraph = ex.graph(graphs.Deployed)
			}
		}
		return out
	case *ast.InheritanceSpecifier:
		return &inheritanceJSON{header: ex.header(n), BaseName: n.Name, RefDecl: ex.ref(id)}
	case *ast.FunctionDefinition:
		return &functionJSON{
			header:        ex.header(n),
			Name:          n.Name,
			NameLoc:       formatSrc(n.NameSpan),
			FnKind:        n.FnKind.String(),
			Visibility:    n.Visibility.String(),
			Mutability:    n.Mutability.String(),
			Virtual:       n.Virtual,
			Override:      n.Override,
			Documentation: ex.maybe(n.Doc),
			Parameters:    ex.node(n.Params),
			Returns:       ex.node(n.Returns),
			Body:          ex.maybe(n.Body),
			Scope:         ex.scope(id),
			TypeDesc:      ex.typeDesc(id),
		}
	case *ast.ParameterList:
		return &paramListJSON{header: ex.header(n), Parameters: ex.list(n.Parameters)}
	case *ast.VariableDeclaration:
		return &variableJSON{
			header:        ex.header(n),
			Name:          n.Name,
			NameLoc:       formatSrc(n.NameSpan),
			TypeName:      ex.node(n.TypeName),
			Visibility:    n.Visibility.String(),
			Constant:      n.Constant,
			StateVariable: n.StateVariable,
			Documentation: ex.maybe(n.Doc),
			Value:         ex.maybe(n.Value),
			Scope:         ex.scope(id),
			TypeDesc:      ex.typeDesc(id),
		}
	case *ast.ElementaryTypeName:
		return &elementaryTypeJSON{header: ex.header(n), Name: n.Name, TypeDesc: ex.typeDesc(id)}
	case *ast.MappingTypeName:
		return &mappingTypeJSON{
			header:    ex.header(n),
			KeyType:   ex.node(n.KeyType),
			ValueType: ex.node(n.ValueType),
			TypeDesc:  ex.typeDesc(id),
		}
	case *ast.UserDefinedTypeName:
		return &userTypeJSON{
			header:   ex.header(n),
			Name:     n.Name,
			RefDecl:  ex.ref(id),
			TypeDesc: ex.typeDesc(id),
		}
	case *ast.StructuredDocumentation:
		return &docJSON{header: ex.header(n), Text: n.Text}
	case *ast.Block:
		return &blockJSON{header: ex.header(n), Statements: ex.list(n.Statements)}
	case *ast.VariableDeclarationStatement:
		return &varDeclStmtJSON{
			header:       ex.header(n),
			Declarations: ex.list([]ast.NodeID{n.Declaration}),
			InitialValue: ex.maybe(n.Value),
		}
	case *ast.ExpressionStatement:
		return &exprStmtJSON{header: ex.header(n), Expression: ex.node(n.Expression)}
	case *ast.IfStatement:
		return &ifJSON{
			header:    ex.header(n),
			Condition: ex.node(n.Condition),
			TrueBody:  ex.node(n.TrueBody),
			FalseBody: ex.maybe(n.FalseBody),
		}
	case *ast.WhileStatement:
		return &whileJSON{header: ex.header(n), Condition: ex.node(n.Condition), Body: ex.node(n.Body)}
	case *ast.ReturnStatement:
		return &returnJSON{header: ex.header(n), Expression: ex.maybe(n.Expression)}
	case *ast.BreakStatement, *ast.ContinueStatement:
		return &bareStmtJSON{header: ex.header(n)}
	case *ast.Assignment:
		return &assignmentJSON{
			header:   ex.header(n),
			Operator: n.Operator,
			LHS:      ex.node(n.LHS),
			RHS:      ex.node(n.RHS),
			TypeDesc: ex.typeDesc(id),
		}
	case *ast.BinaryOperation:
		return &binaryJSON{
			header:   ex.header(n),
			Operator: n.Operator,
			Left:     ex.node(n.Left),
			Right:    ex.node(n.Right),
			TypeDesc: ex.typeDesc(id),
		}
	case *ast.UnaryOperation:
		return &unaryJSON{
			header:   ex.header(n),
			Operator: n.Operator,
			Prefix:   n.Prefix,
			Sub:      ex.node(n.Sub),
			TypeDesc: ex.typeDesc(id),
		}
	case *ast.FunctionCall:
		return &callJSON{
			header:     ex.header(n),
			Expression: ex.node(n.Expression),
			Arguments:  ex.list(n.Arguments),
			TypeDesc:   ex.typeDesc(id),
		}
	case *ast.NewExpression:
		return &newJSON{header: ex.header(n), TypeName: ex.node(n.TypeName), TypeDesc: ex.typeDesc(id)}
	case *ast.MemberAccess:
		out := &memberJSON{
			header:     ex.header(n),
			Expression: ex.node(n.Expression),
			MemberName: n.Member,
			MemberLoc:  formatSrc(n.MemberSpan),
			RefDecl:    ex.ref(id),
			TypeDesc:   ex.typeDesc(id),
		}
		return out
	case *ast.Identifier:
		out := &identifierJSON{
			header:   ex.header(n),
			Name:     n.Name,
			RefDecl:  ex.ref(id),
			TypeDesc: ex.typeDesc(id),
		}
		if ex.semantic() {
			for _, cand := range ex.annots.Overloads[id] {
				out.Overloads = append(out.Overloads, uint32(cand))
			}
		}
		return out
	case *ast.Literal:
		return &literalJSON{
			header:   ex.header(n),
			LitKind:  n.LitKind.String(),
			Value:    n.Value,
			TypeDesc: ex.typeDesc(id),
		}
	default:
		return nil
	}
}
