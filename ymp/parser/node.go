package parser

import "strings"

type Label int

const (
	LabelError Label = iota
	LabelFunction
	LabelBegin
	LabelFunctionName
	LabelDescriptions
	LabelDescr
	LabelVarList
	LabelType
	LabelOperators
	LabelOp
	LabelNumExpr
	LabelStringExpr
	LabelSimpleStringExpr
	LabelId
	LabelConst
	LabelCharConst
	LabelPlus
	LabelMinus
	LabelEnd
)

var labelNames = map[Label]string{
	LabelError:            "Error",
	LabelFunction:         "Function",
	LabelBegin:            "Begin",
	LabelFunctionName:     "FunctionName",
	LabelDescriptions:     "Descriptions",
	LabelDescr:            "Descr",
	LabelVarList:          "VarList",
	LabelType:             "Type",
	LabelOperators:        "Operators",
	LabelOp:               "Op",
	LabelNumExpr:          "NumExpr",
	LabelStringExpr:       "StringExpr",
	LabelSimpleStringExpr: "SimpleStringExpr",
	LabelId:               "Id",
	LabelConst:            "Const",
	LabelCharConst:        "CharConst",
	LabelPlus:             "Plus",
	LabelMinus:            "Minus",
	LabelEnd:              "End",
}

func (l Label) String() string {
	if name, ok := labelNames[l]; ok {
		return name
	}
	return "Unknown"
}

// Labels returns every label in declaration order.
func Labels() []Label {
	labels := make([]Label, 0, len(labelNames))
	for l := LabelError; l <= LabelEnd; l++ {
		labels = append(labels, l)
	}
	return labels
}

// Node is implemented by one struct per grammar production. Children are
// owned exclusively by their parent; the tree has no sharing.
type Node interface {
	Label() Label
	Pos() Position
	Children() []Node
}

// Expr is a node that may appear on the right of an assignment or inside a
// numeric or string expression.
type Expr interface {
	Node
	exprNode()
}

type Function struct {
	Start        Position
	Begin        *Begin
	Descriptions *Descriptions
	Operators    *Operators
	End          *End
}

type Begin struct {
	Start Position
	Type  *Type
	Name  *FunctionName
}

type FunctionName struct {
	Start Position
	Id    *Ident // nil when the name is missing
}

type Descriptions struct {
	Start Position
	List  []*Descr
}

type Descr struct {
	Start Position
	Type  *Type
	Vars  *VarList
}

type VarList struct {
	Start Position
	Ids   []*Ident
}

// Type holds either the int/char keyword token or, for an unknown type
// name, an error leaf. Both are nil when no type token was present.
type Type struct {
	Start   Position
	Keyword *Token
	Bad     *ErrorNode
}

type Operators struct {
	Start Position
	List  []*Op
}

// Op is one assignment. Target is nil when the left-hand identifier was
// missing; Value is nil when no right-hand side was parsed.
type Op struct {
	Start  Position
	Target *Ident
	Value  Expr
}

// NumExpr is either a pass-through wrapper around X (Op and Y nil), a
// binary node X Op Y, or a truncated binary node X Op when the right
// operand was missing.
type NumExpr struct {
	Start Position
	X     Expr
	Op    *Operator
	Y     Expr
}

// StringExpr has the same shapes as NumExpr with Op always a Plus.
type StringExpr struct {
	Start Position
	X     Expr
	Op    *Operator
	Y     Expr
}

type SimpleStringExpr struct {
	Start Position
	Value Expr // *CharConst, *ErrorNode or nil
}

type Ident struct {
	Token Token
}

type Const struct {
	Token Token
}

type CharConst struct {
	Token Token
}

// Operator is a Plus or Minus leaf.
type Operator struct {
	Token Token
}

type ErrorNode struct {
	Token   Token
	Message string
}

type End struct {
	Start  Position
	Result *Ident // nil when return was missing or had no identifier
}

func (*Function) Label() Label         { return LabelFunction }
func (*Begin) Label() Label            { return LabelBegin }
func (*FunctionName) Label() Label     { return LabelFunctionName }
func (*Descriptions) Label() Label     { return LabelDescriptions }
func (*Descr) Label() Label            { return LabelDescr }
func (*VarList) Label() Label          { return LabelVarList }
func (*Type) Label() Label             { return LabelType }
func (*Operators) Label() Label        { return LabelOperators }
func (*Op) Label() Label               { return LabelOp }
func (*NumExpr) Label() Label          { return LabelNumExpr }
func (*StringExpr) Label() Label       { return LabelStringExpr }
func (*SimpleStringExpr) Label() Label { return LabelSimpleStringExpr }
func (*Ident) Label() Label            { return LabelId }
func (*Const) Label() Label            { return LabelConst }
func (*CharConst) Label() Label        { return LabelCharConst }
func (*ErrorNode) Label() Label        { return LabelError }
func (*End) Label() Label              { return LabelEnd }

func (o *Operator) Label() Label {
	if o.Token.Kind == TokenMinus {
		return LabelMinus
	}
	return LabelPlus
}

func (n *Function) Pos() Position         { return n.Start }
func (n *Begin) Pos() Position            { return n.Start }
func (n *FunctionName) Pos() Position     { return n.Start }
func (n *Descriptions) Pos() Position     { return n.Start }
func (n *Descr) Pos() Position            { return n.Start }
func (n *VarList) Pos() Position          { return n.Start }
func (n *Type) Pos() Position             { return n.Start }
func (n *Operators) Pos() Position        { return n.Start }
func (n *Op) Pos() Position               { return n.Start }
func (n *NumExpr) Pos() Position          { return n.Start }
func (n *StringExpr) Pos() Position       { return n.Start }
func (n *SimpleStringExpr) Pos() Position { return n.Start }
func (n *Ident) Pos() Position            { return n.Token.Pos }
func (n *Const) Pos() Position            { return n.Token.Pos }
func (n *CharConst) Pos() Position        { return n.Token.Pos }
func (n *Operator) Pos() Position         { return n.Token.Pos }
func (n *ErrorNode) Pos() Position        { return n.Token.Pos }
func (n *End) Pos() Position              { return n.Start }

func (*NumExpr) exprNode()          {}
func (*StringExpr) exprNode()       {}
func (*SimpleStringExpr) exprNode() {}
func (*Ident) exprNode()            {}
func (*Const) exprNode()            {}
func (*CharConst) exprNode()        {}
func (*ErrorNode) exprNode()        {}

func (n *Function) Children() []Node {
	var children []Node
	if n.Begin != nil {
		children = append(children, n.Begin)
	}
	if n.Descriptions != nil {
		children = append(children, n.Descriptions)
	}
	if n.Operators != nil {
		children = append(children, n.Operators)
	}
	if n.End != nil {
		children = append(children, n.End)
	}
	return children
}

func (n *Begin) Children() []Node {
	var children []Node
	if n.Type != nil {
		children = append(children, n.Type)
	}
	if n.Name != nil {
		children = append(children, n.Name)
	}
	return children
}

func (n *FunctionName) Children() []Node {
	if n.Id == nil {
		return nil
	}
	return []Node{n.Id}
}

func (n *Descriptions) Children() []Node {
	children := make([]Node, 0, len(n.List))
	for _, d := range n.List {
		children = append(children, d)
	}
	return children
}

func (n *Descr) Children() []Node {
	var children []Node
	if n.Type != nil {
		children = append(children, n.Type)
	}
	if n.Vars != nil {
		children = append(children, n.Vars)
	}
	return children
}

func (n *VarList) Children() []Node {
	children := make([]Node, 0, len(n.Ids))
	for _, id := range n.Ids {
		children = append(children, id)
	}
	return children
}

// Children of a Type has no node for the keyword; it is carried by the
// Type itself.
func (n *Type) Children() []Node {
	if n.Bad != nil {
		return []Node{n.Bad}
	}
	return nil
}

func (n *Operators) Children() []Node {
	children := make([]Node, 0, len(n.List))
	for _, op := range n.List {
		children = append(children, op)
	}
	return children
}

func (n *Op) Children() []Node {
	var children []Node
	if n.Target != nil {
		children = append(children, n.Target)
	}
	if n.Value != nil {
		children = append(children, n.Value)
	}
	return children
}

func (n *NumExpr) Children() []Node {
	return binaryChildren(n.X, n.Op, n.Y)
}

func (n *StringExpr) Children() []Node {
	return binaryChildren(n.X, n.Op, n.Y)
}

func binaryChildren(x Expr, op *Operator, y Expr) []Node {
	var children []Node
	if x != nil {
		children = append(children, x)
	}
	if op != nil {
		children = append(children, op)
	}
	if y != nil {
		children = append(children, y)
	}
	return children
}

func (n *SimpleStringExpr) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}

func (*Ident) Children() []Node     { return nil }
func (*Const) Children() []Node     { return nil }
func (*CharConst) Children() []Node { return nil }
func (*Operator) Children() []Node  { return nil }
func (*ErrorNode) Children() []Node { return nil }

func (n *End) Children() []Node {
	if n.Result == nil {
		return nil
	}
	return []Node{n.Result}
}

// TokenOf returns the lexical token carried by a leaf-like node.
func TokenOf(n Node) *Token {
	switch n := n.(type) {
	case *Ident:
		return &n.Token
	case *Const:
		return &n.Token
	case *CharConst:
		return &n.Token
	case *Operator:
		return &n.Token
	case *ErrorNode:
		return &n.Token
	case *Type:
		return n.Keyword
	}
	return nil
}

// Name returns the identifier text, or "" for a nil identifier.
func (n *Ident) Name() string {
	if n == nil {
		return ""
	}
	return n.Token.Text
}

// Walk calls fn for n and every descendant in depth-first order. If fn
// returns false the children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, fn)
	}
}

func String(n Node) string {
	var sb strings.Builder
	writeIndent(&sb, n, 0)
	return sb.String()
}

func writeIndent(sb *strings.Builder, n Node, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Label().String())
	if tok := TokenOf(n); tok != nil {
		sb.WriteString(" ")
		sb.WriteString(tok.Text)
	}
	if e, ok := n.(*ErrorNode); ok && e.Message != "" {
		sb.WriteString(" ERROR: ")
		sb.WriteString(e.Message)
	}
	sb.WriteString("\n")
	for _, child := range n.Children() {
		writeIndent(sb, child, indent+1)
	}
}
