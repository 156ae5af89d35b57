package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/ymp/ymp/parser"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *ASTJSONEncoder) MarshalText(node parser.Node) ([]byte, error) {
	return json.MarshalIndent(nodeToJSON(node), "", "  ")
}

type astJSONNode struct {
	Label    string         `json:"label"`
	Token    string         `json:"token,omitempty"`
	Line     int            `json:"line,omitempty"`
	Column   int            `json:"column,omitempty"`
	Error    string         `json:"error,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

func nodeToJSON(n parser.Node) *astJSONNode {
	pos := n.Pos()
	jn := &astJSONNode{
		Label:  n.Label().String(),
		Line:   pos.Line,
		Column: pos.Column,
	}

	if tok := parser.TokenOf(n); tok != nil {
		jn.Token = tok.Text
	}

	if e, ok := n.(*parser.ErrorNode); ok {
		jn.Error = e.Message
	}

	children := n.Children()
	if len(children) > 0 {
		jn.Children = make([]*astJSONNode, len(children))
		for i, child := range children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}
