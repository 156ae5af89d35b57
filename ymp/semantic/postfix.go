package semantic

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/ymp/ymp/parser"
)

// GeneratePostfix writes the postfix trace of tree to w, one line per
// declaration group, assignment and return. It does not depend on the
// outcome of Analyze.
func (a *Analyzer) GeneratePostfix(tree *parser.Function, w io.Writer) error {
	for _, line := range Postfix(tree) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write postfix: %w", err)
		}
	}
	return nil
}

// Postfix returns the postfix trace lines of tree:
//
//	int a b 3 decl
//	a 2 + b =
//	b RETURN
func Postfix(tree *parser.Function) []string {
	if tree == nil {
		return nil
	}

	var lines []string
	if tree.Descriptions != nil {
		for _, descr := range tree.Descriptions.List {
			if line, ok := declLine(descr); ok {
				lines = append(lines, line)
			}
		}
	}

	if tree.Operators != nil {
		for _, op := range tree.Operators.List {
			if op.Target == nil || op.Value == nil {
				continue
			}
			var words []string
			postfixExpr(op.Value, &words)
			words = append(words, op.Target.Name(), "=")
			lines = append(lines, strings.Join(words, " "))
		}
	}

	if tree.End != nil && tree.End.Result != nil {
		lines = append(lines, tree.End.Result.Name()+" RETURN")
	}
	return lines
}

func declLine(descr *parser.Descr) (string, bool) {
	if descr.Vars == nil || len(descr.Vars.Ids) == 0 {
		return "", false
	}
	kind := "int"
	if descr.Type != nil && descr.Type.Keyword != nil && descr.Type.Keyword.Kind == parser.TokenChar {
		kind = "char"
	}

	words := []string{kind}
	for _, id := range descr.Vars.Ids {
		words = append(words, id.Name())
	}
	words = append(words, strconv.Itoa(len(descr.Vars.Ids)+1), "decl")
	return strings.Join(words, " "), true
}

// postfixExpr emits binary nodes as left, right, operator. String
// concatenation is always rendered as "+". Any other shape emits its
// children in order.
func postfixExpr(n parser.Node, out *[]string) {
	switch n := n.(type) {
	case *parser.Ident:
		*out = append(*out, n.Token.Text)
	case *parser.Const:
		*out = append(*out, n.Token.Text)
	case *parser.CharConst:
		*out = append(*out, requote(n.Token.Text))
	case *parser.Operator:
		*out = append(*out, n.Token.Text)
	case *parser.NumExpr:
		if n.X != nil && n.Op != nil && n.Y != nil {
			postfixExpr(n.X, out)
			postfixExpr(n.Y, out)
			postfixExpr(n.Op, out)
			return
		}
		postfixChildren(n, out)
	case *parser.StringExpr:
		if n.X != nil && n.Op != nil && n.Y != nil {
			postfixExpr(n.X, out)
			postfixExpr(n.Y, out)
			*out = append(*out, "+")
			return
		}
		postfixChildren(n, out)
	default:
		postfixChildren(n, out)
	}
}

func postfixChildren(n parser.Node, out *[]string) {
	for _, child := range n.Children() {
		postfixExpr(child, out)
	}
}

// requote re-emits a string literal with its delimiters and the interior
// kept verbatim.
func requote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return `"` + text[1:len(text)-1] + `"`
	}
	return text
}
