package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/ymp/ymp"
	"github.com/dhamidi/ymp/ymp/parser"
)

var (
	_ Encoder = (*ReportEncoder)(nil)
	_ Encoder = (*JSONEncoder)(nil)
	_ Encoder = (*TokenLineEncoder)(nil)
)

func TestReportSymbols(t *testing.T) {
	res := ymp.Check("s.ymp", []byte("char g() { int n; return g; }"))

	enc := NewReportEncoder(nil)
	enc.Symbols = true
	enc.res = res
	text, err := enc.MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	got := string(text)
	wantTail := "\n=== SYMBOLS ===\ng\tfunction\tchar\t1\nn\tint\t-\t1\n"
	if !strings.HasSuffix(got, wantTail) {
		t.Errorf("got %q, want suffix %q", got, wantTail)
	}
	if !strings.Contains(got, "Semantic error at line 1: Cannot return function 'g'") {
		t.Errorf("missing semantic error in %q", got)
	}
}

func TestReportSyntaxOnly(t *testing.T) {
	res := ymp.Check("", []byte("int f() { int a; a = ; return a; }"))

	var buf bytes.Buffer
	if err := NewReportEncoder(&buf).Encode(res); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "SYNTAX ERRORS:\n") {
		t.Errorf("got %q", got)
	}
	for _, absent := range []string{"SEMANTIC", "No semantic", postfixHeader} {
		if strings.Contains(got, absent) {
			t.Errorf("report contains %q after syntax errors:\n%s", absent, got)
		}
	}
}

func TestJSONEncoder(t *testing.T) {
	res := ymp.Check("j.ymp", []byte("int f() { int a; a = 1; return a; }"))

	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(res); err != nil {
		t.Fatal(err)
	}

	var got jsonResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.File != "j.ymp" || !got.Analyzed {
		t.Errorf("got file %q analyzed %v", got.File, got.Analyzed)
	}
	if len(got.SyntaxErrors) != 0 || len(got.SemanticErrors) != 0 {
		t.Errorf("unexpected errors: %+v", got)
	}
	if len(got.Symbols) != 2 || got.Symbols[0].Returns != "int" || got.Symbols[1].Returns != "" {
		t.Errorf("symbols: %+v", got.Symbols)
	}
	if strings.Join(got.Postfix, "|") != "int a 2 decl|1 a =|a RETURN" {
		t.Errorf("postfix: %q", got.Postfix)
	}
}

func TestJSONEncoderSyntaxErrors(t *testing.T) {
	res := ymp.Check("j.ymp", []byte("int f() { int a; a = 1 return a; }"))

	enc := NewJSONEncoder(nil)
	enc.res = res
	text, err := enc.MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	var got jsonResult
	if err := json.Unmarshal(text, &got); err != nil {
		t.Fatal(err)
	}
	if got.Analyzed || got.Postfix != nil {
		t.Errorf("analysis output after syntax errors: %+v", got)
	}
	want := jsonSyntaxError{Line: 1, Column: 24, Message: "Expected SEMICOLON but found 'return'"}
	if len(got.SyntaxErrors) != 1 || got.SyntaxErrors[0] != want {
		t.Errorf("got %+v, want [%+v]", got.SyntaxErrors, want)
	}
}

func TestASTJSONEncoder(t *testing.T) {
	tree, _ := parser.Parse([]byte("int f() { int a; a = 1; return a; }"))

	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(tree); err != nil {
		t.Fatal(err)
	}

	var root astJSONNode
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatal(err)
	}
	if root.Label != "Function" || root.Line != 1 || root.Column != 1 {
		t.Errorf("root: %+v", root)
	}

	var labels []string
	var visit func(n *astJSONNode)
	visit = func(n *astJSONNode) {
		labels = append(labels, n.Label)
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(&root)
	if labels[0] != "Function" || labels[len(labels)-1] != "Id" {
		t.Errorf("labels: %v", labels)
	}
	if len(root.Children) != 4 {
		t.Errorf("got %d top-level children, want 4", len(root.Children))
	}
}

func TestASTJSONEncoderErrorNode(t *testing.T) {
	tree, _ := parser.Parse([]byte("float f() { return a; }"))

	text, err := NewASTJSONEncoder(nil).MarshalText(tree)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), `"label": "Error"`) {
		t.Errorf("no error node in\n%s", text)
	}
}

func TestTokenLineEncoder(t *testing.T) {
	res := ymp.Check("t.ymp", []byte("int f() {\n  return f;\n}"))

	var buf bytes.Buffer
	if err := NewTokenLineEncoder(&buf).Encode(res); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"0\tINT\tint\t1:1",
		"1\tID\tf\t1:5",
		"2\tLPAREN\t(\t1:6",
		"3\tRPAREN\t)\t1:7",
		"4\tLBRACE\t{\t1:9",
		"5\tRETURN\treturn\t2:3",
		"1\tID\tf\t2:10",
		"6\tSEMICOLON\t;\t2:11",
		"7\tRBRACE\t}\t3:1",
	}, "\n") + "\n"
	if got := buf.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}
