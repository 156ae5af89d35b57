package grammar

import (
	"strings"
	"testing"

	"github.com/dhamidi/ymp/ymp/parser"
)

func TestLoad(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := g[Start]; !ok {
		t.Errorf("grammar has no %s production", Start)
	}
}

// Every tree label except the leaves the parser synthesizes has a
// production of the same name.
func TestLabelsHaveProductions(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	synthesized := map[parser.Label]bool{
		parser.LabelError: true,
		parser.LabelPlus:  true,
		parser.LabelMinus: true,
	}
	for _, l := range parser.Labels() {
		if synthesized[l] {
			continue
		}
		if _, ok := g[l.String()]; !ok {
			t.Errorf("no production for label %s", l)
		}
	}
}

func TestParseRejectsUnreachable(t *testing.T) {
	src := `
		Start = "a" .
		Orphan = "b" .
	`
	if _, err := Parse("bad.ebnf", strings.NewReader(src), "Start"); err == nil {
		t.Error("expected a verification error")
	}
	if _, err := Parse("bad.ebnf", strings.NewReader(src), ""); err != nil {
		t.Errorf("syntax-only parse failed: %v", err)
	}
}

func TestSourceIsACopy(t *testing.T) {
	a := Source()
	a[0] = '#'
	if Source()[0] == '#' {
		t.Error("Source exposes the embedded bytes")
	}
}

// The hand-written parser reports syntax errors exactly for the inputs the
// grammar rejects.
func TestParserAgreesWithGrammar(t *testing.T) {
	tests := []string{
		"int f() { return a; }",
		"int f() { int a; a = 1; return a; }",
		"int f() { int a, b; a = b - 2 - (a + 3); return a; }",
		`char f() { char s; s = "x" + "y" + ""; return s; }`,
		"char g() { int x; char c; x = ((x)); return c; }",
		"int f() { int a; a = 1 return a; }",
		"int f() { int a; a = ; return a; }",
		"int f() { int a; a = 1 +; return a; }",
		"int f() { int a; = 1; return a; }",
		"int f( { return a; }",
		"float f() { return a; }",
		"int f() { int a,; return a; }",
		"int f() { int a; a = (1; return a; }",
		"int f() { int a; return a; ",
		"int f() { int a; return; }",
		"int f() { int a; a = 1; }",
		`int f() { int a; a = "x" + 1; return a; }`,
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, diags := parser.Parse([]byte(src))
			grammarErr := Accept([]byte(src), "test.ymp")
			if (len(diags) == 0) != (grammarErr == nil) {
				t.Errorf("parser diagnostics %v, grammar error %v", diags, grammarErr)
			}
		})
	}
}
