package parser

import (
	"reflect"
	"strings"
	"testing"
)

func parse(t *testing.T, src string) (*Function, *Parser) {
	t.Helper()
	p := New(NewLexer([]byte(src), "test.ymp"))
	tree := p.ParseFunction()
	if tree == nil {
		t.Fatal("ParseFunction returned nil")
	}
	return tree, p
}

func messages(p *Parser) []string {
	var msgs []string
	for _, d := range p.Diagnostics() {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func TestParseValidFunction(t *testing.T) {
	tree, p := parse(t, "int f() { int a, b; a = 1; b = a + 2; return b; }")
	if p.HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}

	if tree.Begin.Type.Keyword == nil || tree.Begin.Type.Keyword.Kind != TokenInt {
		t.Errorf("return type: got %+v, want int", tree.Begin.Type)
	}
	if got := tree.Begin.Name.Id.Name(); got != "f" {
		t.Errorf("function name: got %q, want %q", got, "f")
	}
	if len(tree.Descriptions.List) != 1 {
		t.Fatalf("got %d declarations, want 1", len(tree.Descriptions.List))
	}
	if got := len(tree.Descriptions.List[0].Vars.Ids); got != 2 {
		t.Errorf("got %d declared names, want 2", got)
	}
	if len(tree.Operators.List) != 2 {
		t.Fatalf("got %d assignments, want 2", len(tree.Operators.List))
	}
	if got := tree.End.Result.Name(); got != "b" {
		t.Errorf("return: got %q, want %q", got, "b")
	}

	sum, ok := tree.Operators.List[1].Value.(*NumExpr)
	if !ok {
		t.Fatalf("got %T, want *NumExpr", tree.Operators.List[1].Value)
	}
	if _, ok := sum.X.(*Ident); !ok {
		t.Errorf("left operand: got %T, want *Ident", sum.X)
	}
	if sum.Op == nil || sum.Op.Label() != LabelPlus {
		t.Errorf("operator: got %v, want Plus", sum.Op)
	}
	if _, ok := sum.Y.(*Const); !ok {
		t.Errorf("right operand: got %T, want *Const", sum.Y)
	}
}

func TestParseLeftAssociative(t *testing.T) {
	tree, p := parse(t, "int f() { int a, b, c; a = a - b - c; return a; }")
	if p.HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	want := "NumExpr\n" +
		"  NumExpr\n" +
		"    Id a\n" +
		"    Minus -\n" +
		"    Id b\n" +
		"  Minus -\n" +
		"  Id c\n"
	if got := String(tree.Operators.List[0].Value); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestParseParenthesized(t *testing.T) {
	tree, p := parse(t, "int f() { int a; a = (a + 1) - (2); return a; }")
	if p.HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	want := "NumExpr\n" +
		"  NumExpr\n" +
		"    Id a\n" +
		"    Plus +\n" +
		"    Const 1\n" +
		"  Minus -\n" +
		"  NumExpr\n" +
		"    Const 2\n"
	if got := String(tree.Operators.List[0].Value); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestParseStringConcatenation(t *testing.T) {
	tree, p := parse(t, `int f() { char s; s = "a" + "b" + "c"; return s; }`)
	if p.HasErrors() {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	want := "StringExpr\n" +
		"  StringExpr\n" +
		"    SimpleStringExpr\n" +
		"      CharConst \"a\"\n" +
		"    Plus +\n" +
		"    SimpleStringExpr\n" +
		"      CharConst \"b\"\n" +
		"  Plus +\n" +
		"  SimpleStringExpr\n" +
		"    CharConst \"c\"\n"
	if got := String(tree.Operators.List[0].Value); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			"missing semicolon",
			"int f() { int a; a = 1 return a; }",
			[]string{"Expected SEMICOLON but found 'return'"},
		},
		{
			"unknown return type",
			"foo f() { int a; return a; }",
			[]string{"Unknown type 'foo'"},
		},
		{
			"missing identifier before assign",
			"int f() { int a; = 1 + 2; return a; }",
			[]string{
				"Expected identifier at start of operator but found '='",
				"Missing identifier before '='",
			},
		},
		{
			"invalid token in numeric expression",
			"int f() { int a; a = 1 + @; return a; }",
			[]string{
				"Invalid token '@' in numeric expression",
				"Missing operand after '+' operator",
			},
		},
		{
			"missing operand",
			"int f() { int a; a = a + ; return a; }",
			[]string{
				"Expected identifier, constant or '(' in numeric expression",
				"Missing operand after '+' operator",
			},
		},
		{
			"invalid token in string expression",
			`int f() { char s; s = "a" + 1x; return s; }`,
			[]string{"Invalid token '1x' in string expression"},
		},
		{
			"missing closing paren synchronizes",
			"int f( { int a; return a; }",
			[]string{
				"Expected RPAREN but found '{'",
				"Expected LBRACE but found 'a'",
				"Expected '=' in operator",
			},
		},
		{
			"unclosed parenthesis in expression",
			"int f() { int a; a = (a + 1; return a; }",
			[]string{"Expected ')' after expression"},
		},
		{
			"missing return",
			"int f() { int a; a = 1; }",
			[]string{"Expected RETURN but found '}'"},
		},
		{
			"return without identifier",
			"int f() { int a; return ; }",
			[]string{"Expected identifier after return"},
		},
		{
			"missing function name",
			"int () { int a; return a; }",
			[]string{"Expected function name identifier"},
		},
		{
			"trailing comma in declaration",
			"int f() { int a, ; return a; }",
			[]string{"Expected identifier after comma"},
		},
		{
			"declaration without names",
			"int f() { int ; return a; }",
			[]string{"Expected identifier in variable list"},
		},
		{
			"missing closing brace",
			"int f() { int a; return a;",
			[]string{"Expected RBRACE but found ''"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, p := parse(t, tt.input)
			if got := messages(p); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, p := parse(t, "int f() { int a; a = 1 return a; }")
	want := []string{"Syntax error at line 1, position 24: Expected SEMICOLON but found 'return'"}
	if got := p.Errors(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseMissingTargetKeepsValue(t *testing.T) {
	tree, _ := parse(t, "int f() { int a; = 1 + 2; return a; }")
	if len(tree.Operators.List) != 1 {
		t.Fatalf("got %d assignments, want 1", len(tree.Operators.List))
	}
	op := tree.Operators.List[0]
	if op.Target != nil {
		t.Errorf("target: got %v, want nil", op.Target)
	}
	value, ok := op.Value.(*NumExpr)
	if !ok || len(value.Children()) != 3 {
		t.Fatalf("value: got %T with %d children, want binary NumExpr", op.Value, len(op.Children()))
	}
	if tree.End.Result.Name() != "a" {
		t.Errorf("parser did not resume at return")
	}
}

func TestParseUnknownTypeLeaf(t *testing.T) {
	tree, _ := parse(t, "foo f() { int a; return a; }")
	if tree.Begin.Type.Bad == nil {
		t.Fatal("expected error leaf for unknown type")
	}
	if got := tree.Begin.Type.Bad.Token.Text; got != "foo" {
		t.Errorf("error leaf token: got %q, want %q", got, "foo")
	}
	if got := tree.Begin.Name.Id.Name(); got != "f" {
		t.Errorf("function name: got %q, want %q", got, "f")
	}
}

func TestParseInvalidOperandLeaf(t *testing.T) {
	tree, _ := parse(t, "int f() { int a; a = 1 + @; return a; }")
	value := tree.Operators.List[0].Value.(*NumExpr)
	leaf, ok := value.Y.(*ErrorNode)
	if !ok {
		t.Fatalf("right operand: got %T, want *ErrorNode", value.Y)
	}
	if leaf.Token.Text != "@" {
		t.Errorf("error leaf: got %q, want %q", leaf.Token.Text, "@")
	}
}

type sliceSource struct {
	tokens []Token
	pos    int
	closed bool
}

func (s *sliceSource) Next() Token {
	if s.pos >= len(s.tokens) {
		return Token{Kind: TokenEOF}
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

func TestParseAlwaysTerminates(t *testing.T) {
	kinds := []TokenKind{
		TokenError, TokenReturn, TokenInt, TokenChar, TokenIdent, TokenIntLiteral,
		TokenStringLiteral, TokenPlus, TokenMinus, TokenAssign, TokenLParen,
		TokenRParen, TokenLBrace, TokenRBrace, TokenComma, TokenSemicolon,
	}

	var streams [][]Token
	for _, a := range kinds {
		for _, b := range kinds {
			streams = append(streams, []Token{
				{Kind: a, Text: a.String()},
				{Kind: b, Text: b.String()},
				{Kind: a, Text: a.String()},
			})
		}
	}
	var invalid []Token
	for i := 0; i < 50; i++ {
		invalid = append(invalid, Token{Kind: TokenError, Text: "?"})
	}
	streams = append(streams, invalid, nil)

	for i, tokens := range streams {
		src := &sliceSource{tokens: tokens}
		p := New(src)
		if tree := p.ParseFunction(); tree == nil {
			t.Fatalf("stream %d: nil tree", i)
		}
		if !src.closed {
			t.Errorf("stream %d: token source not closed", i)
		}
	}
}

func TestParseAllInvalidSource(t *testing.T) {
	tree, p := parse(t, "@ # $ % & 1a 007")
	if !p.HasErrors() {
		t.Error("expected syntax errors")
	}
	if tree.Begin == nil || tree.End == nil {
		t.Error("tree is missing its Begin or End node")
	}
	for _, line := range p.Errors() {
		if !strings.HasPrefix(line, "Syntax error at line 1, position ") {
			t.Errorf("unexpected error format %q", line)
		}
	}
}

func TestParseHelper(t *testing.T) {
	tree, diags := Parse([]byte("int f() { return f; }"), WithFile("x.ymp"))
	if len(diags) != 0 {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if got := tree.End.Result.Token.Pos.File; got != "x.ymp" {
		t.Errorf("file: got %q, want %q", got, "x.ymp")
	}
}
