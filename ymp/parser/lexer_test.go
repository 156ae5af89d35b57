package parser

import (
	"testing"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"   \n\t ", []TokenKind{TokenEOF}},
		{"int f() {", []TokenKind{TokenInt, TokenIdent, TokenLParen, TokenRParen, TokenLBrace, TokenEOF}},
		{"return x;", []TokenKind{TokenReturn, TokenIdent, TokenSemicolon, TokenEOF}},
		{"char s, t;", []TokenKind{TokenChar, TokenIdent, TokenComma, TokenIdent, TokenSemicolon, TokenEOF}},
		{"a = -5;", []TokenKind{TokenIdent, TokenAssign, TokenMinus, TokenIntLiteral, TokenSemicolon, TokenEOF}},
		{"12+3", []TokenKind{TokenIntLiteral, TokenPlus, TokenIntLiteral, TokenEOF}},
		{"0 12", []TokenKind{TokenIntLiteral, TokenIntLiteral, TokenEOF}},
		{`"hi" + "x"`, []TokenKind{TokenStringLiteral, TokenPlus, TokenStringLiteral, TokenEOF}},
		{"}", []TokenKind{TokenRBrace, TokenEOF}},
		{"a1", []TokenKind{TokenError, TokenEOF}},
		{"007", []TokenKind{TokenError, TokenEOF}},
		{"12ab", []TokenKind{TokenError, TokenEOF}},
		{`"open`, []TokenKind{TokenError, TokenEOF}},
		{"@#", []TokenKind{TokenError, TokenEOF}},
		{"a/b", []TokenKind{TokenIdent, TokenError, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize([]byte(tt.input), "test.ymp")
			if len(tokens) != len(tt.expected) {
				t.Fatalf("got %d tokens %v, want %d", len(tokens), tokens, len(tt.expected))
			}
			for i := range tokens {
				if tokens[i].Kind != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, tokens[i].Kind, tt.expected[i])
				}
			}
		})
	}
}

func TestLexerText(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"count", "count"},
		{"a1", "a1"},
		{"007", "007"},
		{"12ab", "12ab"},
		{`"a b"`, `"a b"`},
		{`"open`, `"open`},
		{"@#", "@#"},
		{"+", "+"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := NewLexer([]byte(tt.input), "").Next()
			if tok.Text != tt.text {
				t.Errorf("got text %q, want %q", tok.Text, tt.text)
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	tokens := Tokenize([]byte("int f\n  x"), "pos.ymp")
	want := []Position{
		{File: "pos.ymp", Line: 1, Column: 1},
		{File: "pos.ymp", Line: 1, Column: 5},
		{File: "pos.ymp", Line: 2, Column: 3},
	}
	for i, pos := range want {
		if tokens[i].Pos != pos {
			t.Errorf("token %d (%s): got %v, want %v", i, tokens[i].Text, tokens[i].Pos, pos)
		}
	}
}

func TestLexerEOFRepeats(t *testing.T) {
	l := NewLexer([]byte("x"), "")
	if tok := l.Next(); tok.Kind != TokenIdent {
		t.Fatalf("got %v, want identifier", tok.Kind)
	}
	for i := 0; i < 3; i++ {
		if tok := l.Next(); tok.Kind != TokenEOF {
			t.Errorf("call %d: got %v, want EOF", i, tok.Kind)
		}
	}
}

func TestLexerResetAndClose(t *testing.T) {
	l := NewLexer([]byte("int x"), "")
	l.Next()
	l.Next()

	l.Reset()
	if tok := l.Next(); tok.Kind != TokenInt || tok.Pos.Column != 1 {
		t.Errorf("after Reset got %v at %v, want int at column 1", tok.Kind, tok.Pos)
	}

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if tok := l.Next(); tok.Kind != TokenEOF {
		t.Errorf("after Close got %v, want EOF", tok.Kind)
	}

	l.Reset()
	if tok := l.Next(); tok.Kind != TokenInt || tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Errorf("after Close and Reset got %v at %v, want int at 1:1", tok.Kind, tok.Pos)
	}
	if tok := l.Next(); tok.Kind != TokenIdent || tok.Text != "x" {
		t.Errorf("got %v %q, want ID x", tok.Kind, tok.Text)
	}
}

func TestLexerReparseAfterClose(t *testing.T) {
	src := "int f() { int a; a = 1; return a; }"
	l := NewLexer([]byte(src), "")

	for pass := 1; pass <= 2; pass++ {
		p := New(l)
		tree := p.ParseFunction()
		if p.HasErrors() {
			t.Fatalf("pass %d: unexpected errors: %v", pass, p.Errors())
		}
		if got, want := String(tree), String(mustParseTree(t, src)); got != want {
			t.Errorf("pass %d: got tree\n%s\nwant\n%s", pass, got, want)
		}
		l.Reset()
	}
}

func mustParseTree(t *testing.T, src string) *Function {
	t.Helper()
	tree, diags := Parse([]byte(src))
	if len(diags) > 0 {
		t.Fatalf("unexpected syntax errors: %v", diags)
	}
	return tree
}

func TestTokenKindString(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenSemicolon, "SEMICOLON"},
		{TokenRBrace, "RBRACE"},
		{TokenIdent, "ID"},
		{TokenIntLiteral, "INT_NUM"},
		{TokenStringLiteral, "CHAR_CONST"},
		{TokenEOF, "END_OF_FILE"},
		{TokenKind(999), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("TokenKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
