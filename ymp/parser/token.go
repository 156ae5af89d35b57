package parser

import "fmt"

type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError

	// Keywords
	TokenReturn
	TokenInt
	TokenChar

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenStringLiteral

	// Operators and punctuation
	TokenPlus
	TokenMinus
	TokenAssign
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenSemicolon
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "END_OF_FILE",
	TokenError:         "ERROR",
	TokenReturn:        "RETURN",
	TokenInt:           "INT",
	TokenChar:          "CHAR",
	TokenIdent:         "ID",
	TokenIntLiteral:    "INT_NUM",
	TokenStringLiteral: "CHAR_CONST",
	TokenPlus:          "PLUS",
	TokenMinus:         "MINUS",
	TokenAssign:        "ASSIGN",
	TokenLParen:        "LPAREN",
	TokenRParen:        "RPAREN",
	TokenLBrace:        "LBRACE",
	TokenRBrace:        "RBRACE",
	TokenComma:         "COMMA",
	TokenSemicolon:     "SEMICOLON",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is produced once by the lexer and never mutated.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %s", t.Kind, t.Text, t.Pos)
}

var keywords = map[string]TokenKind{
	"return": TokenReturn,
	"int":    TokenInt,
	"char":   TokenChar,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

// Keywords returns the reserved words of the language.
func Keywords() []string {
	return []string{"int", "char", "return"}
}

// TokenSource is the pull-based token contract the parser consumes.
// Once a TokenEOF token has been produced, Next keeps returning TokenEOF.
type TokenSource interface {
	Next() Token
}
