// Package parser tokenizes and parses ymp source: a toy language whose
// programs are exactly one function definition.
//
// # Overview
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (tree)    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                                               │
//	                                               ▼
//	                                        ┌─────────────┐
//	                                        │ Diagnostics │
//	                                        └─────────────┘
//
// The parser pulls one token at a time from a [TokenSource] and never looks
// further ahead than the current token. A program has the shape
//
//	int f() {
//	    int a, b;
//	    char s;
//	    a = 1;
//	    b = a + (2 - a);
//	    s = "x" + "y";
//	    return b;
//	}
//
// # Grammar
//
//	Function         := Begin Descriptions Operators End
//	Begin            := Type FunctionName '(' ')' '{'
//	FunctionName     := Id
//	Descriptions     := Descr*
//	Descr            := Type VarList ';'
//	VarList          := Id (',' Id)*
//	Type             := 'int' | 'char'
//	Operators        := Op*
//	Op               := Id '=' (StringExpr | NumExpr) ';'
//	NumExpr          := SimpleNumExpr (('+'|'-') SimpleNumExpr)*
//	SimpleNumExpr    := Id | IntLiteral | '(' NumExpr ')'
//	StringExpr       := SimpleStringExpr ('+' SimpleStringExpr)*
//	SimpleStringExpr := StringLiteral
//	End              := 'return' Id ';' '}'
//
// # Tree
//
// Each production has its own node type implementing [Node]. Binary
// expressions are folded to the left, so "a - b - c" yields
//
//	NumExpr
//	  NumExpr
//	    Id a
//	    Minus -
//	    Id b
//	  Minus -
//	  Id c
//
// # Error Recovery
//
// Parsing never stops early. A mismatched token is recorded as a
// [Diagnostic]; when the expected token was ';', '}' or ')' the parser
// discards tokens up to the next statement boundary (';', which is
// consumed, end of input, 'return', '}' or an identifier). Invalid lexemes
// inside expressions and unknown type names become [ErrorNode] leaves, so
// [Parser.ParseFunction] always returns a complete tree.
package parser
