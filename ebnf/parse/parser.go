// Package parse checks token streams against EBNF grammars with an Earley
// recognizer.
package parse

import (
	"fmt"

	"github.com/dhamidi/ymp/ebnflex"
	"golang.org/x/exp/ebnf"
)

// Parser wraps EarleyParser with the token production list it was built
// for.
type Parser struct {
	*EarleyParser
}

func NewParser(g ebnf.Grammar, terminals []string, tokens []ebnflex.Token) *Parser {
	return &Parser{EarleyParser: NewEarleyParser(g, terminals, tokens)}
}

// SetSkipKinds sets which token kinds to skip between terminals.
func (p *Parser) SetSkipKinds(kinds ...string) {
	p.EarleyParser.SetSkipKinds(kinds...)
}

// ParseFile tokenizes input with the grammar's own token productions and
// checks the result against start.
func ParseFile(g ebnf.Grammar, start string, terminals []string, input []byte, filename string) error {
	lexer := ebnflex.NewLexer(g, start, terminals, input, filename)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return fmt.Errorf("tokenize: %w", err)
	}
	return NewParser(g, terminals, tokens).Parse(start)
}
