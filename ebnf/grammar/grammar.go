// Package grammar holds the ymp language grammar in EBNF and checks source
// files against it independently of the hand-written parser.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/dhamidi/ymp/ebnf/parse"
	"golang.org/x/exp/ebnf"
)

//go:embed ymp.ebnf
var source []byte

const (
	Filename = "ymp.ebnf"
	Start    = "Function"
)

// TokenProductions are scanned as whole tokens; every other production is
// syntax.
var TokenProductions = []string{"Id", "Const", "CharConst"}

// Source returns a copy of the embedded grammar text.
func Source() []byte {
	return bytes.Clone(source)
}

// Load parses and verifies the embedded grammar.
func Load() (ebnf.Grammar, error) {
	return Parse(Filename, bytes.NewReader(source), Start)
}

// Parse reads a grammar and, when start is not empty, verifies that every
// production is defined and reachable from start.
func Parse(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if start == "" {
		return g, nil
	}
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// Accept reports whether src is a sentence of the embedded grammar.
func Accept(src []byte, filename string) error {
	g, err := Load()
	if err != nil {
		return err
	}
	return parse.ParseFile(g, Start, TokenProductions, src, filename)
}
