// Package ymp runs the front end pipeline over one source file: token
// table, parser and, when the source is free of syntax errors, semantic
// analysis.
package ymp

import (
	"fmt"
	"os"

	"github.com/dhamidi/ymp/ymp/parser"
	"github.com/dhamidi/ymp/ymp/semantic"
	"github.com/dhamidi/ymp/ymp/tokentab"
	"github.com/tliron/commonlog"
)

// Result is everything one run produced. Analyzer is nil when the parser
// reported syntax errors, since analysis only runs on clean trees.
type Result struct {
	File     string
	Source   []byte
	Tree     *parser.Function
	Tokens   *tokentab.Table
	TokenIDs []int
	Syntax   []parser.Diagnostic
	Analyzer *semantic.Analyzer
}

func (r *Result) Analyzed() bool {
	return r.Analyzer != nil
}

func (r *Result) Semantic() []semantic.Diagnostic {
	if r.Analyzer == nil {
		return nil
	}
	return r.Analyzer.Diagnostics()
}

func (r *Result) Symbols() []semantic.Symbol {
	if r.Analyzer == nil {
		return nil
	}
	return r.Analyzer.Symbols()
}

// Postfix returns the postfix trace, or nil when analysis did not run.
func (r *Result) Postfix() []string {
	if r.Analyzer == nil {
		return nil
	}
	return semantic.Postfix(r.Tree)
}

func (r *Result) HasErrors() bool {
	return len(r.Syntax) > 0 || len(r.Semantic()) > 0
}

func (r *Result) SyntaxErrors() []string {
	lines := make([]string, len(r.Syntax))
	for i, d := range r.Syntax {
		lines[i] = d.String()
	}
	return lines
}

func (r *Result) SemanticErrors() []string {
	if r.Analyzer == nil {
		return nil
	}
	return r.Analyzer.Errors()
}

// Check tokenizes source once to fill the token table, then restarts the
// lexer for the parser.
func Check(file string, source []byte) *Result {
	log := commonlog.GetLogger("ymp.check")

	lexer := parser.NewLexer(source, file)
	tokens := tokentab.New()
	ids := tokens.Fill(lexer)
	lexer.Reset()

	p := parser.New(lexer, parser.WithFile(file))
	tree := p.ParseFunction()

	res := &Result{
		File:     file,
		Source:   source,
		Tree:     tree,
		Tokens:   tokens,
		TokenIDs: ids,
		Syntax:   p.Diagnostics(),
	}

	if !p.HasErrors() {
		a := semantic.New()
		a.Analyze(tree)
		res.Analyzer = a
	}

	log.Debugf("%s: %d tokens (%d distinct), %d syntax errors, %d semantic errors",
		file, len(ids), tokens.Len(), len(res.Syntax), len(res.Semantic()))
	return res
}

func CheckFile(path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return Check(path, source), nil
}
