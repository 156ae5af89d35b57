package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/ymp/ymp"
)

const postfixHeader = "=== POSTFIX NOTATION ==="

// ReportEncoder writes the plain text report: syntax diagnostics, then
// semantic diagnostics and the postfix trace when the parse was clean.
type ReportEncoder struct {
	w   io.Writer
	res *ymp.Result

	// Symbols appends the symbol table after the postfix trace.
	Symbols bool
}

func NewReportEncoder(w io.Writer) *ReportEncoder {
	return &ReportEncoder{w: w}
}

func (e *ReportEncoder) Encode(res *ymp.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ReportEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	res := e.res

	if len(res.Syntax) > 0 {
		sb.WriteString("SYNTAX ERRORS:\n")
		for _, line := range res.SyntaxErrors() {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		return []byte(sb.String()), nil
	}
	sb.WriteString("No syntax errors found.\n")

	if !res.Analyzed() {
		return []byte(sb.String()), nil
	}

	if errs := res.SemanticErrors(); len(errs) > 0 {
		sb.WriteString("SEMANTIC ERRORS:\n")
		for _, line := range errs {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No semantic errors found.\n")
	}

	sb.WriteString("\n")
	sb.WriteString(postfixHeader)
	sb.WriteString("\n")
	if err := res.Analyzer.GeneratePostfix(res.Tree, &sb); err != nil {
		return nil, err
	}

	if e.Symbols {
		sb.WriteString("\n=== SYMBOLS ===\n")
		for _, sym := range res.Symbols() {
			if sym.IsFunction() {
				fmt.Fprintf(&sb, "%s\t%s\t%s\t%d\n", sym.Name, sym.Kind, sym.ReturnKind, sym.Line)
				continue
			}
			fmt.Fprintf(&sb, "%s\t%s\t-\t%d\n", sym.Name, sym.Kind, sym.Line)
		}
	}

	return []byte(sb.String()), nil
}
