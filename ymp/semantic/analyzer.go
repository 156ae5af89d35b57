// Package semantic checks declarations, uses and types of a parsed ymp
// function and renders its postfix trace.
package semantic

import (
	"fmt"

	"github.com/dhamidi/ymp/ymp/parser"
	"github.com/tliron/commonlog"
)

type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Semantic error at line %d: %s", d.Line, d.Message)
}

// Analyzer owns one symbol table and one diagnostic list per Analyze call.
type Analyzer struct {
	table        *SymbolTable
	diags        []Diagnostic
	returnKind   Kind
	functionName string
	log          commonlog.Logger
}

func New() *Analyzer {
	return &Analyzer{
		table: NewSymbolTable(),
		log:   commonlog.GetLogger("ymp.semantic"),
	}
}

// Analyze walks tree once, filling the symbol table and diagnostics. It
// never modifies tree. State from a previous call is discarded.
func (a *Analyzer) Analyze(tree *parser.Function) {
	a.table = NewSymbolTable()
	a.diags = nil
	a.returnKind = KindUndefined
	a.functionName = ""

	if tree == nil {
		return
	}
	for _, child := range tree.Children() {
		switch n := child.(type) {
		case *parser.Begin:
			a.analyzeBegin(n)
		case *parser.Descriptions:
			a.analyzeDescriptions(n)
		case *parser.Operators:
			a.analyzeOperators(n)
		case *parser.End:
			a.analyzeEnd(n)
		}
	}
	a.log.Debugf("analyzed %q: %d symbols, %d errors", a.functionName, a.table.Len(), len(a.diags))
}

func (a *Analyzer) HasErrors() bool {
	return len(a.diags) > 0
}

func (a *Analyzer) Diagnostics() []Diagnostic {
	return a.diags
}

// Errors returns the semantic diagnostics rendered as report lines.
func (a *Analyzer) Errors() []string {
	lines := make([]string, len(a.diags))
	for i, d := range a.diags {
		lines[i] = d.String()
	}
	return lines
}

func (a *Analyzer) Symbols() []Symbol {
	return a.table.Symbols()
}

func (a *Analyzer) errorf(line int, format string, args ...any) {
	a.diags = append(a.diags, Diagnostic{
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

func kindOf(t *parser.Type) Kind {
	if t == nil || t.Keyword == nil {
		return KindUndefined
	}
	switch t.Keyword.Kind {
	case parser.TokenInt:
		return KindInt
	case parser.TokenChar:
		return KindChar
	}
	return KindUndefined
}

func (a *Analyzer) analyzeBegin(n *parser.Begin) {
	a.returnKind = kindOf(n.Type)
	if n.Name == nil || n.Name.Id == nil {
		return
	}

	a.functionName = n.Name.Id.Name()
	line := n.Name.Id.Token.Pos.Line
	sym := Symbol{
		Name:       a.functionName,
		Kind:       KindFunction,
		Line:       line,
		ReturnKind: a.returnKind,
	}
	if _, ok := a.table.Declare(sym); !ok {
		a.errorf(line, "Function '%s' already declared", a.functionName)
		return
	}
	a.log.Debugf("declared function %s returning %s at line %d", sym.Name, sym.ReturnKind, line)
}

func (a *Analyzer) analyzeDescriptions(n *parser.Descriptions) {
	for _, descr := range n.List {
		if descr.Vars == nil {
			continue
		}
		kind := kindOf(descr.Type)
		for _, id := range descr.Vars.Ids {
			a.declareVariable(id, kind)
		}
	}
}

func (a *Analyzer) declareVariable(id *parser.Ident, kind Kind) {
	line := id.Token.Pos.Line
	existing, ok := a.table.Declare(Symbol{Name: id.Name(), Kind: kind, Line: line})
	if !ok {
		what := "variable"
		if existing.IsFunction() {
			what = "function"
		}
		a.errorf(line, "'%s' already declared as %s at line %d", id.Name(), what, existing.Line)
		return
	}
	a.log.Debugf("declared %s %s at line %d", kind, id.Name(), line)
}

func (a *Analyzer) analyzeOperators(n *parser.Operators) {
	for _, op := range n.List {
		a.analyzeOp(op)
	}
}

func (a *Analyzer) analyzeOp(op *parser.Op) {
	if op.Target == nil || op.Value == nil {
		return
	}

	name := op.Target.Name()
	line := op.Target.Token.Pos.Line
	target, ok := a.table.Lookup(name)
	if !ok {
		a.errorf(line, "Undeclared variable '%s'", name)
		return
	}

	switch value := op.Value.(type) {
	case *parser.NumExpr:
		if !a.checkNumeric(value) {
			return
		}
		a.checkAssignable(value, target, line)
	case *parser.StringExpr:
		if target.Kind == KindInt {
			a.errorf(line, "cannot assign char to int variable '%s'", name)
		}
	}
}

// checkNumeric requires every identifier inside e to be a declared
// integer, left to right. It stops at the first undeclared identifier and
// reports false, in which case the rest of the statement is not checked.
func (a *Analyzer) checkNumeric(e parser.Expr) bool {
	switch e := e.(type) {
	case *parser.NumExpr:
		if e.X != nil && !a.checkNumeric(e.X) {
			return false
		}
		if e.Y != nil && !a.checkNumeric(e.Y) {
			return false
		}
		return true
	case *parser.Ident:
		sym, ok := a.table.Lookup(e.Name())
		if !ok {
			a.errorf(e.Token.Pos.Line, "Undeclared variable '%s'", e.Name())
			return false
		}
		if sym.Kind != KindInt {
			a.errorf(e.Token.Pos.Line, "Variable '%s' must be integer type in numeric expression", e.Name())
		}
	}
	return true
}

// checkAssignable reports operands whose kind cannot flow into target,
// however deeply they are nested in parentheses.
func (a *Analyzer) checkAssignable(e parser.Expr, target Symbol, line int) {
	parser.Walk(e, func(n parser.Node) bool {
		switch n := n.(type) {
		case *parser.Ident:
			sym, ok := a.table.Lookup(n.Name())
			if !ok {
				return true
			}
			switch {
			case target.Kind == KindInt && sym.Kind == KindChar:
				a.errorf(line, "cannot assign char '%s' to int '%s'", sym.Name, target.Name)
			case target.Kind == KindChar && sym.Kind == KindInt:
				a.errorf(line, "cannot assign int '%s' to char '%s'", sym.Name, target.Name)
			}
		case *parser.Const:
			if target.Kind == KindChar {
				a.errorf(line, "cannot assign integer '%s' to char '%s'", n.Token.Text, target.Name)
			}
		}
		return true
	})
}

func (a *Analyzer) analyzeEnd(n *parser.End) {
	if n.Result == nil {
		return
	}

	name := n.Result.Name()
	line := n.Result.Token.Pos.Line
	sym, ok := a.table.Lookup(name)
	if !ok {
		a.errorf(line, "Undeclared variable '%s' in return statement", name)
		return
	}
	if sym.IsFunction() {
		a.errorf(line, "Cannot return function '%s'", name)
		return
	}
	if sym.Kind != a.returnKind {
		a.errorf(line, "function returns %s but variable is %s", a.returnKind, sym.Kind)
	}
}
