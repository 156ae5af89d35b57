package parser

import "fmt"

// Diagnostic is one syntax error, reported at the token the parser was
// looking at when it detected the problem.
type Diagnostic struct {
	Pos     Position
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Syntax error at line %d, position %d: %s", d.Pos.Line, d.Pos.Column, d.Message)
}
