package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/ymp/ymp"
)

type JSONEncoder struct {
	w   io.Writer
	res *ymp.Result
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(res *ymp.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(e.buildResultData(), "", "  ")
}

type jsonResult struct {
	File           string            `json:"file"`
	SyntaxErrors   []jsonSyntaxError `json:"syntaxErrors"`
	Analyzed       bool              `json:"analyzed"`
	SemanticErrors []jsonSemantic    `json:"semanticErrors,omitempty"`
	Symbols        []jsonSymbol      `json:"symbols,omitempty"`
	Postfix        []string          `json:"postfix,omitempty"`
}

type jsonSyntaxError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

type jsonSemantic struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type jsonSymbol struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Returns string `json:"returns,omitempty"`
}

func (e *JSONEncoder) buildResultData() jsonResult {
	res := e.res
	data := jsonResult{
		File:         res.File,
		SyntaxErrors: []jsonSyntaxError{},
		Analyzed:     res.Analyzed(),
		Postfix:      res.Postfix(),
	}

	for _, d := range res.Syntax {
		data.SyntaxErrors = append(data.SyntaxErrors, jsonSyntaxError{
			Line:    d.Pos.Line,
			Column:  d.Pos.Column,
			Message: d.Message,
		})
	}

	for _, d := range res.Semantic() {
		data.SemanticErrors = append(data.SemanticErrors, jsonSemantic{Line: d.Line, Message: d.Message})
	}

	for _, sym := range res.Symbols() {
		js := jsonSymbol{Name: sym.Name, Kind: sym.Kind.String(), Line: sym.Line}
		if sym.IsFunction() {
			js.Returns = sym.ReturnKind.String()
		}
		data.Symbols = append(data.Symbols, js)
	}

	return data
}
