package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/ymp/ymp"
	"github.com/dhamidi/ymp/ymp/parser"
)

// TokenLineEncoder writes one line per token: table id, kind, text and
// position, separated by tabs.
type TokenLineEncoder struct {
	w   io.Writer
	res *ymp.Result
}

func NewTokenLineEncoder(w io.Writer) *TokenLineEncoder {
	return &TokenLineEncoder{w: w}
}

func (e *TokenLineEncoder) Encode(res *ymp.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenLineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	res := e.res

	for _, tok := range parser.Tokenize(res.Source, res.File) {
		if tok.Kind == parser.TokenEOF {
			break
		}
		id, ok := res.Tokens.Lookup(tok.Text, tok.Kind)
		if !ok {
			return nil, fmt.Errorf("token %q at %d:%d missing from table", tok.Text, tok.Pos.Line, tok.Pos.Column)
		}
		fmt.Fprintf(&sb, "%d\t%s\t%s\t%d:%d\n", id, tok.Kind, tok.Text, tok.Pos.Line, tok.Pos.Column)
	}

	return []byte(sb.String()), nil
}
