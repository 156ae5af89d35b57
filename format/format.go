package format

import (
	"encoding"

	"github.com/dhamidi/ymp/ymp"
)

// Encoder renders one check result. Encode keeps the result so that a
// following MarshalText call renders the same output without writing it.
type Encoder interface {
	encoding.TextMarshaler
	Encode(res *ymp.Result) error
}
