package semantic

type Kind int

const (
	KindUndefined Kind = iota
	KindInt
	KindChar
	KindFunction
)

var kindNames = map[Kind]string{
	KindUndefined: "undefined",
	KindInt:       "int",
	KindChar:      "char",
	KindFunction:  "function",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

type Symbol struct {
	Name string
	Kind Kind
	Line int

	// ReturnKind is only set for KindFunction.
	ReturnKind Kind
}

func (s Symbol) IsFunction() bool {
	return s.Kind == KindFunction
}

// SymbolTable is the single flat namespace of a program: the function name
// and every declared variable share it. It is deliberately not a stack of
// scopes since the language has no nested blocks.
type SymbolTable struct {
	index   map[string]int
	symbols []Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		index: make(map[string]int),
	}
}

func (t *SymbolTable) Lookup(name string) (Symbol, bool) {
	i, ok := t.index[name]
	if !ok {
		return Symbol{}, false
	}
	return t.symbols[i], true
}

// Declare adds sym unless its name is taken. The first declaration wins:
// on a clash the existing entry is returned unchanged with ok false.
func (t *SymbolTable) Declare(sym Symbol) (existing Symbol, ok bool) {
	if i, found := t.index[sym.Name]; found {
		return t.symbols[i], false
	}
	t.index[sym.Name] = len(t.symbols)
	t.symbols = append(t.symbols, sym)
	return sym, true
}

// Symbols returns the entries in declaration order.
func (t *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, len(t.symbols))
	copy(out, t.symbols)
	return out
}

func (t *SymbolTable) Len() int {
	return len(t.symbols)
}
