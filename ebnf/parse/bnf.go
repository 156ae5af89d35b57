package parse

import (
	"fmt"

	"golang.org/x/exp/ebnf"
)

// symbol is either a terminal, matched against a token kind, or the name of
// a rule.
type symbol struct {
	name     string
	terminal bool
}

// rule is one flat alternative: lhs derives the symbols of rhs in order.
type rule struct {
	lhs string
	rhs []symbol
}

// bnf is an EBNF grammar flattened into plain rules. Groups, options and
// repetitions become generated rules named after their production, so the
// recognizer only deals with sequences of symbols.
type bnf struct {
	rules    map[string][]*rule
	nullable map[string]bool

	grammar   ebnf.Grammar
	terminals map[string]bool
	pending   []string
	counter   map[string]int
}

// flatten converts the productions reachable from start. Names listed in
// terminals are matched as token kinds and not expanded.
func flatten(g ebnf.Grammar, start string, terminals []string) (*bnf, error) {
	b := &bnf{
		rules:     make(map[string][]*rule),
		nullable:  make(map[string]bool),
		grammar:   g,
		terminals: make(map[string]bool, len(terminals)),
		counter:   make(map[string]int),
	}
	for _, name := range terminals {
		b.terminals[name] = true
	}

	if _, ok := g[start]; !ok {
		return nil, fmt.Errorf("production %q not found in grammar", start)
	}
	b.pending = append(b.pending, start)

	seen := make(map[string]bool)
	for len(b.pending) > 0 {
		name := b.pending[0]
		b.pending = b.pending[1:]
		if seen[name] {
			continue
		}
		seen[name] = true

		prod, ok := g[name]
		if !ok {
			return nil, fmt.Errorf("undefined production %q", name)
		}
		alts, err := b.expand(name, prod.Expr)
		if err != nil {
			return nil, err
		}
		b.addRules(name, alts)
	}

	b.computeNullable()
	return b, nil
}

func (b *bnf) addRules(lhs string, alts [][]symbol) {
	for _, rhs := range alts {
		b.rules[lhs] = append(b.rules[lhs], &rule{lhs: lhs, rhs: rhs})
	}
}

// expand returns the alternatives expr derives, each a flat symbol list.
func (b *bnf) expand(owner string, expr ebnf.Expression) ([][]symbol, error) {
	switch e := expr.(type) {
	case nil:
		return [][]symbol{{}}, nil
	case ebnf.Alternative:
		var alts [][]symbol
		for _, alt := range e {
			sub, err := b.expand(owner, alt)
			if err != nil {
				return nil, err
			}
			alts = append(alts, sub...)
		}
		return alts, nil
	case ebnf.Sequence:
		rhs := make([]symbol, 0, len(e))
		for _, item := range e {
			sym, err := b.symbolFor(owner, item)
			if err != nil {
				return nil, err
			}
			rhs = append(rhs, sym)
		}
		return [][]symbol{rhs}, nil
	case *ebnf.Group:
		return b.expand(owner, e.Body)
	case *ebnf.Option:
		body, err := b.expand(owner, e.Body)
		if err != nil {
			return nil, err
		}
		return append([][]symbol{{}}, body...), nil
	default:
		sym, err := b.symbolFor(owner, expr)
		if err != nil {
			return nil, err
		}
		return [][]symbol{{sym}}, nil
	}
}

// symbolFor returns a single symbol standing for expr, generating a rule
// when expr is compound.
func (b *bnf) symbolFor(owner string, expr ebnf.Expression) (symbol, error) {
	switch e := expr.(type) {
	case *ebnf.Name:
		if b.terminals[e.String] {
			return symbol{name: e.String, terminal: true}, nil
		}
		b.pending = append(b.pending, e.String)
		return symbol{name: e.String}, nil
	case *ebnf.Token:
		return symbol{name: e.String, terminal: true}, nil
	case *ebnf.Range:
		return symbol{}, fmt.Errorf("%s: character range in %s; list the production among the token productions", e.Pos(), owner)
	case *ebnf.Repetition:
		name := b.fresh(owner)
		body, err := b.expand(owner, e.Body)
		if err != nil {
			return symbol{}, err
		}
		self := symbol{name: name}
		alts := [][]symbol{{}}
		for _, rhs := range body {
			alt := append(append([]symbol{}, rhs...), self)
			alts = append(alts, alt)
		}
		b.addRules(name, alts)
		return self, nil
	default:
		name := b.fresh(owner)
		alts, err := b.expand(owner, expr)
		if err != nil {
			return symbol{}, err
		}
		b.addRules(name, alts)
		return symbol{name: name}, nil
	}
}

func (b *bnf) fresh(owner string) string {
	b.counter[owner]++
	return fmt.Sprintf("%s#%d", owner, b.counter[owner])
}

func (b *bnf) computeNullable() {
	for changed := true; changed; {
		changed = false
		for lhs, rules := range b.rules {
			if b.nullable[lhs] {
				continue
			}
			for _, r := range rules {
				if b.allNullable(r.rhs) {
					b.nullable[lhs] = true
					changed = true
					break
				}
			}
		}
	}
}

func (b *bnf) allNullable(rhs []symbol) bool {
	for _, sym := range rhs {
		if sym.terminal || !b.nullable[sym.name] {
			return false
		}
	}
	return true
}
