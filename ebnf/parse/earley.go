package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/ymp/ebnflex"
	"golang.org/x/exp/ebnf"
)

// EarleyParser recognizes token streams against an EBNF grammar. It
// handles any context-free grammar, including ambiguous and left-recursive
// ones, which makes it a reference to check a hand-written parser against.
type EarleyParser struct {
	grammar   ebnf.Grammar
	terminals []string
	tokens    []ebnflex.Token
	skipKinds map[string]bool

	// Internal state
	bnf      *bnf
	chart    []*ItemSet
	filtered []ebnflex.Token // tokens after filtering trivia
}

// Item represents an Earley item: a rule with a dot position and origin.
type Item struct {
	rule   *rule
	Dot    int
	Origin int
}

// Name is the production, or generated rule, the item belongs to.
func (item Item) Name() string {
	return item.rule.lhs
}

func (item Item) String() string {
	var sb strings.Builder
	sb.WriteString(item.rule.lhs)
	sb.WriteString(" →")
	for i, sym := range item.rule.rhs {
		if i == item.Dot {
			sb.WriteString(" •")
		}
		sb.WriteString(" ")
		sb.WriteString(sym.name)
	}
	if item.Dot == len(item.rule.rhs) {
		sb.WriteString(" •")
	}
	fmt.Fprintf(&sb, ", %d", item.Origin)
	return sb.String()
}

func (item Item) complete() bool {
	return item.Dot >= len(item.rule.rhs)
}

func (item Item) next() symbol {
	return item.rule.rhs[item.Dot]
}

func (item Item) advance() Item {
	return Item{rule: item.rule, Dot: item.Dot + 1, Origin: item.Origin}
}

// ItemSet is a set of Earley items at a particular chart position.
type ItemSet struct {
	items    []Item
	itemSet  map[Item]bool // for deduplication
	position int
}

func newItemSet(pos int) *ItemSet {
	return &ItemSet{
		itemSet:  make(map[Item]bool),
		position: pos,
	}
}

func (s *ItemSet) Add(item Item) bool {
	if s.itemSet[item] {
		return false
	}
	s.itemSet[item] = true
	s.items = append(s.items, item)
	return true
}

func (s *ItemSet) Items() []Item {
	return s.items
}

// NewEarleyParser creates a new Earley parser. terminals names the
// productions that the lexer delivers as whole tokens.
func NewEarleyParser(g ebnf.Grammar, terminals []string, tokens []ebnflex.Token) *EarleyParser {
	return &EarleyParser{
		grammar:   g,
		terminals: terminals,
		tokens:    tokens,
		skipKinds: map[string]bool{"WhiteSpace": true, "Comment": true},
	}
}

// SetSkipKinds sets which token kinds to skip.
func (p *EarleyParser) SetSkipKinds(kinds ...string) {
	p.skipKinds = make(map[string]bool)
	for _, k := range kinds {
		p.skipKinds[k] = true
	}
}

// Chart returns the item sets of the last Parse call.
func (p *EarleyParser) Chart() []*ItemSet {
	return p.chart
}

// Parse reports whether the tokens derive from startProduction. On failure
// the error names the first token no item could scan and the token kinds
// that would have been accepted there.
func (p *EarleyParser) Parse(startProduction string) error {
	b, err := flatten(p.grammar, startProduction, p.terminals)
	if err != nil {
		return err
	}
	p.bnf = b

	p.filtered = make([]ebnflex.Token, 0, len(p.tokens))
	for _, tok := range p.tokens {
		if tok.Kind == ebnflex.KindEOF || p.skipKinds[tok.Kind] {
			continue
		}
		p.filtered = append(p.filtered, tok)
	}

	n := len(p.filtered)
	p.chart = make([]*ItemSet, n+1)
	for i := range p.chart {
		p.chart[i] = newItemSet(i)
	}

	for _, r := range b.rules[startProduction] {
		p.chart[0].Add(Item{rule: r})
	}

	for i := 0; i <= n; i++ {
		// items may be added during iteration
		for j := 0; j < len(p.chart[i].items); j++ {
			item := p.chart[i].items[j]
			switch {
			case item.complete():
				p.complete(i, item)
			case item.next().terminal:
				p.scan(i, item)
			default:
				p.predict(i, item)
			}
		}
	}

	for _, item := range p.chart[n].items {
		if item.Name() == startProduction && item.Origin == 0 && item.complete() {
			return nil
		}
	}

	return p.failure()
}

func (p *EarleyParser) predict(pos int, item Item) {
	name := item.next().name
	for _, r := range p.bnf.rules[name] {
		p.chart[pos].Add(Item{rule: r, Origin: pos})
	}
	// A nullable rule may already have completed at this position before
	// item was added, so step over it directly.
	if p.bnf.nullable[name] {
		p.chart[pos].Add(item.advance())
	}
}

func (p *EarleyParser) scan(pos int, item Item) {
	if pos >= len(p.filtered) {
		return
	}
	if p.filtered[pos].Kind == item.next().name {
		p.chart[pos+1].Add(item.advance())
	}
}

func (p *EarleyParser) complete(pos int, completed Item) {
	origin := p.chart[completed.Origin]
	for j := 0; j < len(origin.items); j++ {
		item := origin.items[j]
		if item.complete() {
			continue
		}
		next := item.next()
		if !next.terminal && next.name == completed.Name() {
			p.chart[pos].Add(item.advance())
		}
	}
}

// failure builds the error for the furthest chart position reached.
func (p *EarleyParser) failure() error {
	furthest := 0
	for i := len(p.chart) - 1; i >= 0; i-- {
		if len(p.chart[i].items) > 0 {
			furthest = i
			break
		}
	}

	expected := p.expectedAt(furthest)
	if furthest < len(p.filtered) {
		tok := p.filtered[furthest]
		return &SyntaxError{Position: tok.Position, Got: tok.Literal, Expected: expected}
	}

	var pos ebnflex.Position
	if len(p.tokens) > 0 {
		pos = p.tokens[len(p.tokens)-1].Position
	}
	return &SyntaxError{Position: pos, Expected: expected}
}

func (p *EarleyParser) expectedAt(pos int) []string {
	seen := make(map[string]bool)
	var kinds []string
	for _, item := range p.chart[pos].items {
		if item.complete() || !item.next().terminal {
			continue
		}
		name := item.next().name
		if !seen[name] {
			seen[name] = true
			kinds = append(kinds, name)
		}
	}
	sort.Strings(kinds)
	return kinds
}

// SyntaxError reports where a token stream stops matching the grammar.
// Got is empty when the input ended early.
type SyntaxError struct {
	Position ebnflex.Position
	Got      string
	Expected []string
}

func (e *SyntaxError) Error() string {
	got := "end of input"
	if e.Got != "" {
		got = fmt.Sprintf("%q", e.Got)
	}
	if len(e.Expected) == 0 {
		return fmt.Sprintf("parse error at %s: unexpected %s", e.Position, got)
	}
	return fmt.Sprintf("parse error at %s: unexpected %s, expected %s",
		e.Position, got, strings.Join(e.Expected, " or "))
}
