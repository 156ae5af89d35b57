// Package tokentab assigns small integer ids to distinct (text, kind)
// token pairs. It is used for instrumentation only; the parser and the
// analyzer do not depend on it.
package tokentab

import "github.com/dhamidi/ymp/ymp/parser"

type key struct {
	text string
	kind parser.TokenKind
}

type Entry struct {
	ID    int
	Token parser.Token // first occurrence
}

type Table struct {
	ids     map[key]int
	entries []Entry
}

func New() *Table {
	return &Table{ids: make(map[key]int)}
}

// Insert returns the id of tok's (text, kind) pair, assigning the next
// sequential id the first time the pair is seen.
func (t *Table) Insert(tok parser.Token) int {
	k := key{text: tok.Text, kind: tok.Kind}
	if id, ok := t.ids[k]; ok {
		return id
	}
	id := len(t.entries)
	t.ids[k] = id
	t.entries = append(t.entries, Entry{ID: id, Token: tok})
	return id
}

func (t *Table) Lookup(text string, kind parser.TokenKind) (int, bool) {
	id, ok := t.ids[key{text: text, kind: kind}]
	return id, ok
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the distinct pairs in id order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Fill inserts every token from src up to, but not including, TokenEOF and
// returns the id of each inserted token in stream order.
func (t *Table) Fill(src parser.TokenSource) []int {
	var ids []int
	for {
		tok := src.Next()
		if tok.Kind == parser.TokenEOF {
			return ids
		}
		ids = append(ids, t.Insert(tok))
	}
}
