// Package query tokenizes free-text search input into weighted terms.
package query

import "strings"

// Kind is the class of a search term.
type Kind string

// Term kinds.
const (
	// Phrase is a double-quoted span matched literally.
	Phrase Kind = "phrase"
	// Field is a key:value pair scored against a specific part of the entity.
	Field Kind = "field"
	// Word is any other run of non-space characters.
	Word Kind = "term"
)

// Term weights multiply the per-term score.
const (
	PhraseWeight = 2
	FieldWeight  = 3
	WordWeight   = 1
)

// Term is a single parsed search term. Key is set only for Field terms.
type Term struct {
	kind  Kind
	key   string
	value string
}

// NewPhrase creates a Phrase term.
func NewPhrase(value string) Term { return Term{kind: Phrase, value: value} }

// NewField creates a Field term.
func NewField(key, value string) Term { return Term{kind: Field, key: key, value: value} }

// NewWord creates a plain Term.
func NewWord(value string) Term { return Term{kind: Word, value: value} }

// Kind returns the term class.
func (t Term) Kind() Kind { return t.kind }

// Key returns the field key (Field terms only).
func (t Term) Key() string { return t.key }

// Value returns the term payload.
func (t Term) Value() string { return t.value }

// Weight returns the multiplier applied to the term's score.
func (t Term) Weight() float64 {
	switch t.kind {
	case Phrase:
		return PhraseWeight
	case Field:
		return FieldWeight
	default:
		return WordWeight
	}
}

// Parse scans q left to right. At each non-space position it tries, in order:
// a quoted span with a closing quote and non-empty body, a key:value run, any other run.
func Parse(q string) []Term {
	var terms []Term
	i := 0
	for i < len(q) {
		if isSpace(q[i]) {
			i++
			continue
		}

		if q[i] == '"' {
			if end := strings.IndexByte(q[i+1:], '"'); end > 0 {
				terms = append(terms, NewPhrase(q[i+1:i+1+end]))
				i += end + 2
				continue
			}
		}

		start := i
		for i < len(q) && !isSpace(q[i]) {
			i++
		}
		run := q[start:i]

		if key, value, ok := splitField(run); ok {
			terms = append(terms, NewField(key, value))
			continue
		}
		terms = append(terms, NewWord(run))
	}
	return terms
}

// splitField splits run at the first colon with text on both sides.
func splitField(run string) (key, value string, ok bool) {
	for i := 1; i < len(run)-1; i++ {
		if run[i] == ':' {
			return run[:i], run[i+1:], true
		}
	}
	return "", "", false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
