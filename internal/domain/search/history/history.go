// Package history keeps the bounded most-recent-first list of executed queries.
package history

import (
	"slices"
	"strings"
)

// DefaultLimit caps the number of remembered queries.
const DefaultLimit = 50

// List is a most-recent-first query history without duplicates.
type List struct {
	entries []string
	limit   int
}

// New creates a List from stored entries, most recent first. Duplicates and blank entries
// are dropped and the result is truncated to limit (DefaultLimit when limit <= 0).
func New(entries []string, limit int) *List {
	if limit <= 0 {
		limit = DefaultLimit
	}
	l := &List{entries: make([]string, 0, min(len(entries), limit)), limit: limit}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" || slices.Contains(l.entries, e) {
			continue
		}
		if len(l.entries) == limit {
			break
		}
		l.entries = append(l.entries, e)
	}
	return l
}

// Record moves q to the front, removing any earlier occurrence, and truncates to the limit.
// It reports false when q is blank and nothing changed.
func (l *List) Record(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return false
	}
	if i := slices.Index(l.entries, q); i >= 0 {
		l.entries = slices.Delete(l.entries, i, i+1)
	}
	l.entries = slices.Insert(l.entries, 0, q)
	if len(l.entries) > l.limit {
		l.entries = l.entries[:l.limit]
	}
	return true
}

// Recent returns up to n entries, most recent first.
func (l *List) Recent(n int) []string {
	if n > len(l.entries) || n < 0 {
		n = len(l.entries)
	}
	return slices.Clone(l.entries[:n])
}

// Entries returns every entry, most recent first.
func (l *List) Entries() []string { return slices.Clone(l.entries) }

// Len returns the number of entries.
func (l *List) Len() int { return len(l.entries) }

// Clear removes every entry.
func (l *List) Clear() { l.entries = l.entries[:0] }
