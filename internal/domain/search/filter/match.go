package filter

import (
	"strings"

	"github.com/kailas-cloud/tagseek/internal/domain/entity"
)

type predicate func(f Filter, v entity.View) bool

// predicates dispatches evaluation by kind. A kind absent from this table is unknown and
// passes every entity; TestPredicates_CoverKinds keeps it in step with Kinds().
var predicates = map[Kind]predicate{
	Type:    tagEquals("type:"),
	Status:  tagEquals("status:"),
	Created: timeWithin(entity.Entity.CreatedAt),
	Updated: timeWithin(entity.Entity.UpdatedAt),
	Tags:    tagContains,
	Content: contentContains,
	Size:    sizeWithin,
}

// Matches reports whether v satisfies f. Unknown kinds always match.
func (f Filter) Matches(v entity.View) bool {
	p, ok := predicates[f.kind]
	if !ok {
		return true
	}
	return p(f, v)
}

// MatchesAll reports whether v satisfies every filter.
func MatchesAll(v entity.View, filters []Filter) bool {
	for _, f := range filters {
		if !f.Matches(v) {
			return false
		}
	}
	return true
}

// Apply keeps the entities satisfying every filter, preserving order.
func Apply(entities []entity.Entity, filters []Filter) []entity.Entity {
	out := make([]entity.Entity, 0, len(entities))
	for _, e := range entities {
		if MatchesAll(entity.Analyze(e), filters) {
			out = append(out, e)
		}
	}
	return out
}

func tagEquals(prefix string) predicate {
	return func(f Filter, v entity.View) bool {
		want := prefix + string(f.value.(Text))
		for _, tag := range v.CleanTags() {
			if tag == want {
				return true
			}
		}
		return false
	}
}

func tagContains(f Filter, v entity.View) bool {
	want := strings.ToLower(string(f.value.(Text)))
	for _, tag := range v.LowerTags() {
		if strings.Contains(tag, want) {
			return true
		}
	}
	return false
}

func contentContains(f Filter, v entity.View) bool {
	if !v.Decoded() {
		return false
	}
	return strings.Contains(v.Text(), strings.ToLower(string(f.value.(Text))))
}

// timeWithin converts nanosecond timestamps to milliseconds before comparing.
func timeWithin(get func(entity.Entity) (int64, bool)) predicate {
	return func(f Filter, v entity.View) bool {
		ns, ok := get(v.Entity())
		if !ok {
			return false
		}
		r := f.value.(DateRange)
		ms := ns / 1_000_000
		return ms >= r.Start && ms <= r.End
	}
}

// sizeWithin measures the encoded blob, not the decoded bytes.
func sizeWithin(f Filter, v entity.View) bool {
	e := v.Entity()
	if !e.HasContent() {
		return false
	}
	r := f.value.(SizeRange)
	n := int64(len(e.Content()))
	return n >= r.Min && n <= r.Max
}
