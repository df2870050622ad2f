// Package suggest builds autocomplete suggestions for the search box.
package suggest

import (
	"strings"

	"github.com/kailas-cloud/tagseek/internal/domain/codec"
	"github.com/kailas-cloud/tagseek/internal/domain/entity"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/domain/search/savedquery"
	"github.com/kailas-cloud/tagseek/internal/domain/search/suggestion"
)

// Default limits.
const (
	DefaultLimit        = 8
	DefaultHistoryLimit = 5
)

// Engine generates suggestions. It is stateless; history and saved queries come from the caller.
type Engine struct {
	limit        int
	historyLimit int
}

// New creates an Engine. Non-positive limits fall back to the defaults.
func New(limit, historyLimit int) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Engine{limit: limit, historyLimit: historyLimit}
}

// Generate returns at most limit suggestions for q.
//
// A blank q yields the most recent history entries (history is most recent first) and
// ignores entities. Otherwise candidates come, in priority order, from clean tags and
// entity ids containing q, filter field keys or labels containing q, and saved query names
// containing q. Matching is case-insensitive.
func (e *Engine) Generate(
	q string, entities []entity.Entity, history []string, saved []savedquery.SavedQuery,
) []suggestion.Suggestion {
	needle := strings.ToLower(strings.TrimSpace(q))
	if needle == "" {
		n := min(e.historyLimit, len(history))
		out := make([]suggestion.Suggestion, 0, n)
		for _, h := range history[:n] {
			out = append(out, suggestion.New(suggestion.History, h, ""))
		}
		return out
	}

	b := builder{limit: e.limit, seen: make(map[string]bool)}

	for _, ent := range entities {
		for _, tag := range codec.CleanTags(ent.Tags()) {
			if strings.Contains(strings.ToLower(tag), needle) {
				b.add(suggestion.New(suggestion.Completion, tag, ""))
			}
		}
		if b.full() {
			return b.out
		}
	}
	for _, ent := range entities {
		if strings.Contains(strings.ToLower(ent.ID()), needle) {
			b.add(suggestion.New(suggestion.Completion, ent.ID(), ""))
		}
		if b.full() {
			return b.out
		}
	}

	for _, f := range filter.Fields() {
		key := string(f.Key)
		if strings.Contains(key, needle) || strings.Contains(strings.ToLower(f.Label), needle) {
			b.add(suggestion.New(suggestion.Field, key+":", f.Label))
		}
	}

	for _, sq := range saved {
		if strings.Contains(strings.ToLower(sq.Name()), needle) {
			b.add(suggestion.New(suggestion.Saved, sq.Query(), sq.Name()))
		}
	}
	return b.out
}

type builder struct {
	out   []suggestion.Suggestion
	seen  map[string]bool
	limit int
}

func (b *builder) full() bool { return len(b.out) >= b.limit }

func (b *builder) add(s suggestion.Suggestion) {
	if b.full() {
		return
	}
	k := string(s.Kind()) + "\x00" + s.Text()
	if b.seen[k] {
		return
	}
	b.seen[k] = true
	b.out = append(b.out, s)
}
