package tagseek

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/tagseek/internal/domain"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/domain/search/request"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/tagseek/internal/usecase/search"
)

// Session is a handle on one named search session: its active filters, history, saved
// queries and result cache. Handles are cheap; state lives in the Client.
type Session struct {
	name     string
	registry *searchuc.Registry
	obs      *observer
}

// Name returns the session name.
func (s *Session) Name() string { return s.name }

func (s *Session) do(ctx context.Context, op string, fn func(*searchuc.Session) error) (err error) {
	start := time.Now()
	defer func() { s.obs.observe(op, start, err) }()
	return s.registry.Do(ctx, s.name, fn)
}

// Search starts a search over entities. Configure it with the builder, then call Do.
func (s *Session) Search(entities []Entity) *SearchBuilder {
	return &SearchBuilder{session: s, entities: entities}
}

func (s *Session) search(
	ctx context.Context, q string, entities []Entity, opts request.Options,
) ([]result.Result, error) {
	if err := request.ValidateQuery(q); err != nil {
		return nil, err
	}
	domainEntities := entitiesToDomain(entities)
	var out []result.Result
	err := s.do(ctx, "search", func(sess *searchuc.Session) error {
		out = sess.PerformSearch(ctx, q, domainEntities, opts)
		return nil
	})
	return out, err
}

// Suggest returns autocomplete candidates for q.
func (s *Session) Suggest(ctx context.Context, q string, entities []Entity) ([]Suggestion, error) {
	domainEntities := entitiesToDomain(entities)
	var out []Suggestion
	err := s.do(ctx, "suggest", func(sess *searchuc.Session) error {
		out = suggestionsFromDomain(sess.GenerateSuggestions(q, domainEntities))
		return nil
	})
	return out, err
}

// AddFilter activates a filter. An empty operator selects the type's default.
func (s *Session) AddFilter(
	ctx context.Context, typ FilterType, value FilterValue, operator string,
) (Filter, error) {
	val, err := filterValueToDomain(value)
	if err != nil {
		return Filter{}, err
	}
	var out Filter
	err = s.do(ctx, "add_filter", func(sess *searchuc.Session) error {
		f, err := sess.AddFilter(ctx, filter.Kind(typ), val, operator)
		if err != nil {
			return err
		}
		out = filterFromDomain(f)
		return nil
	})
	return out, err
}

// Filters returns the active filters in insertion order.
func (s *Session) Filters(ctx context.Context) ([]Filter, error) {
	var out []Filter
	err := s.do(ctx, "list_filters", func(sess *searchuc.Session) error {
		out = filtersFromDomain(sess.ActiveFilters())
		return nil
	})
	return out, err
}

// RemoveFilter deactivates a filter. An unknown id returns ErrNotFound.
func (s *Session) RemoveFilter(ctx context.Context, id string) error {
	return s.do(ctx, "remove_filter", func(sess *searchuc.Session) error {
		if !sess.RemoveFilter(ctx, id) {
			return fmt.Errorf("filter %q: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

// ClearFilters deactivates every filter.
func (s *Session) ClearFilters(ctx context.Context) error {
	return s.do(ctx, "clear_filters", func(sess *searchuc.Session) error {
		sess.ClearAllFilters(ctx)
		return nil
	})
}

// SaveQuery stores a named query. Nil filters save the currently active set.
func (s *Session) SaveQuery(ctx context.Context, name, q string, filters []Filter) (SavedQuery, error) {
	var domainFilters []filter.Filter
	if filters != nil {
		var err error
		if domainFilters, err = filtersToDomain(filters); err != nil {
			return SavedQuery{}, err
		}
	}
	var out SavedQuery
	err := s.do(ctx, "save_query", func(sess *searchuc.Session) error {
		fs := domainFilters
		if filters == nil {
			fs = sess.ActiveFilters()
		}
		sq, err := sess.SaveQuery(ctx, name, q, fs)
		if err != nil {
			return err
		}
		out = savedFromDomain(sq)
		return nil
	})
	return out, err
}

// LoadSavedQuery makes the saved filters active and returns the saved query string.
// An unknown id returns "" and leaves the active filters unchanged.
func (s *Session) LoadSavedQuery(ctx context.Context, id string) (string, error) {
	var q string
	err := s.do(ctx, "load_saved_query", func(sess *searchuc.Session) error {
		q = sess.LoadSavedQuery(ctx, id)
		return nil
	})
	return q, err
}

// DeleteSavedQuery removes a saved query. An unknown id returns ErrNotFound.
func (s *Session) DeleteSavedQuery(ctx context.Context, id string) error {
	return s.do(ctx, "delete_saved_query", func(sess *searchuc.Session) error {
		if !sess.DeleteSavedQuery(ctx, id) {
			return fmt.Errorf("saved query %q: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

// SavedQueries returns the saved queries in insertion order.
func (s *Session) SavedQueries(ctx context.Context) ([]SavedQuery, error) {
	var out []SavedQuery
	err := s.do(ctx, "list_saved_queries", func(sess *searchuc.Session) error {
		saved := sess.SavedQueries()
		out = make([]SavedQuery, len(saved))
		for i, sq := range saved {
			out[i] = savedFromDomain(sq)
		}
		return nil
	})
	return out, err
}

// History returns the recorded queries, most recent first.
func (s *Session) History(ctx context.Context) ([]string, error) {
	var out []string
	err := s.do(ctx, "history", func(sess *searchuc.Session) error {
		out = sess.History()
		return nil
	})
	return out, err
}

// ClearHistory forgets every recorded query.
func (s *Session) ClearHistory(ctx context.Context) error {
	return s.do(ctx, "clear_history", func(sess *searchuc.Session) error {
		sess.ClearSearchHistory(ctx)
		return nil
	})
}

// ClearCache drops the session's cached results.
func (s *Session) ClearCache(ctx context.Context) error {
	return s.do(ctx, "clear_cache", func(sess *searchuc.Session) error {
		sess.ClearCache()
		return nil
	})
}
