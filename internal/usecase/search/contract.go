package search

import (
	"context"

	"github.com/kailas-cloud/tagseek/internal/domain/entity"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/domain/search/query"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
	"github.com/kailas-cloud/tagseek/internal/domain/search/savedquery"
	"github.com/kailas-cloud/tagseek/internal/domain/search/suggestion"
)

// Scorer ranks an analyzed entity against parsed terms.
type Scorer interface {
	Score(v entity.View, terms []query.Term) float64
}

// ResultCache memoizes ranked results per (query, filter set).
type ResultCache interface {
	Lookup(query string, filters []filter.Filter) ([]result.Result, bool)
	Store(query string, filters []filter.Filter, results []result.Result)
	Clear()
}

// Suggester generates autocomplete candidates.
type Suggester interface {
	Generate(
		q string, entities []entity.Entity, history []string, saved []savedquery.SavedQuery,
	) []suggestion.Suggestion
}

// FilterRepository persists the active filter set.
type FilterRepository interface {
	Load(ctx context.Context) ([]filter.Filter, error)
	Save(ctx context.Context, filters []filter.Filter) error
}

// HistoryRepository persists query history, most recent first.
type HistoryRepository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, entries []string) error
}

// SavedQueryRepository persists saved queries.
type SavedQueryRepository interface {
	Load(ctx context.Context) ([]savedquery.SavedQuery, error)
	Save(ctx context.Context, queries []savedquery.SavedQuery) error
}
