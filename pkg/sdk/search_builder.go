package tagseek

import (
	"context"
	"fmt"
	"io"

	"github.com/kailas-cloud/tagseek/internal/domain/search/request"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
	"github.com/kailas-cloud/tagseek/internal/usecase/export"
)

// SearchBuilder is a fluent builder for one search call.
type SearchBuilder struct {
	session  *Session
	entities []Entity

	query     string
	sortBy    SortKey
	order     request.Order
	skipCache bool
	limit     int
}

// Query sets the query text. A blank query returns every entity passing the active filters.
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.query = q
	return b
}

// SortBy sorts the ranked results by key (descending unless Asc is called).
func (b *SearchBuilder) SortBy(key SortKey) *SearchBuilder {
	b.sortBy = key
	return b
}

// Asc sorts in ascending order.
func (b *SearchBuilder) Asc() *SearchBuilder {
	b.order = request.Asc
	return b
}

// Desc sorts in descending order.
func (b *SearchBuilder) Desc() *SearchBuilder {
	b.order = request.Desc
	return b
}

// SkipCache recomputes the results instead of reading the session cache.
func (b *SearchBuilder) SkipCache() *SearchBuilder {
	b.skipCache = true
	return b
}

// Limit truncates the returned results. Zero means no limit.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = n
	return b
}

// Do executes the search.
func (b *SearchBuilder) Do(ctx context.Context) ([]Result, error) {
	rs, err := b.run(ctx)
	if err != nil {
		return nil, err
	}
	return resultsFromDomain(rs), nil
}

// Export executes the search and writes the results to w.
func (b *SearchBuilder) Export(ctx context.Context, w io.Writer, format ExportFormat) error {
	f, err := export.ParseFormat(string(format))
	if err != nil {
		return err
	}
	rs, err := b.run(ctx)
	if err != nil {
		return err
	}
	if err := export.Encode(w, rs, f); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func (b *SearchBuilder) run(ctx context.Context) ([]result.Result, error) {
	opts, err := request.New(b.skipCache, request.SortKey(b.sortBy), b.order)
	if err != nil {
		return nil, err
	}
	rs, err := b.session.search(ctx, b.query, b.entities, opts)
	if err != nil {
		return nil, err
	}
	if b.limit > 0 && len(rs) > b.limit {
		rs = rs[:b.limit]
	}
	return rs, nil
}
