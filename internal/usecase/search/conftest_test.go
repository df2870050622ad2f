package search

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/kailas-cloud/tagseek/internal/domain/codec"
	"github.com/kailas-cloud/tagseek/internal/domain/entity"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/domain/search/query"
	"github.com/kailas-cloud/tagseek/internal/domain/search/savedquery"
	"github.com/kailas-cloud/tagseek/internal/domain/search/score"
	"github.com/kailas-cloud/tagseek/internal/repository/resultcache"
	"github.com/kailas-cloud/tagseek/internal/usecase/suggest"
)

// --- Mocks ---

type mockRepo[T any] struct {
	items   []T
	loadErr error
	saveErr error
	saves   int
	// honorCtx fails loads on a done context, as network-backed stores do.
	honorCtx bool
}

func (m *mockRepo[T]) Load(ctx context.Context) ([]T, error) {
	if m.honorCtx && ctx.Err() != nil {
		return []T{}, ctx.Err()
	}
	if m.loadErr != nil {
		return []T{}, m.loadErr
	}
	return slices.Clone(m.items), nil
}

func (m *mockRepo[T]) Save(_ context.Context, items []T) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items = slices.Clone(items)
	return nil
}

type countingScorer struct {
	inner score.Scorer
	calls int
}

func (c *countingScorer) Score(v entity.View, terms []query.Term) float64 {
	c.calls++
	return c.inner.Score(v, terms)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type seqIDs struct{ n int }

func (g *seqIDs) Next() string {
	g.n++
	return "id-" + strconv.Itoa(g.n)
}

type harness struct {
	session *Session
	filters *mockRepo[filter.Filter]
	history *mockRepo[string]
	saved   *mockRepo[savedquery.SavedQuery]
	scorer  *countingScorer
	clock   *fakeClock
}

func newHarness(ctx context.Context, opts ...Option) *harness {
	h := &harness{
		filters: &mockRepo[filter.Filter]{},
		history: &mockRepo[string]{},
		saved:   &mockRepo[savedquery.SavedQuery]{},
		scorer:  &countingScorer{},
		clock:   &fakeClock{t: time.UnixMilli(1_700_000_000_000)},
	}
	ids := &seqIDs{}
	base := []Option{
		WithScorer(h.scorer),
		WithClock(h.clock.Now),
		WithIDGenerator(ids.Next),
	}
	h.session = NewSession(ctx, "test",
		Repositories{Filters: h.filters, History: h.history, Saved: h.saved},
		resultcache.New(0, h.clock.Now, nil),
		suggest.New(0, 0),
		append(base, opts...)...,
	)
	return h
}

// reload builds a fresh session over the same repositories.
func (h *harness) reload(ctx context.Context) *Session {
	return NewSession(ctx, "test",
		Repositories{Filters: h.filters, History: h.history, Saved: h.saved},
		resultcache.New(0, h.clock.Now, nil),
		suggest.New(0, 0),
		WithClock(h.clock.Now),
	)
}

func corpus() []entity.Entity {
	return []entity.Entity{
		entity.New("e1", []string{"type:document", "status:active"}, codec.Encode("hello world")).
			WithCreatedAt(3_000_000).WithUpdatedAt(9_000_000),
		entity.New("e2", []string{"1700000000|type:user", "status:active"}, codec.Encode("hello")).
			WithCreatedAt(1_000_000),
		entity.New("e3", []string{"type:user", "status:archived"}, codec.Encode("goodbye")).
			WithCreatedAt(2_000_000).WithUpdatedAt(5_000_000),
	}
}
