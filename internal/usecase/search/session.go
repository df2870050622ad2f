package search

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagseek/internal/domain/entity"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/domain/search/history"
	"github.com/kailas-cloud/tagseek/internal/domain/search/query"
	"github.com/kailas-cloud/tagseek/internal/domain/search/request"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
	"github.com/kailas-cloud/tagseek/internal/domain/search/savedquery"
	"github.com/kailas-cloud/tagseek/internal/domain/search/score"
	"github.com/kailas-cloud/tagseek/internal/domain/search/suggestion"
)

// Persisted collection names, used in logs and metric labels.
const (
	collFilters = "filters"
	collHistory = "history"
	collSaved   = "saved"
)

// Repositories groups a session's persistence collaborators.
type Repositories struct {
	Filters FilterRepository
	History HistoryRepository
	Saved   SavedQueryRepository
}

// Metrics are the optional instruments a session reports to. Nil fields are skipped.
type Metrics struct {
	Requests          *prometheus.CounterVec // label: cache
	Duration          prometheus.Observer
	PersistenceErrors *prometheus.CounterVec // labels: collection, op
}

// Option configures a Session.
type Option func(*Session)

// WithScorer replaces the default relevance model.
func WithScorer(sc Scorer) Option { return func(s *Session) { s.scorer = sc } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithIDGenerator replaces the UUID generator used for filter and saved query ids.
func WithIDGenerator(gen func() string) Option { return func(s *Session) { s.newID = gen } }

// WithLogger sets the logger. The default discards.
func WithLogger(l *zap.Logger) Option { return func(s *Session) { s.logger = l } }

// WithMetrics sets the instruments.
func WithMetrics(m Metrics) Option { return func(s *Session) { s.metrics = m } }

// WithHistoryLimit caps the remembered history (default history.DefaultLimit).
func WithHistoryLimit(n int) Option { return func(s *Session) { s.historyLimit = n } }

// Session is one caller's search state: active filters, query history, saved queries and
// the result cache. It is not safe for concurrent use; Registry serializes access.
//
// Persistence failures never fail an operation. They are logged and counted, and the
// in-memory state stays authoritative. A collection whose load failed is not written back
// until a later load succeeds, so an outage never overwrites stored state with a partial view.
type Session struct {
	name      string
	repos     Repositories
	cache     ResultCache
	suggester Suggester

	scorer       Scorer
	now          func() time.Time
	newID        func() string
	logger       *zap.Logger
	metrics      Metrics
	historyLimit int

	active  []filter.Filter
	history *history.List
	saved   []savedquery.SavedQuery

	// unloaded holds the collections whose last load failed.
	unloaded map[string]bool
}

// NewSession creates a session and loads its persisted state. Unreadable collections
// start empty and are retried by RetryLoad.
func NewSession(
	ctx context.Context,
	name string,
	repos Repositories,
	cache ResultCache,
	suggester Suggester,
	opts ...Option,
) *Session {
	s := &Session{
		name:      name,
		repos:     repos,
		cache:     cache,
		suggester: suggester,
		scorer:    score.Scorer{},
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    zap.NewNop(),
		unloaded:  make(map[string]bool),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With(zap.String("session", name))
	s.active = []filter.Filter{}
	s.history = history.New(nil, s.historyLimit)
	s.saved = []savedquery.SavedQuery{}

	s.loadFilters(ctx)
	s.loadHistory(ctx)
	s.loadSaved(ctx)
	return s
}

// RetryLoad reloads the collections whose previous load failed. Stored entries come first;
// changes made in memory meanwhile are merged on top and written back.
func (s *Session) RetryLoad(ctx context.Context) {
	if s.unloaded[collFilters] {
		s.loadFilters(ctx)
	}
	if s.unloaded[collHistory] {
		s.loadHistory(ctx)
	}
	if s.unloaded[collSaved] {
		s.loadSaved(ctx)
	}
}

// Loaded reports whether every collection has been read from the store.
func (s *Session) Loaded() bool { return len(s.unloaded) == 0 }

func (s *Session) loadFilters(ctx context.Context) {
	stored, err := s.repos.Filters.Load(ctx)
	if err != nil {
		s.loadFailed(collFilters, err)
		return
	}
	delete(s.unloaded, collFilters)

	pending := s.active
	s.active = stored
	for _, f := range pending {
		if !slices.ContainsFunc(s.active, func(g filter.Filter) bool { return g.ID() == f.ID() }) {
			s.active = append(s.active, f)
		}
	}
	if len(pending) > 0 {
		s.saveFilters(ctx)
	}
}

func (s *Session) loadHistory(ctx context.Context) {
	stored, err := s.repos.History.Load(ctx)
	if err != nil {
		s.loadFailed(collHistory, err)
		return
	}
	delete(s.unloaded, collHistory)

	pending := s.history.Entries()
	s.history = history.New(append(pending, stored...), s.historyLimit)
	if len(pending) > 0 {
		s.saveHistory(ctx)
	}
}

func (s *Session) loadSaved(ctx context.Context) {
	stored, err := s.repos.Saved.Load(ctx)
	if err != nil {
		s.loadFailed(collSaved, err)
		return
	}
	delete(s.unloaded, collSaved)

	pending := s.saved
	s.saved = stored
	for _, sq := range pending {
		if !slices.ContainsFunc(s.saved, func(o savedquery.SavedQuery) bool { return o.ID() == sq.ID() }) {
			s.saved = append(s.saved, sq)
		}
	}
	if len(pending) > 0 {
		s.saveSaved(ctx)
	}
}

func (s *Session) loadFailed(collection string, err error) {
	s.unloaded[collection] = true
	s.persistFailed(collection, "load", err)
}

// Name returns the session name.
func (s *Session) Name() string { return s.name }

// PerformSearch ranks entities against q, narrows them by the active filters and applies the
// optional sort. A blank q skips ranking and returns every entity passing the filters.
// Ranked, filtered results are cached per (q, active filters); the sort runs on every call.
// Non-blank queries are recorded in the history.
func (s *Session) PerformSearch(
	ctx context.Context, q string, entities []entity.Entity, opts request.Options,
) []result.Result {
	start := s.now()

	var (
		results []result.Result
		outcome string
	)
	if opts.SkipCache() {
		outcome = "bypass"
	} else if cached, ok := s.cache.Lookup(q, s.active); ok {
		results, outcome = cached, "hit"
	} else {
		outcome = "miss"
	}

	if outcome != "hit" {
		results = s.rank(q, entities)
		s.cache.Store(q, s.active, results)
	}

	applySort(results, opts.SortBy(), opts.Order())

	if s.history.Record(q) {
		s.saveHistory(ctx)
	}

	if s.metrics.Requests != nil {
		s.metrics.Requests.WithLabelValues(outcome).Inc()
	}
	if s.metrics.Duration != nil {
		s.metrics.Duration.Observe(s.now().Sub(start).Seconds())
	}
	s.logger.Debug("Search performed",
		zap.String("cache", outcome),
		zap.Int("entities", len(entities)),
		zap.Int("results", len(results)),
	)
	return results
}

// rank scores, drops zero scores, orders by descending score (stable) and filters.
func (s *Session) rank(q string, entities []entity.Entity) []result.Result {
	terms := query.Parse(q)
	out := make([]result.Result, 0, len(entities))

	if len(terms) == 0 {
		for _, e := range entities {
			if filter.MatchesAll(entity.Analyze(e), s.active) {
				out = append(out, result.Unscored(e))
			}
		}
		return out
	}

	for _, e := range entities {
		v := entity.Analyze(e)
		sc := s.scorer.Score(v, terms)
		if sc <= 0 {
			continue
		}
		if !filter.MatchesAll(v, s.active) {
			continue
		}
		out = append(out, result.New(e, sc))
	}
	slices.SortStableFunc(out, func(a, b result.Result) int {
		switch {
		case a.Score() > b.Score():
			return -1
		case a.Score() < b.Score():
			return 1
		}
		return 0
	})
	return out
}

// AddFilter validates and activates a filter with a generated id and label.
func (s *Session) AddFilter(
	ctx context.Context, kind filter.Kind, value filter.Value, operator string,
) (filter.Filter, error) {
	f, err := filter.New(s.newID(), kind, value, operator, "")
	if err != nil {
		return filter.Filter{}, err
	}
	s.active = append(s.active, f)
	s.saveFilters(ctx)
	return f, nil
}

// RemoveFilter deactivates the filter with id and reports whether it existed.
func (s *Session) RemoveFilter(ctx context.Context, id string) bool {
	i := slices.IndexFunc(s.active, func(f filter.Filter) bool { return f.ID() == id })
	if i < 0 {
		return false
	}
	s.active = slices.Delete(s.active, i, i+1)
	s.saveFilters(ctx)
	return true
}

// ClearAllFilters deactivates every filter.
func (s *Session) ClearAllFilters(ctx context.Context) {
	s.active = []filter.Filter{}
	s.saveFilters(ctx)
}

// ActiveFilters returns the active filters in insertion order.
func (s *Session) ActiveFilters() []filter.Filter {
	return slices.Clone(s.active)
}

// GenerateSuggestions returns autocomplete candidates for q.
func (s *Session) GenerateSuggestions(q string, entities []entity.Entity) []suggestion.Suggestion {
	return s.suggester.Generate(q, entities, s.history.Entries(), s.saved)
}

// SaveQuery stores a named (query, filters) pair.
func (s *Session) SaveQuery(
	ctx context.Context, name, q string, filters []filter.Filter,
) (savedquery.SavedQuery, error) {
	sq, err := savedquery.New(s.newID(), name, q, filters, s.now())
	if err != nil {
		return savedquery.SavedQuery{}, err
	}
	s.saved = append(s.saved, sq)
	s.saveSaved(ctx)
	return sq, nil
}

// LoadSavedQuery replaces the active filters with the saved ones and returns the saved query
// string. An unknown id returns "" and changes nothing.
func (s *Session) LoadSavedQuery(ctx context.Context, id string) string {
	i := slices.IndexFunc(s.saved, func(sq savedquery.SavedQuery) bool { return sq.ID() == id })
	if i < 0 {
		return ""
	}
	sq := s.saved[i]
	s.active = sq.Filters()
	s.saveFilters(ctx)
	return sq.Query()
}

// DeleteSavedQuery removes the saved query with id and reports whether it existed.
func (s *Session) DeleteSavedQuery(ctx context.Context, id string) bool {
	i := slices.IndexFunc(s.saved, func(sq savedquery.SavedQuery) bool { return sq.ID() == id })
	if i < 0 {
		return false
	}
	s.saved = slices.Delete(s.saved, i, i+1)
	s.saveSaved(ctx)
	return true
}

// SavedQueries returns the saved queries in insertion order.
func (s *Session) SavedQueries() []savedquery.SavedQuery {
	return slices.Clone(s.saved)
}

// History returns the recorded queries, most recent first.
func (s *Session) History() []string {
	return s.history.Entries()
}

// ClearCache drops every cached result.
func (s *Session) ClearCache() {
	s.cache.Clear()
}

// ClearSearchHistory forgets every recorded query.
func (s *Session) ClearSearchHistory(ctx context.Context) {
	s.history.Clear()
	s.saveHistory(ctx)
}

func (s *Session) saveFilters(ctx context.Context) {
	if s.deferSave(collFilters) {
		return
	}
	if err := s.repos.Filters.Save(ctx, s.active); err != nil {
		s.persistFailed(collFilters, "save", err)
	}
}

func (s *Session) saveHistory(ctx context.Context) {
	if s.deferSave(collHistory) {
		return
	}
	if err := s.repos.History.Save(ctx, s.history.Entries()); err != nil {
		s.persistFailed(collHistory, "save", err)
	}
}

func (s *Session) saveSaved(ctx context.Context) {
	if s.deferSave(collSaved) {
		return
	}
	if err := s.repos.Saved.Save(ctx, s.saved); err != nil {
		s.persistFailed(collSaved, "save", err)
	}
}

// deferSave reports whether collection must stay unwritten until it has been loaded.
func (s *Session) deferSave(collection string) bool {
	if !s.unloaded[collection] {
		return false
	}
	s.logger.Debug("Save deferred until stored state is loaded", zap.String("collection", collection))
	return true
}

func (s *Session) persistFailed(collection, op string, err error) {
	s.logger.Warn("Session state not persisted, continuing in memory",
		zap.String("collection", collection),
		zap.String("op", op),
		zap.Error(err),
	)
	if s.metrics.PersistenceErrors != nil {
		s.metrics.PersistenceErrors.WithLabelValues(collection, op).Inc()
	}
}
