package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/tagseek/internal/domain/codec"
	"github.com/kailas-cloud/tagseek/internal/domain/entity"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/domain/search/request"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
	"github.com/kailas-cloud/tagseek/internal/domain/search/suggestion"
)

func ids(rs []result.Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Entity().ID()
	}
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustOptions(t *testing.T, skip bool, key request.SortKey, order request.Order) request.Options {
	t.Helper()
	o, err := request.New(skip, key, order)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return o
}

// --- PerformSearch ---

func TestPerformSearch_FieldScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	e1 := entity.New("e1", []string{"type:document", "status:active"}, codec.Encode("hello world"))

	got := h.session.PerformSearch(ctx, "content:hello", []entity.Entity{e1}, request.Default())
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Score() != 15 || !got[0].Scored() {
		t.Errorf("score = %v (scored %v), want 15", got[0].Score(), got[0].Scored())
	}
}

func TestPerformSearch_RanksAndDropsZeroScores(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)

	got := h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	// e1 and e2 both score 2 (text); stable order keeps e1 first. e3 scores 0.
	if !sameStrings(ids(got), []string{"e1", "e2"}) {
		t.Fatalf("got %v", ids(got))
	}

	got = h.session.PerformSearch(ctx, "user hello", corpus(), request.Default())
	// e2: user tag (4) + hello (2) = 6; e3: user tag 4; e1: hello 2.
	if !sameStrings(ids(got), []string{"e2", "e3", "e1"}) {
		t.Fatalf("got %v", ids(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Score() < got[i].Score() {
			t.Fatalf("not descending at %d: %v", i, got)
		}
	}
}

func TestPerformSearch_EmptyQueryReturnsFilteredUnscored(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	if _, err := h.session.AddFilter(ctx, filter.Status, filter.Text("active"), ""); err != nil {
		t.Fatalf("AddFilter: %v", err)
	}

	got := h.session.PerformSearch(ctx, "   ", corpus(), request.Default())
	if !sameStrings(ids(got), []string{"e1", "e2"}) {
		t.Fatalf("got %v", ids(got))
	}
	for _, r := range got {
		if r.Scored() {
			t.Errorf("%s scored on empty query", r.Entity().ID())
		}
	}
	if h.scorer.calls != 0 {
		t.Errorf("scorer called %d times", h.scorer.calls)
	}
	if len(h.session.History()) != 0 {
		t.Errorf("blank query recorded: %v", h.session.History())
	}
}

func TestPerformSearch_FiltersNarrowRankedSet(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	if _, err := h.session.AddFilter(ctx, filter.Type, filter.Text("user"), ""); err != nil {
		t.Fatalf("AddFilter: %v", err)
	}
	got := h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	if !sameStrings(ids(got), []string{"e2"}) {
		t.Fatalf("got %v", ids(got))
	}
}

func TestPerformSearch_CacheIdempotence(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)

	first := h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	calls := h.scorer.calls
	if calls != len(corpus()) {
		t.Fatalf("scorer calls = %d, want %d", calls, len(corpus()))
	}

	h.clock.Advance(29 * time.Second)
	second := h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	if h.scorer.calls != calls {
		t.Fatalf("scorer re-invoked on cache hit: %d calls", h.scorer.calls)
	}
	if !sameStrings(ids(first), ids(second)) {
		t.Fatalf("results differ: %v vs %v", ids(first), ids(second))
	}

	h.clock.Advance(time.Second)
	h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	if h.scorer.calls != 2*calls {
		t.Fatalf("stale entry served: %d calls", h.scorer.calls)
	}
}

func TestPerformSearch_SkipCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)

	h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	h.session.PerformSearch(ctx, "hello", corpus(), mustOptions(t, true, "", ""))
	if h.scorer.calls != 2*len(corpus()) {
		t.Fatalf("bypass did not re-score: %d calls", h.scorer.calls)
	}
}

func TestPerformSearch_FilterChangeMissesCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)

	h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	f, _ := h.session.AddFilter(ctx, filter.Type, filter.Text("document"), "")
	got := h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	if h.scorer.calls != 2*len(corpus()) {
		t.Fatalf("filter change served cached results: %d calls", h.scorer.calls)
	}
	if !sameStrings(ids(got), []string{"e1"}) {
		t.Fatalf("got %v", ids(got))
	}

	h.session.RemoveFilter(ctx, f.ID())
	h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	if h.scorer.calls != 2*len(corpus()) {
		t.Fatalf("original filter set should hit: %d calls", h.scorer.calls)
	}
}

func TestPerformSearch_SortAppliedOnHit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)

	asc := h.session.PerformSearch(ctx, "", corpus(), mustOptions(t, false, request.SortCreated, request.Asc))
	desc := h.session.PerformSearch(ctx, "", corpus(), mustOptions(t, false, request.SortCreated, request.Desc))
	if !sameStrings(ids(asc), []string{"e2", "e3", "e1"}) {
		t.Errorf("asc = %v", ids(asc))
	}
	if !sameStrings(ids(desc), []string{"e1", "e3", "e2"}) {
		t.Errorf("desc = %v", ids(desc))
	}
}

func TestPerformSearch_HistoryNeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)

	for i := 0; i < 80; i++ {
		h.session.PerformSearch(ctx, fmt.Sprintf("q%d", i%60), nil, request.Default())
	}
	hist := h.session.History()
	if len(hist) != 50 {
		t.Fatalf("len = %d, want 50", len(hist))
	}
	seen := map[string]bool{}
	for _, q := range hist {
		if seen[q] {
			t.Fatalf("duplicate %q", q)
		}
		seen[q] = true
	}
	if hist[0] != "q19" {
		t.Errorf("most recent = %q", hist[0])
	}
	if len(h.history.items) != 50 || h.history.items[0] != "q19" {
		t.Errorf("persisted history = %v", h.history.items)
	}
}

func TestPerformSearch_PersistenceFailureDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_persist_errors"}, []string{"collection", "op"})

	h := newHarness(ctx, WithLogger(zap.New(core)), WithMetrics(Metrics{PersistenceErrors: errs}))
	h.history.saveErr = errors.New("store unavailable")

	got := h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !sameStrings(h.session.History(), []string{"hello"}) {
		t.Errorf("in-memory history = %v", h.session.History())
	}
	if logs.FilterField(zap.String("collection", "history")).Len() != 1 {
		t.Errorf("expected one warning for history, got %d entries", logs.Len())
	}
	if testutil.ToFloat64(errs.WithLabelValues("history", "save")) != 1 {
		t.Error("persistence error not counted")
	}
}

func TestPerformSearch_Metrics(t *testing.T) {
	ctx := context.Background()
	reqs := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_search_requests"}, []string{"cache"})
	dur := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "test_search_duration"})
	h := newHarness(ctx, WithMetrics(Metrics{Requests: reqs, Duration: dur}))

	h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	h.session.PerformSearch(ctx, "hello", corpus(), mustOptions(t, true, "", ""))

	for label, want := range map[string]float64{"miss": 1, "hit": 1, "bypass": 1} {
		if got := testutil.ToFloat64(reqs.WithLabelValues(label)); got != want {
			t.Errorf("requests{cache=%s} = %v, want %v", label, got, want)
		}
	}
	if testutil.CollectAndCount(dur) != 1 {
		t.Error("duration not observed")
	}
}

// --- filters ---

func TestAddFilter(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)

	f, err := h.session.AddFilter(ctx, filter.Size, filter.SizeRange{Min: 1, Max: 10}, "")
	if err != nil {
		t.Fatalf("AddFilter: %v", err)
	}
	if f.ID() == "" || f.Label() != "Size: 1-10" || f.Operator() != filter.OpBetween {
		t.Errorf("filter = %+v", f)
	}
	if len(h.session.ActiveFilters()) != 1 || h.filters.saves != 1 || len(h.filters.items) != 1 {
		t.Errorf("active=%d saves=%d stored=%d", len(h.session.ActiveFilters()), h.filters.saves, len(h.filters.items))
	}

	if _, err := h.session.AddFilter(ctx, filter.Type, filter.SizeRange{}, ""); err == nil {
		t.Fatal("expected shape error")
	}
	if len(h.session.ActiveFilters()) != 1 {
		t.Error("invalid filter was activated")
	}
}

func TestRemoveAndClearFilters(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	a, _ := h.session.AddFilter(ctx, filter.Type, filter.Text("user"), "")
	b, _ := h.session.AddFilter(ctx, filter.Tags, filter.Text("x"), "")

	if h.session.RemoveFilter(ctx, "missing") {
		t.Error("removed a missing filter")
	}
	if !h.session.RemoveFilter(ctx, a.ID()) {
		t.Fatal("RemoveFilter returned false")
	}
	active := h.session.ActiveFilters()
	if len(active) != 1 || active[0].ID() != b.ID() {
		t.Fatalf("active = %v", active)
	}

	h.session.ClearAllFilters(ctx)
	if len(h.session.ActiveFilters()) != 0 || len(h.filters.items) != 0 {
		t.Fatalf("filters remain after clear")
	}
}

func TestActiveFilters_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	_, _ = h.session.AddFilter(ctx, filter.Type, filter.Text("user"), "")

	got := h.session.ActiveFilters()
	got[0] = filter.Filter{}
	if h.session.ActiveFilters()[0].ID() == "" {
		t.Fatal("ActiveFilters aliases session state")
	}
}

// --- saved queries ---

func TestSavedQueries_Lifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	f, _ := h.session.AddFilter(ctx, filter.Status, filter.Text("active"), "")

	sq, err := h.session.SaveQuery(ctx, "Active", "hello", h.session.ActiveFilters())
	if err != nil {
		t.Fatalf("SaveQuery: %v", err)
	}
	if !sq.CreatedAt().Equal(h.clock.Now()) || len(h.saved.items) != 1 {
		t.Errorf("saved = %+v, stored %d", sq, len(h.saved.items))
	}

	h.session.ClearAllFilters(ctx)
	if q := h.session.LoadSavedQuery(ctx, sq.ID()); q != "hello" {
		t.Fatalf("LoadSavedQuery = %q", q)
	}
	active := h.session.ActiveFilters()
	if len(active) != 1 || active[0].ID() != f.ID() {
		t.Fatalf("active after load = %v", active)
	}
	if len(h.filters.items) != 1 {
		t.Error("restored filters not persisted")
	}

	if !h.session.DeleteSavedQuery(ctx, sq.ID()) {
		t.Fatal("DeleteSavedQuery returned false")
	}
	if len(h.session.SavedQueries()) != 0 || len(h.saved.items) != 0 {
		t.Fatal("saved query remains")
	}
}

func TestLoadSavedQuery_UnknownID(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	_, _ = h.session.AddFilter(ctx, filter.Type, filter.Text("user"), "")
	saves := h.filters.saves

	if q := h.session.LoadSavedQuery(ctx, "nope"); q != "" {
		t.Fatalf("LoadSavedQuery = %q, want empty", q)
	}
	if len(h.session.ActiveFilters()) != 1 || h.filters.saves != saves {
		t.Error("unknown id changed the active filters")
	}
	if h.session.DeleteSavedQuery(ctx, "nope") {
		t.Error("DeleteSavedQuery(unknown) = true")
	}
}

func TestSaveQuery_Invalid(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	if _, err := h.session.SaveQuery(ctx, "  ", "q", nil); err == nil {
		t.Fatal("expected error for blank name")
	}
	if h.saved.saves != 0 {
		t.Error("invalid saved query persisted")
	}
}

// --- suggestions, history, cache ---

func TestGenerateSuggestions_EmptyQueryUsesHistory(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	for _, q := range []string{"q1", "q2", "q3", "q4", "q5"} {
		h.session.PerformSearch(ctx, q, nil, request.Default())
	}

	got := h.session.GenerateSuggestions("", corpus())
	want := []string{"q5", "q4", "q3", "q2", "q1"}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i, s := range got {
		if s.Text() != want[i] || s.Kind() != suggestion.History {
			t.Errorf("got[%d] = %+v, want history %q", i, s, want[i])
		}
	}
}

func TestGenerateSuggestions_IncludesSavedQueries(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	_, _ = h.session.SaveQuery(ctx, "Weekly goodbye", "goodbye", nil)

	got := h.session.GenerateSuggestions("goodbye", corpus())
	if len(got) != 1 || got[0].Kind() != suggestion.Saved || got[0].Text() != "goodbye" {
		t.Fatalf("got %+v", got)
	}
}

func TestClearSearchHistory(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	h.session.PerformSearch(ctx, "hello", nil, request.Default())
	h.session.ClearSearchHistory(ctx)

	if len(h.session.History()) != 0 || len(h.history.items) != 0 {
		t.Fatal("history remains after clear")
	}
}

func TestClearCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	h.session.ClearCache()
	h.session.PerformSearch(ctx, "hello", corpus(), request.Default())
	if h.scorer.calls != 2*len(corpus()) {
		t.Fatalf("cache not cleared: %d calls", h.scorer.calls)
	}
}

// --- construction ---

func TestNewSession_LoadsPersistedState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(ctx)
	_, _ = h.session.AddFilter(ctx, filter.Type, filter.Text("user"), "")
	_, _ = h.session.SaveQuery(ctx, "Users", "type:user", nil)
	h.session.PerformSearch(ctx, "hello", nil, request.Default())

	s := h.reload(ctx)
	if len(s.ActiveFilters()) != 1 || len(s.SavedQueries()) != 1 {
		t.Errorf("filters=%d saved=%d", len(s.ActiveFilters()), len(s.SavedQueries()))
	}
	if !sameStrings(s.History(), []string{"hello"}) {
		t.Errorf("history = %v", s.History())
	}
}

func TestNewSession_UnreadableStateStartsEmpty(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	h := newHarness(ctx)
	h.history.loadErr = errors.New("timeout")

	s := NewSession(ctx, "test",
		Repositories{Filters: h.filters, History: h.history, Saved: h.saved},
		nil, nil, WithLogger(zap.New(core)),
	)
	if len(s.History()) != 0 {
		t.Errorf("history = %v", s.History())
	}
	if logs.Len() != 1 {
		t.Errorf("warnings = %d, want 1", logs.Len())
	}
	if s.Name() != "test" {
		t.Errorf("Name() = %q", s.Name())
	}
}
