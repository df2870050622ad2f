package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagseek/internal/app"
	"github.com/kailas-cloud/tagseek/internal/db/badger"
	healthuc "github.com/kailas-cloud/tagseek/internal/usecase/health"
)

// --- Mocks ---

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Helpers ---

func newTestRouter(t *testing.T, pingErr error) http.Handler {
	t.Helper()
	store, err := badger.Open("", true, zap.NewNop())
	if err != nil {
		t.Fatalf("badger.Open: %v", err)
	}
	t.Cleanup(store.Close)

	reg := app.NewRegistry(store, app.DefaultSettings(), zap.NewNop(), app.Metrics{})
	srv := NewServer(reg, healthuc.New(&mockPinger{err: pingErr}, "memory"), zap.NewNop())

	r := chi.NewRouter()
	srv.Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code ErrorCode) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	if got := decode[ErrorResponse](t, rr); got.Code != code {
		t.Errorf("code = %q, want %q", got.Code, code)
	}
}

var twoEntities = []EntityDTO{
	{ID: "e1", Tags: []string{"type:user"}},
	{ID: "e2", Tags: []string{"type:document"}},
}

// --- Search ---

func TestSearch_FieldQuery(t *testing.T) {
	h := newTestRouter(t, nil)
	rr := do(t, h, http.MethodPost, "/sessions/default/search", SearchRequest{
		Query:    "type:user",
		Entities: twoEntities,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[SearchResponse](t, rr)
	if resp.Total != 1 || resp.Results[0].ID != "e1" {
		t.Fatalf("results = %+v", resp.Results)
	}
	if resp.Results[0].SearchScore == nil || *resp.Results[0].SearchScore <= 0 {
		t.Errorf("score = %v", resp.Results[0].SearchScore)
	}
}

func TestSearch_BlankQueryReturnsUnscored(t *testing.T) {
	h := newTestRouter(t, nil)
	resp := decode[SearchResponse](t, do(t, h, http.MethodPost, "/sessions/default/search", SearchRequest{
		Entities: twoEntities,
	}))
	if resp.Total != 2 {
		t.Fatalf("total = %d", resp.Total)
	}
	for _, r := range resp.Results {
		if r.SearchScore != nil {
			t.Errorf("%s carries a score", r.ID)
		}
	}
}

func TestSearch_SortByID(t *testing.T) {
	h := newTestRouter(t, nil)
	resp := decode[SearchResponse](t, do(t, h, http.MethodPost, "/sessions/default/search", SearchRequest{
		Entities:  twoEntities,
		SortBy:    "id",
		SortOrder: "desc",
	}))
	if resp.Results[0].ID != "e2" || resp.Results[1].ID != "e1" {
		t.Errorf("order = %s, %s", resp.Results[0].ID, resp.Results[1].ID)
	}
}

func TestSearch_Rejections(t *testing.T) {
	h := newTestRouter(t, nil)
	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   ErrorCode
	}{
		{"malformed body", "/sessions/default/search", "{", http.StatusBadRequest, CodeBadRequest},
		{"unknown sort key", "/sessions/default/search",
			SearchRequest{SortBy: "priority"}, http.StatusBadRequest, CodeInvalidSort},
		{"unknown order", "/sessions/default/search",
			SearchRequest{SortBy: "id", SortOrder: "sideways"}, http.StatusBadRequest, CodeInvalidSort},
		{"entity without id", "/sessions/default/search",
			SearchRequest{Entities: []EntityDTO{{Tags: []string{"a"}}}}, http.StatusBadRequest, CodeValidationFailed},
		{"query too long", "/sessions/default/search",
			SearchRequest{Query: strings.Repeat("x", 5000)}, http.StatusBadRequest, CodeValidationFailed},
		{"invalid session", "/sessions/" + strings.Repeat("s", 65) + "/search",
			SearchRequest{}, http.StatusBadRequest, CodeInvalidSession},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expectError(t, do(t, h, http.MethodPost, tc.path, tc.body), tc.status, tc.code)
		})
	}
}

// --- Export ---

func TestExport_CSV(t *testing.T) {
	h := newTestRouter(t, nil)
	rr := do(t, h, http.MethodPost, "/sessions/default/export?format=CSV", SearchRequest{
		Query:    "user",
		Entities: twoEntities,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if lines[0] != "id,tags,created_at,updated_at,size,search_score" || len(lines) != 2 {
		t.Errorf("csv = %q", lines)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	h := newTestRouter(t, nil)
	rr := do(t, h, http.MethodPost, "/sessions/default/export?format=xml", SearchRequest{})
	expectError(t, rr, http.StatusBadRequest, CodeUnsupportedFormat)
}

// --- Filters ---

func TestFilters_Lifecycle(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/sessions/s1/filters", `{"type":"type","value":"user"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", rr.Code, rr.Body.String())
	}
	added := decode[FilterDTO](t, rr)
	if added.ID == "" || added.Label != "Type: user" || added.Operator != "equals" {
		t.Errorf("added = %+v", added)
	}

	resp := decode[SearchResponse](t, do(t, h, http.MethodPost, "/sessions/s1/search", SearchRequest{
		Entities: twoEntities,
	}))
	if resp.Total != 1 || resp.Results[0].ID != "e1" {
		t.Errorf("filtered results = %+v", resp.Results)
	}

	list := decode[[]FilterDTO](t, do(t, h, http.MethodGet, "/sessions/s1/filters", nil))
	if len(list) != 1 || list[0].ID != added.ID {
		t.Errorf("list = %+v", list)
	}

	if rr := do(t, h, http.MethodDelete, "/sessions/s1/filters/"+added.ID, nil); rr.Code != http.StatusNoContent {
		t.Errorf("remove status = %d", rr.Code)
	}
	expectError(t, do(t, h, http.MethodDelete, "/sessions/s1/filters/"+added.ID, nil),
		http.StatusNotFound, CodeNotFound)
}

func TestFilters_Clear(t *testing.T) {
	h := newTestRouter(t, nil)
	do(t, h, http.MethodPost, "/sessions/s1/filters", `{"type":"status","value":"active"}`)
	do(t, h, http.MethodPost, "/sessions/s1/filters", `{"type":"size","value":{"min":1,"max":9}}`)

	if rr := do(t, h, http.MethodDelete, "/sessions/s1/filters", nil); rr.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rr.Code)
	}
	if list := decode[[]FilterDTO](t, do(t, h, http.MethodGet, "/sessions/s1/filters", nil)); len(list) != 0 {
		t.Errorf("list = %+v", list)
	}
}

func TestAddFilter_Rejections(t *testing.T) {
	h := newTestRouter(t, nil)
	expectError(t, do(t, h, http.MethodPost, "/sessions/s1/filters", `{"value":"user"}`),
		http.StatusBadRequest, CodeValidationFailed)
	expectError(t, do(t, h, http.MethodPost, "/sessions/s1/filters", `{"type":"size","value":"big"}`),
		http.StatusBadRequest, CodeInvalidFilter)
}

// --- Saved queries ---

func TestSavedQueries_Lifecycle(t *testing.T) {
	h := newTestRouter(t, nil)
	do(t, h, http.MethodPost, "/sessions/s1/filters", `{"type":"type","value":"user"}`)

	rr := do(t, h, http.MethodPost, "/sessions/s1/saved-queries", SaveQueryRequest{Name: "users", Query: "alice"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("save status = %d: %s", rr.Code, rr.Body.String())
	}
	saved := decode[SavedQueryDTO](t, rr)
	if len(saved.Filters) != 1 || saved.Filters[0].Label != "Type: user" {
		t.Fatalf("omitted filters must default to the active set: %+v", saved.Filters)
	}

	do(t, h, http.MethodDelete, "/sessions/s1/filters", nil)

	load := decode[LoadSavedQueryResponse](t,
		do(t, h, http.MethodPost, "/sessions/s1/saved-queries/"+saved.ID+"/load", nil))
	if load.Query != "alice" {
		t.Errorf("loaded query = %q", load.Query)
	}
	if list := decode[[]FilterDTO](t, do(t, h, http.MethodGet, "/sessions/s1/filters", nil)); len(list) != 1 {
		t.Errorf("filters after load = %+v", list)
	}

	list := decode[[]SavedQueryDTO](t, do(t, h, http.MethodGet, "/sessions/s1/saved-queries", nil))
	if len(list) != 1 || list[0].Name != "users" {
		t.Errorf("list = %+v", list)
	}

	if rr := do(t, h, http.MethodDelete, "/sessions/s1/saved-queries/"+saved.ID, nil); rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rr.Code)
	}
	expectError(t, do(t, h, http.MethodDelete, "/sessions/s1/saved-queries/"+saved.ID, nil),
		http.StatusNotFound, CodeNotFound)
}

func TestSaveQuery_ExplicitFilters(t *testing.T) {
	h := newTestRouter(t, nil)
	rr := do(t, h, http.MethodPost, "/sessions/s1/saved-queries",
		`{"name":"recent","query":"","filters":[{"type":"created","value":{"start":"2024-01-01","end":"2024-02-01"}}]}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	saved := decode[SavedQueryDTO](t, rr)
	if len(saved.Filters) != 1 || saved.Filters[0].ID == "" {
		t.Fatalf("filters = %+v", saved.Filters)
	}
	if saved.Filters[0].Label != "Created: 2024-01-01 to 2024-02-01" {
		t.Errorf("label = %q", saved.Filters[0].Label)
	}
}

func TestSaveQuery_Rejections(t *testing.T) {
	h := newTestRouter(t, nil)
	expectError(t, do(t, h, http.MethodPost, "/sessions/s1/saved-queries", SaveQueryRequest{Name: "  "}),
		http.StatusBadRequest, CodeValidationFailed)
	expectError(t, do(t, h, http.MethodPost, "/sessions/s1/saved-queries",
		`{"name":"x","filters":[{"type":"size","value":"big"}]}`),
		http.StatusBadRequest, CodeInvalidFilter)
}

func TestLoadSavedQuery_UnknownID(t *testing.T) {
	h := newTestRouter(t, nil)
	rr := do(t, h, http.MethodPost, "/sessions/s1/saved-queries/missing/load", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := decode[LoadSavedQueryResponse](t, rr); got.Query != "" {
		t.Errorf("query = %q", got.Query)
	}
}

// --- History, suggestions, cache ---

func TestHistory(t *testing.T) {
	h := newTestRouter(t, nil)
	for _, q := range []string{"alpha", "beta", "alpha"} {
		do(t, h, http.MethodPost, "/sessions/s1/search", SearchRequest{Query: q})
	}

	got := decode[HistoryResponse](t, do(t, h, http.MethodGet, "/sessions/s1/history", nil))
	if strings.Join(got.Items, ",") != "alpha,beta" {
		t.Errorf("history = %v", got.Items)
	}

	if rr := do(t, h, http.MethodDelete, "/sessions/s1/history", nil); rr.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rr.Code)
	}
	if got := decode[HistoryResponse](t, do(t, h, http.MethodGet, "/sessions/s1/history", nil)); len(got.Items) != 0 {
		t.Errorf("history after clear = %v", got.Items)
	}
}

func TestSuggest(t *testing.T) {
	h := newTestRouter(t, nil)
	got := decode[[]SuggestionDTO](t, do(t, h, http.MethodPost, "/sessions/s1/suggestions", SuggestRequest{
		Query:    "type:u",
		Entities: twoEntities,
	}))
	if len(got) == 0 || got[0].Text != "type:user" || got[0].Kind != "completion" {
		t.Errorf("suggestions = %+v", got)
	}
}

func TestClearCache(t *testing.T) {
	h := newTestRouter(t, nil)
	if rr := do(t, h, http.MethodDelete, "/sessions/s1/cache", nil); rr.Code != http.StatusNoContent {
		t.Errorf("status = %d", rr.Code)
	}
}

// --- Health ---

func TestHealthCheck(t *testing.T) {
	rr := do(t, newTestRouter(t, nil), http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := decode[HealthResponse](t, rr); got.Status != "ok" || got.Checks["store:memory"] != "ok" {
		t.Errorf("health = %+v", got)
	}

	rr = do(t, newTestRouter(t, errors.New("down")), http.MethodGet, "/health", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("degraded status = %d", rr.Code)
	}
}
