package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagseek/internal/domain"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/domain/search/request"
	"github.com/kailas-cloud/tagseek/internal/usecase/export"
	healthuc "github.com/kailas-cloud/tagseek/internal/usecase/health"
	searchuc "github.com/kailas-cloud/tagseek/internal/usecase/search"
)

// maxBodyBytes bounds request bodies; entity lists travel inline.
const maxBodyBytes = 32 << 20

// Server serves the session API.
type Server struct {
	sessions      *searchuc.Registry
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(sessions *searchuc.Registry, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{
		sessions:      sessions,
		health:        health,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/sessions/{session}", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Post("/export", s.Export)
		r.Post("/suggestions", s.Suggest)

		r.Get("/filters", s.ListFilters)
		r.Post("/filters", s.AddFilter)
		r.Delete("/filters", s.ClearFilters)
		r.Delete("/filters/{id}", s.RemoveFilter)

		r.Get("/saved-queries", s.ListSavedQueries)
		r.Post("/saved-queries", s.SaveQuery)
		r.Post("/saved-queries/{id}/load", s.LoadSavedQuery)
		r.Delete("/saved-queries/{id}", s.DeleteSavedQuery)

		r.Get("/history", s.History)
		r.Delete("/history", s.ClearHistory)
		r.Delete("/cache", s.ClearCache)
	})
}

// withSession runs fn against the session named in the URL and maps its error.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*searchuc.Session) error) {
	name := chi.URLParam(r, "session")
	if err := s.sessions.Do(r.Context(), name, fn); err != nil {
		s.handleDomainError(w, r, err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// Search handles POST /sessions/{session}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entities, opts, err := parseSearch(req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.withSession(w, r, func(sess *searchuc.Session) error {
		results := sess.PerformSearch(r.Context(), req.Query, entities, opts)
		writeJSON(w, http.StatusOK, SearchResponse{Results: resultsToDTO(results), Total: len(results)})
		return nil
	})
}

// Export handles POST /sessions/{session}/export?format=json|csv.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(export.JSON)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entities, opts, err := parseSearch(req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.withSession(w, r, func(sess *searchuc.Session) error {
		results := sess.PerformSearch(r.Context(), req.Query, entities, opts)

		var buf bytes.Buffer
		if err := export.Encode(&buf, results, format); err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="results.%s"`, format))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return nil
	})
}

// Suggest handles POST /sessions/{session}/suggestions.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entities, err := entitiesFromDTO(req.Entities)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.withSession(w, r, func(sess *searchuc.Session) error {
		writeJSON(w, http.StatusOK, suggestionsToDTO(sess.GenerateSuggestions(req.Query, entities)))
		return nil
	})
}

// ListFilters handles GET /sessions/{session}/filters.
func (s *Server) ListFilters(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *searchuc.Session) error {
		writeJSON(w, http.StatusOK, filtersToDTO(sess.ActiveFilters()))
		return nil
	})
}

// AddFilter handles POST /sessions/{session}/filters.
func (s *Server) AddFilter(w http.ResponseWriter, r *http.Request) {
	var req AddFilterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Filter type is required")
		return
	}
	kind := filter.Kind(req.Type)
	val, err := filter.DecodeValue(kind, req.Value)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	s.withSession(w, r, func(sess *searchuc.Session) error {
		f, err := sess.AddFilter(r.Context(), kind, val, req.Operator)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, filterToDTO(f))
		return nil
	})
}

// RemoveFilter handles DELETE /sessions/{session}/filters/{id}.
func (s *Server) RemoveFilter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withSession(w, r, func(sess *searchuc.Session) error {
		if !sess.RemoveFilter(r.Context(), id) {
			return fmt.Errorf("filter %q: %w", id, domain.ErrNotFound)
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// ClearFilters handles DELETE /sessions/{session}/filters.
func (s *Server) ClearFilters(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *searchuc.Session) error {
		sess.ClearAllFilters(r.Context())
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// ListSavedQueries handles GET /sessions/{session}/saved-queries.
func (s *Server) ListSavedQueries(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *searchuc.Session) error {
		saved := sess.SavedQueries()
		items := make([]SavedQueryDTO, len(saved))
		for i, sq := range saved {
			items[i] = savedQueryToDTO(sq)
		}
		writeJSON(w, http.StatusOK, items)
		return nil
	})
}

// SaveQuery handles POST /sessions/{session}/saved-queries.
func (s *Server) SaveQuery(w http.ResponseWriter, r *http.Request) {
	var req SaveQueryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := request.ValidateQuery(req.Query); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var explicit []filter.Filter
	if req.Filters != nil {
		fs, err := filtersFromDTO(*req.Filters)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		explicit = fs
	}

	s.withSession(w, r, func(sess *searchuc.Session) error {
		filters := explicit
		if req.Filters == nil {
			filters = sess.ActiveFilters()
		}
		sq, err := sess.SaveQuery(r.Context(), req.Name, req.Query, filters)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, savedQueryToDTO(sq))
		return nil
	})
}

// LoadSavedQuery handles POST /sessions/{session}/saved-queries/{id}/load.
// An unknown id yields an empty query and leaves the active filters untouched.
func (s *Server) LoadSavedQuery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withSession(w, r, func(sess *searchuc.Session) error {
		writeJSON(w, http.StatusOK, LoadSavedQueryResponse{Query: sess.LoadSavedQuery(r.Context(), id)})
		return nil
	})
}

// DeleteSavedQuery handles DELETE /sessions/{session}/saved-queries/{id}.
func (s *Server) DeleteSavedQuery(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withSession(w, r, func(sess *searchuc.Session) error {
		if !sess.DeleteSavedQuery(r.Context(), id) {
			return fmt.Errorf("saved query %q: %w", id, domain.ErrNotFound)
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// History handles GET /sessions/{session}/history.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *searchuc.Session) error {
		writeJSON(w, http.StatusOK, HistoryResponse{Items: sess.History()})
		return nil
	})
}

// ClearHistory handles DELETE /sessions/{session}/history.
func (s *Server) ClearHistory(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *searchuc.Session) error {
		sess.ClearSearchHistory(r.Context())
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// ClearCache handles DELETE /sessions/{session}/cache.
func (s *Server) ClearCache(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *searchuc.Session) error {
		sess.ClearCache()
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}
