package chi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/tagseek/internal/domain"
	"github.com/kailas-cloud/tagseek/internal/domain/entity"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/domain/search/request"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
	"github.com/kailas-cloud/tagseek/internal/domain/search/savedquery"
	"github.com/kailas-cloud/tagseek/internal/domain/search/suggestion"
)

// EntityDTO is the wire form of an entity. Timestamps are nanoseconds since the epoch.
type EntityDTO struct {
	ID        string   `json:"id"`
	Tags      []string `json:"tags"`
	Content   string   `json:"content,omitempty"`
	CreatedAt *int64   `json:"created_at,omitempty"`
	UpdatedAt *int64   `json:"updated_at,omitempty"`
}

// ResultDTO is an entity plus its relevance score, absent for unranked results.
type ResultDTO struct {
	EntityDTO
	SearchScore *float64 `json:"search_score,omitempty"`
}

// SearchRequest is the body of the search and export endpoints.
type SearchRequest struct {
	Query     string      `json:"query"`
	Entities  []EntityDTO `json:"entities"`
	SkipCache bool        `json:"skip_cache,omitempty"`
	SortBy    string      `json:"sort_by,omitempty"`
	SortOrder string      `json:"sort_order,omitempty"`
}

// SearchResponse lists ranked results.
type SearchResponse struct {
	Results []ResultDTO `json:"results"`
	Total   int         `json:"total"`
}

// SuggestRequest is the body of the suggestions endpoint.
type SuggestRequest struct {
	Query    string      `json:"query"`
	Entities []EntityDTO `json:"entities"`
}

// SuggestionDTO is one autocomplete candidate.
type SuggestionDTO struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

// FilterDTO is the wire form of a filter.
type FilterDTO struct {
	ID       string          `json:"id,omitempty"`
	Type     string          `json:"type"`
	Value    json.RawMessage `json:"value"`
	Operator string          `json:"operator,omitempty"`
	Label    string          `json:"label,omitempty"`
}

// AddFilterRequest is the body of POST filters.
type AddFilterRequest struct {
	Type     string          `json:"type"`
	Value    json.RawMessage `json:"value"`
	Operator string          `json:"operator,omitempty"`
}

// SaveQueryRequest is the body of POST saved-queries. Nil filters mean the active set.
type SaveQueryRequest struct {
	Name    string       `json:"name"`
	Query   string       `json:"query"`
	Filters *[]FilterDTO `json:"filters,omitempty"`
}

// SavedQueryDTO is the wire form of a saved query.
type SavedQueryDTO struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Query     string      `json:"query"`
	Filters   []FilterDTO `json:"filters"`
	CreatedAt time.Time   `json:"created_at"`
}

// LoadSavedQueryResponse carries the restored query string.
type LoadSavedQueryResponse struct {
	Query string `json:"query"`
}

// HistoryResponse lists recorded queries, most recent first.
type HistoryResponse struct {
	Items []string `json:"items"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func entitiesFromDTO(in []EntityDTO) ([]entity.Entity, error) {
	out := make([]entity.Entity, len(in))
	for i, d := range in {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: entities[%d]: id is required", domain.ErrInvalidQuery, i)
		}
		e := entity.New(d.ID, d.Tags, d.Content)
		if d.CreatedAt != nil {
			e = e.WithCreatedAt(*d.CreatedAt)
		}
		if d.UpdatedAt != nil {
			e = e.WithUpdatedAt(*d.UpdatedAt)
		}
		out[i] = e
	}
	return out, nil
}

func entityToDTO(e entity.Entity) EntityDTO {
	d := EntityDTO{ID: e.ID(), Tags: e.Tags(), Content: e.Content()}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if ns, ok := e.CreatedAt(); ok {
		d.CreatedAt = &ns
	}
	if ns, ok := e.UpdatedAt(); ok {
		d.UpdatedAt = &ns
	}
	return d
}

func resultsToDTO(rs []result.Result) []ResultDTO {
	out := make([]ResultDTO, len(rs))
	for i, r := range rs {
		out[i] = ResultDTO{EntityDTO: entityToDTO(r.Entity())}
		if r.Scored() {
			sc := r.Score()
			out[i].SearchScore = &sc
		}
	}
	return out
}

// parseSearch validates the query and sort options of a search request.
func parseSearch(req SearchRequest) ([]entity.Entity, request.Options, error) {
	if err := request.ValidateQuery(req.Query); err != nil {
		return nil, request.Options{}, err
	}
	opts, err := request.New(req.SkipCache, request.SortKey(req.SortBy), request.Order(req.SortOrder))
	if err != nil {
		return nil, request.Options{}, err
	}
	entities, err := entitiesFromDTO(req.Entities)
	if err != nil {
		return nil, request.Options{}, err
	}
	return entities, opts, nil
}

func filterToDTO(f filter.Filter) FilterDTO {
	val, err := filter.EncodeValue(f.Value())
	if err != nil {
		val = json.RawMessage("null")
	}
	return FilterDTO{
		ID:       f.ID(),
		Type:     string(f.Kind()),
		Value:    val,
		Operator: f.Operator(),
		Label:    f.Label(),
	}
}

func filtersToDTO(fs []filter.Filter) []FilterDTO {
	out := make([]FilterDTO, len(fs))
	for i, f := range fs {
		out[i] = filterToDTO(f)
	}
	return out
}

// filtersFromDTO decodes caller-supplied filters. Missing ids are generated.
func filtersFromDTO(in []FilterDTO) ([]filter.Filter, error) {
	out := make([]filter.Filter, 0, len(in))
	for i, d := range in {
		kind := filter.Kind(d.Type)
		val, err := filter.DecodeValue(kind, d.Value)
		if err != nil {
			return nil, fmt.Errorf("filters[%d]: %w", i, err)
		}
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		f, err := filter.New(id, kind, val, d.Operator, d.Label)
		if err != nil {
			return nil, fmt.Errorf("filters[%d]: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func savedQueryToDTO(sq savedquery.SavedQuery) SavedQueryDTO {
	return SavedQueryDTO{
		ID:        sq.ID(),
		Name:      sq.Name(),
		Query:     sq.Query(),
		Filters:   filtersToDTO(sq.Filters()),
		CreatedAt: sq.CreatedAt().UTC(),
	}
}

func suggestionsToDTO(ss []suggestion.Suggestion) []SuggestionDTO {
	out := make([]SuggestionDTO, len(ss))
	for i, s := range ss {
		out[i] = SuggestionDTO{Kind: string(s.Kind()), Text: s.Text(), Label: s.Label()}
	}
	return out
}
