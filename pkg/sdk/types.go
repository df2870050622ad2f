package tagseek

import (
	"encoding/json"
	"time"
)

// Entity is a tagged record to search. Tags may carry a "<timestamp>|" prefix, which is
// ignored. Content is base64; empty means none. Zero times mean unset.
type Entity struct {
	ID        string
	Tags      []string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Result is a search hit. Scored is false when the query was blank.
type Result struct {
	Entity Entity
	Score  float64
	Scored bool
}

// FilterType selects the entity attribute a filter constrains.
type FilterType string

// Filter types.
const (
	ByType    FilterType = "type"
	ByStatus  FilterType = "status"
	ByCreated FilterType = "created"
	ByUpdated FilterType = "updated"
	ByTags    FilterType = "tags"
	ByContent FilterType = "content"
	BySize    FilterType = "size"
)

// FilterValue is one of Text, DateRange, SizeRange or RawValue.
type FilterValue interface {
	isFilterValue()
}

// Text is the value of type, status, tags and content filters.
type Text string

// DateRange bounds created and updated filters, inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// SizeRange bounds the encoded content length in bytes, inclusive.
type SizeRange struct {
	Min int64
	Max int64
}

// RawValue carries the value of a filter type this version does not know.
type RawValue json.RawMessage

func (Text) isFilterValue()      {}
func (DateRange) isFilterValue() {}
func (SizeRange) isFilterValue() {}
func (RawValue) isFilterValue()  {}

// Filter is an active or saved filter.
type Filter struct {
	ID       string
	Type     FilterType
	Value    FilterValue
	Operator string
	Label    string
}

// SuggestionKind classifies a suggestion.
type SuggestionKind string

// Suggestion kinds.
const (
	SuggestCompletion SuggestionKind = "completion"
	SuggestField      SuggestionKind = "field"
	SuggestSaved      SuggestionKind = "saved"
	SuggestHistory    SuggestionKind = "history"
)

// Suggestion is an autocomplete candidate.
type Suggestion struct {
	Kind  SuggestionKind
	Text  string
	Label string
}

// SavedQuery is a named query with its filters.
type SavedQuery struct {
	ID        string
	Name      string
	Query     string
	Filters   []Filter
	CreatedAt time.Time
}

// SortKey selects the post-ranking sort. The zero value keeps relevance order.
type SortKey string

// Sort keys.
const (
	SortNone      SortKey = ""
	SortRelevance SortKey = "relevance"
	SortCreated   SortKey = "created"
	SortUpdated   SortKey = "updated"
	SortID        SortKey = "id"
	SortSize      SortKey = "size"
)

// ExportFormat is an export encoding.
type ExportFormat string

// Export formats.
const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)
