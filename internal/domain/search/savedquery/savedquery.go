package savedquery

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/tagseek/internal/domain"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
)

// SavedQuery is a named (query, filter set) pair kept for reuse.
type SavedQuery struct {
	id        string
	name      string
	query     string
	filters   []filter.Filter
	createdAt time.Time
}

// New validates and creates a SavedQuery.
func New(id, name, query string, filters []filter.Filter, createdAt time.Time) (SavedQuery, error) {
	if id == "" {
		return SavedQuery{}, fmt.Errorf("%w: saved query id is required", domain.ErrInvalidQuery)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedQuery{}, fmt.Errorf("%w: saved query name is required", domain.ErrInvalidQuery)
	}
	return SavedQuery{
		id:        id,
		name:      name,
		query:     query,
		filters:   slices.Clone(filters),
		createdAt: createdAt,
	}, nil
}

// ID returns the saved query identifier.
func (s SavedQuery) ID() string { return s.id }

// Name returns the display name.
func (s SavedQuery) Name() string { return s.name }

// Query returns the query string.
func (s SavedQuery) Query() string { return s.query }

// Filters returns a copy of the saved filter set.
func (s SavedQuery) Filters() []filter.Filter { return slices.Clone(s.filters) }

// CreatedAt returns the creation time.
func (s SavedQuery) CreatedAt() time.Time { return s.createdAt }
