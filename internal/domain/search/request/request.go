package request

import (
	"fmt"

	"github.com/kailas-cloud/tagseek/internal/domain"
)

// MaxQueryLength is the maximum accepted search query length at the API boundaries.
const MaxQueryLength = 4096

// SortKey names the post-filter sort stage.
type SortKey string

// Sort keys. The empty key disables sorting.
const (
	SortNone      SortKey = ""
	SortRelevance SortKey = "relevance"
	SortCreated   SortKey = "created"
	SortUpdated   SortKey = "updated"
	SortID        SortKey = "id"
	SortSize      SortKey = "size"
)

// IsValid reports whether k is a known key (SortNone included).
func (k SortKey) IsValid() bool {
	switch k {
	case SortNone, SortRelevance, SortCreated, SortUpdated, SortID, SortSize:
		return true
	}
	return false
}

// Order is the sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// IsValid reports whether o is a known direction.
func (o Order) IsValid() bool { return o == Asc || o == Desc }

// Options are the per-call search options.
type Options struct {
	skipCache bool
	sortBy    SortKey
	order     Order
}

// New validates search options. An empty order defaults to Desc.
func New(skipCache bool, sortBy SortKey, order Order) (Options, error) {
	if !sortBy.IsValid() {
		return Options{}, fmt.Errorf("%w: unknown sort key %q", domain.ErrInvalidSort, sortBy)
	}
	if order == "" {
		order = Desc
	}
	if !order.IsValid() {
		return Options{}, fmt.Errorf("%w: unknown sort order %q", domain.ErrInvalidSort, order)
	}
	return Options{skipCache: skipCache, sortBy: sortBy, order: order}, nil
}

// Default returns options with caching enabled and no sort stage.
func Default() Options { return Options{order: Desc} }

// SkipCache reports whether the result cache is bypassed for this call.
func (o Options) SkipCache() bool { return o.skipCache }

// SortBy returns the sort key (SortNone when no sort stage runs).
func (o Options) SortBy() SortKey { return o.sortBy }

// Order returns the sort direction.
func (o Options) Order() Order {
	if o.order == "" {
		return Desc
	}
	return o.order
}

// ValidateQuery rejects queries longer than MaxQueryLength.
func ValidateQuery(q string) error {
	if len(q) > MaxQueryLength {
		return fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	return nil
}
