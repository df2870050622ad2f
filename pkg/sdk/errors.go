package tagseek

import "github.com/kailas-cloud/tagseek/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrInvalidFilter     = domain.ErrInvalidFilter
	ErrInvalidQuery      = domain.ErrInvalidQuery
	ErrInvalidSort       = domain.ErrInvalidSort
	ErrInvalidSession    = domain.ErrInvalidSession
	ErrUnsupportedFormat = domain.ErrUnsupportedFormat
)
