package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidFilter signals a filter whose value cannot be decoded for its type.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidQuery signals a malformed search request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidSort signals an unknown sort key or sort order.
	ErrInvalidSort = errors.New("invalid sort")
	// ErrUnsupportedFormat signals an unknown export format.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidSession signals a session name that cannot be used as a key segment.
	ErrInvalidSession = errors.New("invalid session")
)

// KeyPrefix is the default namespace for every key written to the key/value store.
const KeyPrefix = "tagseek:"
