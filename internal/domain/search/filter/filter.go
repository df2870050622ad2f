package filter

import (
	"fmt"

	"github.com/kailas-cloud/tagseek/internal/domain"
)

// Kind is the filter type.
type Kind string

// Filter kinds.
const (
	Type    Kind = "type"
	Status  Kind = "status"
	Created Kind = "created"
	Updated Kind = "updated"
	Tags    Kind = "tags"
	Content Kind = "content"
	Size    Kind = "size"
)

// Kinds lists every known filter kind in display order.
func Kinds() []Kind {
	return []Kind{Type, Status, Created, Updated, Tags, Content, Size}
}

// IsValid reports whether k is a known kind. Unknown kinds are still representable: they
// round-trip through storage and pass every entity.
func (k Kind) IsValid() bool {
	_, ok := predicates[k]
	return ok
}

// Operator defaults by value shape.
const (
	OpEquals   = "equals"
	OpContains = "contains"
	OpBetween  = "between"
)

// DefaultOperator returns the operator recorded when the caller supplies none.
func DefaultOperator(k Kind) string {
	switch k {
	case Type, Status:
		return OpEquals
	case Created, Updated, Size:
		return OpBetween
	default:
		return OpContains
	}
}

// Filter is a structured constraint on entities. Filters combine with AND.
type Filter struct {
	id       string
	kind     Kind
	value    Value
	operator string
	label    string
}

// New validates that value has the shape kind expects and creates a Filter.
// An empty operator is replaced by DefaultOperator, an empty label by Label(kind, value).
func New(id string, kind Kind, value Value, operator, label string) (Filter, error) {
	if id == "" {
		return Filter{}, fmt.Errorf("%w: filter id is required", domain.ErrInvalidFilter)
	}
	if kind == "" {
		return Filter{}, fmt.Errorf("%w: filter type is required", domain.ErrInvalidFilter)
	}
	if value == nil {
		return Filter{}, fmt.Errorf("%w: value is required for %q", domain.ErrInvalidFilter, kind)
	}
	if err := checkShape(kind, value); err != nil {
		return Filter{}, err
	}
	if operator == "" {
		operator = DefaultOperator(kind)
	}
	if label == "" {
		label = Label(kind, value)
	}
	return Filter{id: id, kind: kind, value: value, operator: operator, label: label}, nil
}

// ID returns the filter identifier.
func (f Filter) ID() string { return f.id }

// Kind returns the filter type.
func (f Filter) Kind() Kind { return f.kind }

// Value returns the filter payload.
func (f Filter) Value() Value { return f.value }

// Operator returns the recorded operator. It is informational; evaluation depends on Kind.
func (f Filter) Operator() string { return f.operator }

// Label returns the display label.
func (f Filter) Label() string { return f.label }

func checkShape(kind Kind, value Value) error {
	var ok bool
	switch kind {
	case Type, Status, Tags, Content:
		_, ok = value.(Text)
	case Created, Updated:
		_, ok = value.(DateRange)
	case Size:
		_, ok = value.(SizeRange)
	default:
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: %q filter cannot take a %T value", domain.ErrInvalidFilter, kind, value)
	}
	return nil
}
