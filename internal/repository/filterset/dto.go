package filterset

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
)

// FilterDTO is the stored JSON shape of a filter.
type FilterDTO struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Value    json.RawMessage `json:"value"`
	Operator string          `json:"operator,omitempty"`
	Label    string          `json:"label,omitempty"`
}

// ToDTO converts a domain filter to its stored form.
func ToDTO(f filter.Filter) (FilterDTO, error) {
	val, err := filter.EncodeValue(f.Value())
	if err != nil {
		return FilterDTO{}, fmt.Errorf("filter %s: %w", f.ID(), err)
	}
	return FilterDTO{
		ID:       f.ID(),
		Type:     string(f.Kind()),
		Value:    val,
		Operator: f.Operator(),
		Label:    f.Label(),
	}, nil
}

// FromDTO rebuilds a domain filter from its stored form.
func FromDTO(d FilterDTO) (filter.Filter, error) {
	kind := filter.Kind(d.Type)
	val, err := filter.DecodeValue(kind, d.Value)
	if err != nil {
		return filter.Filter{}, err
	}
	return filter.New(d.ID, kind, val, d.Operator, d.Label)
}

// ToDTOs converts a filter set, failing on the first unencodable value.
func ToDTOs(filters []filter.Filter) ([]FilterDTO, error) {
	out := make([]FilterDTO, 0, len(filters))
	for _, f := range filters {
		d, err := ToDTO(f)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
