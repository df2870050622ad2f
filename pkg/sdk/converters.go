package tagseek

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/tagseek/internal/domain"
	"github.com/kailas-cloud/tagseek/internal/domain/entity"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
	"github.com/kailas-cloud/tagseek/internal/domain/search/savedquery"
	"github.com/kailas-cloud/tagseek/internal/domain/search/suggestion"
)

func entityToDomain(e Entity) entity.Entity {
	out := entity.New(e.ID, e.Tags, e.Content)
	if !e.CreatedAt.IsZero() {
		out = out.WithCreatedAt(e.CreatedAt.UnixNano())
	}
	if !e.UpdatedAt.IsZero() {
		out = out.WithUpdatedAt(e.UpdatedAt.UnixNano())
	}
	return out
}

func entitiesToDomain(es []Entity) []entity.Entity {
	out := make([]entity.Entity, len(es))
	for i, e := range es {
		out[i] = entityToDomain(e)
	}
	return out
}

func entityFromDomain(e entity.Entity) Entity {
	out := Entity{ID: e.ID(), Tags: e.Tags(), Content: e.Content()}
	if ns, ok := e.CreatedAt(); ok {
		out.CreatedAt = time.Unix(0, ns).UTC()
	}
	if ns, ok := e.UpdatedAt(); ok {
		out.UpdatedAt = time.Unix(0, ns).UTC()
	}
	return out
}

func resultsFromDomain(rs []result.Result) []Result {
	out := make([]Result, len(rs))
	for i, r := range rs {
		out[i] = Result{Entity: entityFromDomain(r.Entity()), Score: r.Score(), Scored: r.Scored()}
	}
	return out
}

func filterValueToDomain(v FilterValue) (filter.Value, error) {
	switch val := v.(type) {
	case Text:
		return filter.Text(val), nil
	case DateRange:
		return filter.DateRange{Start: val.Start.UnixMilli(), End: val.End.UnixMilli()}, nil
	case SizeRange:
		return filter.SizeRange{Min: val.Min, Max: val.Max}, nil
	case RawValue:
		if !json.Valid(val) {
			return nil, fmt.Errorf("%w: raw value is not JSON", domain.ErrInvalidFilter)
		}
		return filter.Raw(val), nil
	default:
		return nil, fmt.Errorf("%w: value is required", domain.ErrInvalidFilter)
	}
}

func filterValueFromDomain(v filter.Value) FilterValue {
	switch val := v.(type) {
	case filter.Text:
		return Text(val)
	case filter.DateRange:
		return DateRange{Start: time.UnixMilli(val.Start).UTC(), End: time.UnixMilli(val.End).UTC()}
	case filter.SizeRange:
		return SizeRange{Min: val.Min, Max: val.Max}
	case filter.Raw:
		return RawValue(val)
	default:
		return nil
	}
}

func filterFromDomain(f filter.Filter) Filter {
	return Filter{
		ID:       f.ID(),
		Type:     FilterType(f.Kind()),
		Value:    filterValueFromDomain(f.Value()),
		Operator: f.Operator(),
		Label:    f.Label(),
	}
}

func filtersFromDomain(fs []filter.Filter) []Filter {
	out := make([]Filter, len(fs))
	for i, f := range fs {
		out[i] = filterFromDomain(f)
	}
	return out
}

// filtersToDomain validates caller-built filters. Missing ids are generated.
func filtersToDomain(fs []Filter) ([]filter.Filter, error) {
	out := make([]filter.Filter, 0, len(fs))
	for i, f := range fs {
		val, err := filterValueToDomain(f.Value)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		id := f.ID
		if id == "" {
			id = uuid.NewString()
		}
		df, err := filter.New(id, filter.Kind(f.Type), val, f.Operator, f.Label)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		out = append(out, df)
	}
	return out, nil
}

func suggestionsFromDomain(ss []suggestion.Suggestion) []Suggestion {
	out := make([]Suggestion, len(ss))
	for i, s := range ss {
		out[i] = Suggestion{Kind: SuggestionKind(s.Kind()), Text: s.Text(), Label: s.Label()}
	}
	return out
}

func savedFromDomain(sq savedquery.SavedQuery) SavedQuery {
	return SavedQuery{
		ID:        sq.ID(),
		Name:      sq.Name(),
		Query:     sq.Query(),
		Filters:   filtersFromDomain(sq.Filters()),
		CreatedAt: sq.CreatedAt(),
	}
}
