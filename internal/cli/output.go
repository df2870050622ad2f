package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/tagseek/internal/domain/codec"
	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/domain/search/savedquery"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type filterOutput struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Value    json.RawMessage `json:"value"`
	Operator string          `json:"operator"`
	Label    string          `json:"label"`
}

func filterToOutput(f filter.Filter) filterOutput {
	val, err := filter.EncodeValue(f.Value())
	if err != nil {
		val = json.RawMessage("null")
	}
	return filterOutput{
		ID:       f.ID(),
		Type:     string(f.Kind()),
		Value:    val,
		Operator: f.Operator(),
		Label:    f.Label(),
	}
}

func filtersToOutput(fs []filter.Filter) []filterOutput {
	out := make([]filterOutput, len(fs))
	for i, f := range fs {
		out[i] = filterToOutput(f)
	}
	return out
}

type savedOutput struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Query     string         `json:"query"`
	Filters   []filterOutput `json:"filters"`
	CreatedAt string         `json:"created_at"`
}

func savedToOutput(sq savedquery.SavedQuery) savedOutput {
	return savedOutput{
		ID:        sq.ID(),
		Name:      sq.Name(),
		Query:     sq.Query(),
		Filters:   filtersToOutput(sq.Filters()),
		CreatedAt: sq.CreatedAt().UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func printFilters(w io.Writer, fs []filter.Filter) {
	if len(fs) == 0 {
		fmt.Fprintln(w, "No active filters.")
		return
	}
	for _, f := range fs {
		fmt.Fprintf(w, "%s  %s\n", f.ID(), f.Label())
	}
}

// tagLine renders clean tags for a result row.
func tagLine(tags []string) string {
	return strings.Join(codec.CleanTags(tags), " ")
}
