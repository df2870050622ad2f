// Package export renders search results for download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kailas-cloud/tagseek/internal/domain"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
)

// Format is an export encoding.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	CSV  Format = "csv"
)

// ParseFormat validates a format name. Names are case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, CSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// Record is the exported form of a result.
type Record struct {
	ID          string   `json:"id"`
	Tags        []string `json:"tags"`
	Content     string   `json:"content,omitempty"`
	CreatedAt   *int64   `json:"created_at,omitempty"`
	UpdatedAt   *int64   `json:"updated_at,omitempty"`
	SearchScore *float64 `json:"search_score,omitempty"`
}

// NewRecord converts a result. Absent timestamps and scores stay nil.
func NewRecord(r result.Result) Record {
	e := r.Entity()
	rec := Record{ID: e.ID(), Tags: e.Tags(), Content: e.Content()}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if ns, ok := e.CreatedAt(); ok {
		rec.CreatedAt = &ns
	}
	if ns, ok := e.UpdatedAt(); ok {
		rec.UpdatedAt = &ns
	}
	if r.Scored() {
		s := r.Score()
		rec.SearchScore = &s
	}
	return rec
}

// Records converts a result list.
func Records(rs []result.Result) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = NewRecord(r)
	}
	return out
}

var csvHeader = []string{"id", "tags", "created_at", "updated_at", "size", "search_score"}

// Encode writes rs to w in format f.
func Encode(w io.Writer, rs []result.Result, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(Records(rs)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case CSV:
		return encodeCSV(w, rs)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, f)
	}
}

func encodeCSV(w io.Writer, rs []result.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rs {
		rec := NewRecord(r)
		row := []string{
			rec.ID,
			strings.Join(rec.Tags, ";"),
			optInt(rec.CreatedAt),
			optInt(rec.UpdatedAt),
			strconv.Itoa(len(rec.Content)),
			"",
		}
		if rec.SearchScore != nil {
			row[5] = strconv.FormatFloat(*rec.SearchScore, 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", rec.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func optInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
