package filter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/tagseek/internal/domain"
)

// Value is the payload of a Filter. The set of implementations is closed:
// Text, DateRange, SizeRange and Raw.
type Value interface {
	isValue()
}

// Text is a string payload (type, status, tags, content).
type Text string

// DateRange is an inclusive range of epoch milliseconds (created, updated).
type DateRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// SizeRange is an inclusive range of encoded content lengths (size).
type SizeRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Raw keeps the payload of a filter whose kind this build does not know.
type Raw json.RawMessage

func (Text) isValue()      {}
func (DateRange) isValue() {}
func (SizeRange) isValue() {}
func (Raw) isValue()       {}

// MarshalJSON emits the stored payload verbatim.
func (r Raw) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// EncodeValue serializes a Value to its JSON wire form.
func EncodeValue(v Value) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode filter value: %w", err)
	}
	return data, nil
}

// DecodeValue parses the JSON wire form of a value for kind.
// Date bounds accept epoch milliseconds, RFC 3339 timestamps or YYYY-MM-DD dates (UTC).
func DecodeValue(kind Kind, raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: value is required for %q", domain.ErrInvalidFilter, kind)
	}

	switch kind {
	case Type, Status, Tags, Content:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %q value must be a string", domain.ErrInvalidFilter, kind)
		}
		return Text(s), nil
	case Created, Updated:
		var wire struct {
			Start json.RawMessage `json:"start"`
			End   json.RawMessage `json:"end"`
		}
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, fmt.Errorf("%w: %q value must be {start, end}", domain.ErrInvalidFilter, kind)
		}
		start, err := decodeInstant(wire.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: %q start: %w", domain.ErrInvalidFilter, kind, err)
		}
		end, err := decodeInstant(wire.End)
		if err != nil {
			return nil, fmt.Errorf("%w: %q end: %w", domain.ErrInvalidFilter, kind, err)
		}
		return DateRange{Start: start, End: end}, nil
	case Size:
		var r SizeRange
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("%w: %q value must be {min, max}", domain.ErrInvalidFilter, kind)
		}
		return r, nil
	default:
		return Raw(bytes.Clone(raw)), nil
	}
}

func decodeInstant(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, errors.New("missing")
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return ms, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, errors.New("must be milliseconds or a date string")
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized date %q", s)
}

// Label renders the default display label for a filter.
func Label(kind Kind, v Value) string {
	name := displayNames[kind]
	if name == "" {
		name = string(kind)
	}
	switch val := v.(type) {
	case Text:
		return fmt.Sprintf("%s: %s", name, string(val))
	case DateRange:
		return fmt.Sprintf("%s: %s to %s", name, formatDate(val.Start), formatDate(val.End))
	case SizeRange:
		return fmt.Sprintf("%s: %d-%d", name, val.Min, val.Max)
	case Raw:
		return fmt.Sprintf("%s: %s", name, string(val))
	}
	return name
}

func formatDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.DateOnly)
}
