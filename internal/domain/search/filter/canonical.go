package filter

import (
	"slices"
	"strings"
)

// Field describes a filterable field for suggestions and UI pickers.
type Field struct {
	Key   Kind
	Label string
}

var displayNames = map[Kind]string{
	Type:    "Type",
	Status:  "Status",
	Created: "Created",
	Updated: "Updated",
	Tags:    "Tags",
	Content: "Content",
	Size:    "Size",
}

// Fields returns the filterable fields in display order.
func Fields() []Field {
	kinds := Kinds()
	out := make([]Field, len(kinds))
	for i, k := range kinds {
		out[i] = Field{Key: k, Label: displayNames[k]}
	}
	return out
}

// Canonical serializes a filter set independently of insertion order, ids and labels,
// so that equal constraint sets produce equal strings.
func Canonical(filters []Filter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		val, err := EncodeValue(f.value)
		if err != nil {
			val = []byte(Label(f.kind, f.value))
		}
		parts = append(parts, string(f.kind)+"\x1f"+f.operator+"\x1f"+string(val))
	}
	slices.Sort(parts)
	return strings.Join(parts, "\x1e")
}
