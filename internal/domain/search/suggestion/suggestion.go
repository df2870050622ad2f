package suggestion

// Kind identifies where a suggestion came from.
type Kind string

// Suggestion sources, in pipeline priority order.
const (
	Completion Kind = "completion"
	Field      Kind = "field"
	Saved      Kind = "saved"
	History    Kind = "history"
)

// Suggestion is a single autocomplete candidate.
type Suggestion struct {
	kind  Kind
	text  string
	label string
}

// New creates a suggestion. An empty label defaults to text.
func New(kind Kind, text, label string) Suggestion {
	if label == "" {
		label = text
	}
	return Suggestion{kind: kind, text: text, label: label}
}

// Kind returns the suggestion source.
func (s Suggestion) Kind() Kind { return s.kind }

// Text returns the text to insert into the search box.
func (s Suggestion) Text() string { return s.text }

// Label returns the display text.
func (s Suggestion) Label() string { return s.label }
