package entity

import (
	"strings"

	"github.com/kailas-cloud/tagseek/internal/domain/codec"
)

// View is the searchable projection of an Entity, computed once and shared by scoring and
// filtering. All lower-cased fields are for case-insensitive containment checks.
type View struct {
	entity    Entity
	cleanTags []string
	lowerTags []string
	lowerID   string
	text      string
	decoded   bool
	full      string
}

// Analyze builds the View of e.
func Analyze(e Entity) View {
	clean := codec.CleanTags(e.tags)
	lower := make([]string, len(clean))
	for i, t := range clean {
		lower[i] = strings.ToLower(t)
	}

	text, ok := codec.DecodeContent(e.content)
	text = strings.ToLower(text)

	parts := make([]string, 0, len(lower)+2)
	parts = append(parts, e.id)
	parts = append(parts, lower...)
	parts = append(parts, text)

	return View{
		entity:    e,
		cleanTags: clean,
		lowerTags: lower,
		lowerID:   strings.ToLower(e.id),
		text:      text,
		decoded:   ok,
		full:      strings.ToLower(strings.Join(parts, " ")),
	}
}

// Entity returns the analyzed entity.
func (v View) Entity() Entity { return v.entity }

// CleanTags returns tags without timestamp prefixes, original case.
func (v View) CleanTags() []string { return v.cleanTags }

// LowerTags returns clean tags, lower-cased.
func (v View) LowerTags() []string { return v.lowerTags }

// LowerID returns the lower-cased id.
func (v View) LowerID() string { return v.lowerID }

// Text returns the decoded, lower-cased content ("" when absent or undecodable).
func (v View) Text() string { return v.text }

// Decoded reports whether the content blob decoded cleanly.
func (v View) Decoded() bool { return v.decoded }

// Full returns id, clean tags and text joined by spaces, lower-cased.
func (v View) Full() string { return v.full }
