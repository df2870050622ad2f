// Package score computes relevance of an entity for a parsed query.
package score

import (
	"strings"

	"github.com/kailas-cloud/tagseek/internal/domain/entity"
	"github.com/kailas-cloud/tagseek/internal/domain/search/query"
)

// Base scores per match class, before the term weight is applied.
const (
	PhraseMatch = 10

	FieldID      = 20
	FieldType    = 15
	FieldTag     = 10
	FieldContent = 5
	FieldOther   = 8

	WordID        = 15
	WordTagPrefix = 8
	WordTag       = 4
	WordText      = 2
)

// Scorer is the default relevance model. The zero value is ready to use.
type Scorer struct{}

// Score sums termScore × weight over terms. No terms yields 0.
func (Scorer) Score(v entity.View, terms []query.Term) float64 {
	var total float64
	for _, t := range terms {
		total += termScore(v, t) * t.Weight()
	}
	return total
}

func termScore(v entity.View, t query.Term) float64 {
	value := strings.ToLower(t.Value())
	switch t.Kind() {
	case query.Phrase:
		if strings.Contains(v.Full(), value) {
			return PhraseMatch
		}
		return 0
	case query.Field:
		return fieldScore(v, strings.ToLower(t.Key()), value)
	default:
		return wordScore(v, value)
	}
}

func fieldScore(v entity.View, key, value string) float64 {
	switch key {
	case "id":
		if strings.Contains(v.LowerID(), value) {
			return FieldID
		}
	case "type":
		for _, tag := range v.LowerTags() {
			if strings.HasPrefix(tag, "type:") && strings.Contains(tag, value) {
				return FieldType
			}
		}
	case "tag":
		for _, tag := range v.LowerTags() {
			if strings.Contains(tag, value) {
				return FieldTag
			}
		}
	case "content":
		if strings.Contains(v.Text(), value) {
			return FieldContent
		}
	default:
		if strings.Contains(v.Full(), key+":"+value) {
			return FieldOther
		}
	}
	return 0
}

// wordScore is additive: every matching tag contributes.
func wordScore(v entity.View, value string) float64 {
	var s float64
	if strings.Contains(v.LowerID(), value) {
		s += WordID
	}
	for _, tag := range v.LowerTags() {
		if !strings.Contains(tag, value) {
			continue
		}
		if strings.HasPrefix(tag, value) {
			s += WordTagPrefix
		} else {
			s += WordTag
		}
	}
	if strings.Contains(v.Text(), value) {
		s += WordText
	}
	return s
}
