package score

import (
	"testing"

	"github.com/kailas-cloud/tagseek/internal/domain/codec"
	"github.com/kailas-cloud/tagseek/internal/domain/entity"
	"github.com/kailas-cloud/tagseek/internal/domain/search/query"
)

func sample() entity.View {
	return entity.Analyze(entity.New(
		"e1",
		[]string{"1700000000|type:document", "status:active"},
		codec.Encode("hello world"),
	))
}

func TestScore_NoTerms(t *testing.T) {
	if got := (Scorer{}).Score(sample(), nil); got != 0 {
		t.Fatalf("Score(nil) = %v, want 0", got)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  float64
	}{
		{"content field", "content:hello", 15},
		{"content field miss", "content:bye", 0},
		{"id field", "id:E1", 60},
		{"type field", "type:doc", 45},
		{"type field needs type tag", "type:active", 0},
		{"tag field", "tag:active", 30},
		{"other field literal", "status:active", 24},
		{"other field miss", "owner:bob", 0},
		{"phrase", `"hello world"`, 20},
		{"phrase spans id and tags", `"e1 type:document"`, 20},
		{"phrase miss", `"world hello"`, 0},
		// "e" hits id (15), both tags "type:document" (4) and "status:active" (4), text "hello" (2)
		{"word additive", "e", 25},
		// tag prefix "status" = 8
		{"word tag prefix", "status", 8},
		{"word text only", "world", 2},
		{"case insensitive", "HELLO", 2},
		{"sum of terms", `content:hello world`, 17},
		{"timestamp prefix ignored", "1700000000", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := (Scorer{}).Score(sample(), query.Parse(tc.query))
			if got != tc.want {
				t.Errorf("Score(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}

func TestScore_UndecodableContent(t *testing.T) {
	v := entity.Analyze(entity.New("e2", []string{"type:note"}, "***"))
	if got := (Scorer{}).Score(v, query.Parse("content:anything")); got != 0 {
		t.Fatalf("Score = %v, want 0", got)
	}
	if got := (Scorer{}).Score(v, query.Parse("note")); got != 4 {
		t.Fatalf("Score = %v, want 4", got)
	}
}
