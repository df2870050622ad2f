package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/tagseek/internal/domain"
	"github.com/kailas-cloud/tagseek/internal/domain/entity"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
)

func fixture() []result.Result {
	return []result.Result{
		result.New(
			entity.New("e1", []string{"1700000000|type:user", "status:active"}, "aGVsbG8=").
				WithCreatedAt(1700000000000000000),
			15,
		),
		result.Unscored(entity.New("e2", nil, "")),
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "CSV"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, fixture(), JSON); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0]["search_score"] != float64(15) || got[0]["content"] != "aGVsbG8=" {
		t.Errorf("got[0] = %v", got[0])
	}
	if _, ok := got[1]["search_score"]; ok {
		t.Error("unscored result carries search_score")
	}
	if _, ok := got[1]["created_at"]; ok {
		t.Error("missing timestamp exported")
	}
	if tags, ok := got[1]["tags"].([]any); !ok || len(tags) != 0 {
		t.Errorf("tags = %v, want []", got[1]["tags"])
	}
}

func TestEncode_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, fixture(), CSV); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := strings.Join([]string{
		"id,tags,created_at,updated_at,size,search_score",
		"e1,1700000000|type:user;status:active,1700000000000000000,,8,15",
		"e2,,,,0,",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestEncode_Unsupported(t *testing.T) {
	err := Encode(&bytes.Buffer{}, nil, Format("xml"))
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestContentType(t *testing.T) {
	if CSV.ContentType() != "text/csv; charset=utf-8" || JSON.ContentType() != "application/json" {
		t.Fatal("unexpected content types")
	}
}
