package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/tagseek/internal/domain/entity"
)

// entityRecord is the file form of an entity. Timestamps are nanoseconds since the epoch.
type entityRecord struct {
	ID        string   `json:"id"`
	Tags      []string `json:"tags"`
	Content   string   `json:"content"`
	CreatedAt *int64   `json:"created_at"`
	UpdatedAt *int64   `json:"updated_at"`
}

// readEntities decodes a JSON array of entities.
func readEntities(r io.Reader) ([]entity.Entity, error) {
	var recs []entityRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}
	out := make([]entity.Entity, len(recs))
	for i, rec := range recs {
		if rec.ID == "" {
			return nil, fmt.Errorf("entity %d: id is required", i)
		}
		e := entity.New(rec.ID, rec.Tags, rec.Content)
		if rec.CreatedAt != nil {
			e = e.WithCreatedAt(*rec.CreatedAt)
		}
		if rec.UpdatedAt != nil {
			e = e.WithUpdatedAt(*rec.UpdatedAt)
		}
		out[i] = e
	}
	return out, nil
}
