// Package savedquery persists a session's saved queries.
package savedquery

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domsq "github.com/kailas-cloud/tagseek/internal/domain/search/savedquery"
	"github.com/kailas-cloud/tagseek/internal/repository/filterset"
	"github.com/kailas-cloud/tagseek/internal/repository/kvjson"
)

// Repo stores saved queries as a JSON array under one key.
type Repo struct {
	store  kvjson.Store
	key    string
	logger *zap.Logger
}

// New creates a saved query repository bound to key.
func New(s kvjson.Store, key string, logger *zap.Logger) *Repo {
	return &Repo{store: s, key: key, logger: logger}
}

// Load returns the stored saved queries in insertion order. Invalid entries are skipped.
func (r *Repo) Load(ctx context.Context) ([]domsq.SavedQuery, error) {
	dtos, err := kvjson.Load[savedQueryDTO](ctx, r.store, r.key, r.logger)
	if err != nil {
		return []domsq.SavedQuery{}, err
	}
	log := r.logger.With(zap.String("key", r.key))
	out := make([]domsq.SavedQuery, 0, len(dtos))
	for _, d := range dtos {
		filters := filterset.DecodeAll(d.Filters, log)
		sq, err := domsq.New(d.ID, d.Name, d.Query, filters, time.UnixMilli(d.Timestamp))
		if err != nil {
			log.Warn("Skipping invalid saved query", zap.String("saved_query_id", d.ID), zap.Error(err))
			continue
		}
		out = append(out, sq)
	}
	return out, nil
}

// Save replaces the stored saved queries.
func (r *Repo) Save(ctx context.Context, queries []domsq.SavedQuery) error {
	dtos := make([]savedQueryDTO, 0, len(queries))
	for _, q := range queries {
		filters, err := filterset.ToDTOs(q.Filters())
		if err != nil {
			return fmt.Errorf("saved query %s: %w", q.ID(), err)
		}
		dtos = append(dtos, savedQueryDTO{
			ID:        q.ID(),
			Name:      q.Name(),
			Query:     q.Query(),
			Filters:   filters,
			Timestamp: q.CreatedAt().UnixMilli(),
		})
	}
	return kvjson.Save(ctx, r.store, r.key, dtos)
}
