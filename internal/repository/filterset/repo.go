// Package filterset persists a session's active filters.
package filterset

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/repository/kvjson"
)

// Repo stores the active filter set as a JSON array under one key.
type Repo struct {
	store  kvjson.Store
	key    string
	logger *zap.Logger
}

// New creates a filter set repository bound to key.
func New(s kvjson.Store, key string, logger *zap.Logger) *Repo {
	return &Repo{store: s, key: key, logger: logger}
}

// Load returns the stored filters. Entries that no longer decode are skipped with a warning.
func (r *Repo) Load(ctx context.Context) ([]filter.Filter, error) {
	dtos, err := kvjson.Load[FilterDTO](ctx, r.store, r.key, r.logger)
	if err != nil {
		return []filter.Filter{}, err
	}
	return DecodeAll(dtos, r.logger.With(zap.String("key", r.key))), nil
}

// Save replaces the stored filter set.
func (r *Repo) Save(ctx context.Context, filters []filter.Filter) error {
	dtos, err := ToDTOs(filters)
	if err != nil {
		return err
	}
	return kvjson.Save(ctx, r.store, r.key, dtos)
}

// DecodeAll converts stored filters, dropping the ones that fail validation.
func DecodeAll(dtos []FilterDTO, logger *zap.Logger) []filter.Filter {
	out := make([]filter.Filter, 0, len(dtos))
	for _, d := range dtos {
		f, err := FromDTO(d)
		if err != nil {
			logger.Warn("Skipping invalid stored filter", zap.String("filter_id", d.ID), zap.Error(err))
			continue
		}
		out = append(out, f)
	}
	return out
}
