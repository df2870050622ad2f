// Package history persists a session's query history.
package history

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagseek/internal/repository/kvjson"
)

// Repo stores history entries, most recent first, as a JSON array of strings.
type Repo struct {
	store  kvjson.Store
	key    string
	logger *zap.Logger
}

// New creates a history repository bound to key.
func New(s kvjson.Store, key string, logger *zap.Logger) *Repo {
	return &Repo{store: s, key: key, logger: logger}
}

// Load returns the stored entries.
func (r *Repo) Load(ctx context.Context) ([]string, error) {
	return kvjson.Load[string](ctx, r.store, r.key, r.logger)
}

// Save replaces the stored entries.
func (r *Repo) Save(ctx context.Context, entries []string) error {
	return kvjson.Save(ctx, r.store, r.key, entries)
}
