// Package kvjson stores JSON arrays under single keys of a db.KVStore.
package kvjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagseek/internal/db"
)

// Store is the consumer interface for JSON list persistence (ISP).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Load reads the array stored at key. A missing key yields an empty list. A malformed
// value is logged and also yields an empty list; only store failures are returned.
func Load[T any](ctx context.Context, s Store, key string, logger *zap.Logger) ([]T, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return []T{}, nil
		}
		return []T{}, fmt.Errorf("get %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("Malformed stored collection, using empty",
			zap.String("key", key), zap.Error(err))
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the array stored at key.
func Save[T any](ctx context.Context, s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
