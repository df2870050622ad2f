// Package drivers opens the configured db.Store implementation.
package drivers

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagseek/internal/db"
	"github.com/kailas-cloud/tagseek/internal/db/badger"
	"github.com/kailas-cloud/tagseek/internal/db/bolt"
	"github.com/kailas-cloud/tagseek/internal/db/redis"
)

// Driver names.
const (
	Memory = "memory"
	Redis  = "redis"
	Bolt   = "bolt"
	Badger = "badger"
)

// Names lists every supported driver.
func Names() []string { return []string{Memory, Redis, Bolt, Badger} }

// Config selects and parameterizes a driver.
type Config struct {
	Driver   string
	Addrs    []string
	Username string
	Password string
	DB       int
	Path     string
}

// Open creates the store for cfg.Driver. Memory is badger in in-memory mode.
func Open(cfg Config, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case Memory, "":
		return badger.Open("", true, logger)
	case Badger:
		return badger.Open(cfg.Path, false, logger)
	case Bolt:
		return bolt.Open(cfg.Path)
	case Redis:
		return redis.NewStore(redis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
