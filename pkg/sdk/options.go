package tagseek

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagseek/internal/db/drivers"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	store drivers.Config

	keyPrefix          string
	cacheTTL           time.Duration
	historyLimit       int
	suggestionLimit    int
	historySuggestions int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithMemory keeps session state in process memory (default). Nothing survives Close.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.store = drivers.Config{Driver: drivers.Memory}
	})
}

// WithRedis persists session state in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store = drivers.Config{Driver: drivers.Redis, Addrs: []string{addr}, Password: password}
	})
}

// WithBolt persists session state in a bbolt file.
func WithBolt(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store = drivers.Config{Driver: drivers.Bolt, Path: path}
	})
}

// WithBadger persists session state in a Badger directory.
func WithBadger(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.store = drivers.Config{Driver: drivers.Badger, Path: dir}
	})
}

// WithKeyPrefix namespaces every stored key. Default: "tagseek:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithCacheTTL sets how long a cached result list stays fresh. Default: 30s.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithHistoryLimit caps the remembered queries per session. Default: 50.
func WithHistoryLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.historyLimit = n
	})
}

// WithSuggestionLimits caps suggestions per call and history entries offered for an
// empty query. Defaults: 8 and 5.
func WithSuggestionLimits(limit, history int) Option {
	return optionFunc(func(c *clientConfig) {
		c.suggestionLimit = limit
		c.historySuggestions = history
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations, search cache
// outcomes and persistence failures) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
