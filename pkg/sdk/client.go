package tagseek

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tagseek/internal/app"
	"github.com/kailas-cloud/tagseek/internal/db"
	"github.com/kailas-cloud/tagseek/internal/db/drivers"
	healthuc "github.com/kailas-cloud/tagseek/internal/usecase/health"
	searchuc "github.com/kailas-cloud/tagseek/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// DefaultSession is the session name used by Client.DefaultSession.
const DefaultSession = searchuc.DefaultSession

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the tagseek SDK entry point. It is safe for concurrent use; calls on the same
// session are serialized.
type Client struct {
	store     db.Store
	sessions  *searchuc.Registry
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and opens its store (in memory unless an option selects another).
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	defaults := app.DefaultSettings()
	cfg := &clientConfig{
		store:     drivers.Config{Driver: drivers.Memory},
		keyPrefix: defaults.KeyPrefix,
		cacheTTL:  defaults.CacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := drivers.Open(cfg.store, logger)
	if err != nil {
		return nil, fmt.Errorf("tagseek: open %s store: %w", cfg.store.Driver, err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("tagseek: store not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, logger, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, logger *zap.Logger, obs *observer) *Client {
	settings := app.Settings{
		KeyPrefix:          cfg.keyPrefix,
		CacheTTL:           cfg.cacheTTL,
		HistoryLimit:       cfg.historyLimit,
		SuggestionLimit:    cfg.suggestionLimit,
		HistorySuggestions: cfg.historySuggestions,
		MaxSessions:        app.DefaultSettings().MaxSessions,
	}
	return &Client{
		store:     store,
		sessions:  app.NewRegistry(store, settings, logger, obs.sessionMetrics()),
		healthSvc: healthuc.New(store, cfg.store.Driver),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Session returns a handle on the named session. The session is loaded on first use; an
// invalid name surfaces as ErrInvalidSession from every call.
func (c *Client) Session(name string) *Session {
	return &Session{name: name, registry: c.sessions, obs: c.obs}
}

// DefaultSession returns the session named "default".
func (c *Client) DefaultSession() *Session {
	return c.Session(DefaultSession)
}
