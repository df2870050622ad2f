// Package app is the composition root shared by the server, the CLI and the SDK: it binds
// session state to a key/value store and hands out sessions through a search.Registry.
package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagseek/internal/config"
	"github.com/kailas-cloud/tagseek/internal/domain"
	"github.com/kailas-cloud/tagseek/internal/domain/search/history"
	"github.com/kailas-cloud/tagseek/internal/repository/filterset"
	historyrepo "github.com/kailas-cloud/tagseek/internal/repository/history"
	"github.com/kailas-cloud/tagseek/internal/repository/kvjson"
	"github.com/kailas-cloud/tagseek/internal/repository/resultcache"
	savedrepo "github.com/kailas-cloud/tagseek/internal/repository/savedquery"
	searchuc "github.com/kailas-cloud/tagseek/internal/usecase/search"
	"github.com/kailas-cloud/tagseek/internal/usecase/suggest"
)

// Settings tune every session a registry creates.
type Settings struct {
	KeyPrefix          string
	CacheTTL           time.Duration
	HistoryLimit       int
	SuggestionLimit    int
	HistorySuggestions int
	MaxSessions        int
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		KeyPrefix:          domain.KeyPrefix,
		CacheTTL:           resultcache.DefaultTTL,
		HistoryLimit:       history.DefaultLimit,
		SuggestionLimit:    suggest.DefaultLimit,
		HistorySuggestions: suggest.DefaultHistoryLimit,
		MaxSessions:        searchuc.DefaultMaxSessions,
	}
}

// SettingsFromConfig maps the server configuration onto Settings.
func SettingsFromConfig(cfg config.Config) Settings {
	return Settings{
		KeyPrefix:          cfg.Store.KeyPrefix,
		CacheTTL:           time.Duration(cfg.Search.CacheTTLMs) * time.Millisecond,
		HistoryLimit:       cfg.Search.HistoryLimit,
		SuggestionLimit:    cfg.Search.SuggestionLimit,
		HistorySuggestions: cfg.Search.HistorySuggestions,
		MaxSessions:        cfg.Search.MaxSessions,
	}
}

// Metrics are the instruments wired into sessions and their caches. Nil fields are skipped.
type Metrics struct {
	Requests          *prometheus.CounterVec
	Duration          prometheus.Observer
	ResultCache       *prometheus.CounterVec
	PersistenceErrors *prometheus.CounterVec
}

// NewRegistry builds a registry whose sessions persist into store under settings.KeyPrefix.
// Extra options are applied to every session after the defaults.
func NewRegistry(
	store kvjson.Store,
	settings Settings,
	logger *zap.Logger,
	m Metrics,
	opts ...searchuc.Option,
) *searchuc.Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return searchuc.NewRegistry(func(ctx context.Context, name string) *searchuc.Session {
		keys := searchuc.KeysFor(settings.KeyPrefix, name)
		repos := searchuc.Repositories{
			Filters: filterset.New(store, keys.Filters, logger),
			History: historyrepo.New(store, keys.History, logger),
			Saved:   savedrepo.New(store, keys.Saved, logger),
		}
		cache := resultcache.New(settings.CacheTTL, time.Now, m.ResultCache)
		suggester := suggest.New(settings.SuggestionLimit, settings.HistorySuggestions)

		sessionOpts := append([]searchuc.Option{
			searchuc.WithLogger(logger),
			searchuc.WithHistoryLimit(settings.HistoryLimit),
			searchuc.WithMetrics(searchuc.Metrics{
				Requests:          m.Requests,
				Duration:          m.Duration,
				PersistenceErrors: m.PersistenceErrors,
			}),
		}, opts...)

		logger.Debug("Session opened", zap.String("session", name))
		return searchuc.NewSession(ctx, name, repos, cache, suggester, sessionOpts...)
	}, searchuc.WithMaxSessions(settings.MaxSessions))
}
