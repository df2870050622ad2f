// Package cli implements the tagseek command line: one-shot calls against a persistent session.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagseek/internal/app"
	"github.com/kailas-cloud/tagseek/internal/db/drivers"
	"github.com/kailas-cloud/tagseek/internal/domain/entity"
	logpkg "github.com/kailas-cloud/tagseek/internal/logger"
	searchuc "github.com/kailas-cloud/tagseek/internal/usecase/search"
)

// options holds the persistent flags shared by every command.
type options struct {
	store     string
	path      string
	addr      string
	password  string
	keyPrefix string
	session   string
	entities  string
	json      bool
	logLevel  string

	stdin io.Reader
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	o := &options{stdin: os.Stdin}

	root := &cobra.Command{
		Use:   "tagseek",
		Short: "Search and filter tagged entities",
		Long: `tagseek - query tagged entities with field terms, quoted phrases and filters.

Filters, query history and saved queries persist per session in the selected store.

Examples:
  tagseek search "type:user alice" --entities users.json
  tagseek filter add status active
  tagseek suggest typ --entities users.json
  tagseek export "report" --format csv --entities docs.json`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.store, "store", drivers.Bolt, "session store: memory, bolt, badger or redis")
	pf.StringVar(&o.path, "path", "", "store file or directory (default ~/.tagseek/<store>)")
	pf.StringVar(&o.addr, "addr", "localhost:6379", "redis address")
	pf.StringVar(&o.password, "password", "", "redis password")
	pf.StringVar(&o.keyPrefix, "key-prefix", app.DefaultSettings().KeyPrefix, "namespace for stored keys")
	pf.StringVarP(&o.session, "session", "s", searchuc.DefaultSession, "session name")
	pf.StringVarP(&o.entities, "entities", "e", "", "JSON file with the entities to search (- for stdin)")
	pf.BoolVar(&o.json, "json", false, "output as JSON")
	pf.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newSearchCmd(o),
		newExportCmd(o),
		newSuggestCmd(o),
		newFilterCmd(o),
		newSavedCmd(o),
		newHistoryCmd(o),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// storePath resolves the on-disk location for file-backed drivers.
func (o *options) storePath() (string, error) {
	if o.path != "" {
		return o.path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".tagseek")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	if o.store == drivers.Bolt {
		return filepath.Join(dir, "tagseek.db"), nil
	}
	return filepath.Join(dir, o.store), nil
}

// withSession opens the store, runs fn against the selected session and closes the store.
func (o *options) withSession(ctx context.Context, fn func(*searchuc.Session) error) error {
	logger, err := logpkg.NewLogger("cli", o.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg := drivers.Config{Driver: o.store}
	switch o.store {
	case drivers.Redis:
		cfg.Addrs = []string{o.addr}
		cfg.Password = o.password
	case drivers.Bolt, drivers.Badger:
		if cfg.Path, err = o.storePath(); err != nil {
			return err
		}
	}

	store, err := drivers.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", o.store, err)
	}
	defer store.Close()
	logger.Debug("Store opened", zap.String("driver", o.store), zap.String("path", cfg.Path))

	settings := app.DefaultSettings()
	settings.KeyPrefix = o.keyPrefix
	return app.NewRegistry(store, settings, logger, app.Metrics{}).Do(ctx, o.session, fn)
}

// loadEntities reads the --entities file. Without the flag there is nothing to search.
func (o *options) loadEntities() ([]entity.Entity, error) {
	switch o.entities {
	case "":
		return nil, nil
	case "-":
		return readEntities(o.stdin)
	}
	f, err := os.Open(filepath.Clean(o.entities))
	if err != nil {
		return nil, fmt.Errorf("open entities: %w", err)
	}
	defer f.Close()
	return readEntities(f)
}
