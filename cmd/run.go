package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/flashdeck/flashdeck/internal/api"
	"github.com/flashdeck/flashdeck/internal/app"
	"github.com/flashdeck/flashdeck/internal/bus"
	"github.com/flashdeck/flashdeck/internal/cache"
	"github.com/flashdeck/flashdeck/internal/config"
	"github.com/flashdeck/flashdeck/internal/logging"
)

// runApp loads config, opens the cache, builds the backend client, and
// launches the TUI.
func runApp(cmd *cobra.Command) error {
	cfg, logger, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := openCache(cmd, cfg, logger)
	if err != nil {
		return err
	}

	opts := app.Options{
		Store:  store,
		Client: buildClient(cfg, logger),
		Config: cfg,
		Events: bus.New(logger),
	}
	return app.Run(opts)
}

// setup loads the configuration and wires the log file.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, io.Closer, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closer, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("set up logging: %w", err)
	}
	return cfg, logger, closer, nil
}

// openCache opens the SQLite-backed cache, falling back to memory when the
// database cannot be opened. A broken cache should never block studying.
func openCache(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*cache.Cache, error) {
	path, err := resolveCachePath(cmd, cfg)
	if err != nil {
		return nil, err
	}

	store, err := cache.OpenSQLite(path)
	if err != nil {
		logger.Warn("cache database unavailable, falling back to memory",
			"path", path, "error", err)
		return cache.New(cache.NewMemStore(), logger), nil
	}
	return cache.New(store, logger), nil
}

// resolveCachePath returns the cache file path using the --db flag (highest
// priority), then FLASHDECK_DB, then the default XDG path; an explicit
// config value beats the XDG default.
func resolveCachePath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, cache.EnsureDir(p)
	}
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path, cache.EnsureDir(cfg.Cache.Path)
	}
	return cache.DefaultPath()
}

// buildClient assembles the backend client with retry and logging layers.
func buildClient(cfg *config.Config, logger *slog.Logger) api.Client {
	var client api.Client = api.NewHTTPClient(api.WithBaseURL(cfg.API.BaseURL))
	client = api.WithRetry(client, api.DefaultRetryConfig())
	client = api.WithLogging(client, logger)
	return client
}
