package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spanstack/internal/server"
	"github.com/matzehuels/spanstack/pkg/cache"
	"github.com/matzehuels/spanstack/pkg/config"
	"github.com/matzehuels/spanstack/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var configPath, listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Serve runs the layout pipeline behind an HTTP API.

POST /v1/layout accepts a CSV body and responds with the layout document;
GET /healthz reports liveness. Settings come from a TOML config file,
with --listen overriding the configured address.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, listen)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, configPath, listen string) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Listen = listen
	}

	backend, err := openCacheBackend(ctx, cfg.Cache)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(backend, nil, logger)
	defer runner.Close()

	logger.Info("starting API", "listen", cfg.Listen, "cache", cfg.Cache.Backend)
	return server.New(runner, logger, cfg.MaxReportedErrors).Serve(ctx, cfg.Listen)
}

// openCacheBackend builds the configured cache backend.
func openCacheBackend(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return cache.NewFileCache(cfg.Dir)
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	case config.BackendNone:
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
