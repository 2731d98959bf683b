package main

import (
	"context"
	"fmt"

	drawioexport "github.com/rbellek/go-drawio-export"
	"github.com/rbellek/go-drawio-export/internal/config"
	"github.com/rbellek/go-drawio-export/internal/server"
	"go.uber.org/zap"
)

// servePool adapts drawioexport.ExporterPool to the server Pool interface.
type servePool struct {
	pool *drawioexport.ExporterPool
}

// Compile-time interface implementation check.
var _ server.Pool = servePool{}

func (p servePool) Acquire() (server.Renderer, error) {
	return p.pool.Acquire()
}

func (p servePool) Release(r server.Renderer) {
	e, ok := r.(*drawioexport.Exporter)
	if !ok {
		panic(fmt.Sprintf("unexpected renderer type %T", r))
	}
	p.pool.Release(e)
}

// resolveServeConfig builds the effective configuration for the serve command.
// Precedence: CLI flags > environment variables > config file > defaults.
func resolveServeConfig(flags *serveFlags, envCfg *envConfig) (*config.Config, error) {
	cfg := &config.Config{}

	configPath := flags.common.config
	if configPath == "" {
		configPath = envCfg.ConfigPath
	}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)

	// CLI flags win
	if flags.listen != "" {
		cfg.Server.Listen = flags.listen
	}
	if flags.timeout != "" {
		cfg.Timeout = flags.timeout
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.render.scale > 0 {
		cfg.Scale = flags.render.scale
	}
	if flags.render.border > 0 {
		cfg.Border = flags.render.border
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = config.DefaultListenAddr
	}

	return cfg, nil
}

// serveLogger builds the zap logger for the HTTP server.
func serveLogger(quiet, verbose bool) (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// runServe starts the HTTP export server and blocks until ctx is canceled.
func runServe(ctx context.Context, flags *serveFlags, cfg *config.Config, env *Environment) error {
	if err := validateWorkers(cfg.Workers); err != nil {
		return err
	}

	opts, err := exporterOptions(cfg)
	if err != nil {
		return err
	}

	logger, err := serveLogger(flags.common.quiet, flags.common.verbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	poolSize := drawioexport.ResolvePoolSize(cfg.Workers)
	pool := drawioexport.NewExporterPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Listening on %s (pool size %d)\n", cfg.Server.Listen, poolSize)
	}

	srv := server.New(server.Config{
		Listen: cfg.Server.Listen,
		Logger: logger,
	}, servePool{pool: pool})

	return srv.Run(ctx)
}
