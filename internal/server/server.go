// Package server exposes the render pipeline over HTTP for callers that
// prefer a service to a CLI. It is a thin surface: one render endpoint and a
// health probe, both backed by a shared exporter pool.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	drawioexport "github.com/rbellek/go-drawio-export"
)

// Renderer is the slice of the exporter the HTTP layer needs.
type Renderer interface {
	Render(ctx context.Context, req drawioexport.Request) ([]byte, error)
}

// Pool hands out renderers to request handlers.
type Pool interface {
	Acquire() (Renderer, error)
	Release(Renderer)
}

// Config holds server configuration.
type Config struct {
	// Listen is the host:port to bind.
	Listen string

	// Logger for request logging. Nil defaults to a no-op logger.
	Logger *zap.Logger

	// ShutdownTimeout bounds graceful shutdown. Zero means 10s.
	ShutdownTimeout time.Duration
}

// defaultShutdownTimeout is applied when Config leaves it unset.
const defaultShutdownTimeout = 10 * time.Second

// Server serves diagram exports over HTTP.
type Server struct {
	cfg    Config
	pool   Pool
	logger *zap.Logger
	engine *gin.Engine
}

// New creates a Server around an exporter pool.
func New(cfg Config, pool Pool) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:    cfg,
		pool:   pool,
		logger: logger,
		engine: engine,
	}
	s.registerRoutes()
	return s
}

// registerRoutes wires the HTTP surface.
func (s *Server) registerRoutes() {
	s.engine.POST("/export", s.handleExport)
	s.engine.GET("/healthz", s.handleHealthz)
}

// Handler returns the http.Handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully, draining
// in-flight renders up to the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("server listening", zap.String("addr", s.cfg.Listen))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
