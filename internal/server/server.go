// Package server exposes a folio runtime over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aretw0/folio/internal/platform"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = ":8080"

const shutdownTimeout = 10 * time.Second

// Config configures the HTTP server.
type Config struct {
	Addr   string
	Debug  bool
	Logger *slog.Logger
}

// Server serves the site routes and the admin API of a runtime.
type Server struct {
	rt      *platform.Runtime
	logger  *slog.Logger
	metrics *Metrics
	router  *gin.Engine
	server  *http.Server
}

// New creates a Server for rt.
func New(rt *platform.Runtime, cfg Config) *Server {
	if !cfg.Debug && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		rt:      rt,
		logger:  logger,
		metrics: NewMetrics(),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger, s.metrics))
	router.MaxMultipartMemory = 16 << 20
	s.routes(router)
	s.router = router

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Site
	r.GET("/", s.home)
	r.GET("/impressum", s.impressum)
	r.GET("/datenschutz", s.datenschutz)
	r.GET("/admin", requireAdmin(s.rt.Auth), s.admin)

	api := r.Group("/api")
	api.POST("/login", s.login)
	api.POST("/contact", s.contact)
	api.GET("/state", s.state)

	admin := api.Group("", requireAdmin(s.rt.Auth))
	admin.POST("/logout", s.logout)
	admin.PUT("/content", s.updateContent)
	admin.POST("/content/save", s.saveContent)
	admin.GET("/content/export", s.exportContent)
	admin.POST("/uploads/image", s.uploadImage)
	admin.POST("/uploads/schedule", s.uploadSchedule)
	admin.GET("/assets", s.listAssets)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the collectors of the server.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.server.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
