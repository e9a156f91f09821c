// Package api assembles the gin engine and HTTP server for the moderation
// service.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/moderation/internal/config"
	"github.com/jonesrussell/moderation/internal/logger"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second

	shutdownTimeout = 30 * time.Second
)

// Server is the HTTP server with lifecycle management.
type Server struct {
	router *gin.Engine
	server *http.Server
	logger logger.Logger
	cfg    *config.Config
}

// NewServer creates the HTTP server. setupRoutes is called after the
// standard middleware chain (recovery, CORS, request id, logging) has been
// applied.
func NewServer(cfg *config.Config, log logger.Logger, setupRoutes func(*gin.Engine)) *Server {
	if cfg.Service.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(recoveryMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(log))

	if setupRoutes != nil {
		setupRoutes(router)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Service.Port),
		Handler:      router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	return &Server{
		router: router,
		server: httpServer,
		logger: log,
		cfg:    cfg,
	}
}

// Router returns the underlying gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server and blocks until a shutdown signal arrives or the
// server fails, then shuts down gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			logger.String("address", s.server.Addr),
			logger.String("service", s.cfg.Service.Name),
			logger.String("version", s.cfg.Service.Version),
		)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		s.logger.Info("Shutdown signal received",
			logger.String("signal", sig.String()),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}
