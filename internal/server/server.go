package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/salesdesk/backoffice/internal/server/router"
	"github.com/salesdesk/backoffice/internal/storage"
)

type Server struct {
	srv *http.Server
	log *slog.Logger
}

type Options struct {
	addr string
	log  *slog.Logger
}

// NewServer builds the HTTP server around an injected store handle. The
// store is created once at process start and closed at shutdown by the
// caller.
func NewServer(store storage.Storage, opts ...Option) *Server {
	sOpts := Options{
		addr: "0.0.0.0:8080",
		log:  slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}

	for _, opt := range opts {
		opt(&sOpts)
	}

	r := router.NewRouter(store,
		router.WithLogger(sOpts.log),
	)

	srv := &http.Server{
		Addr:              sOpts.addr,
		Handler:           r,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return &Server{
		srv: srv,
		log: sOpts.log,
	}
}

type Option func(o *Options)

func WithServerAddr(addr string) Option {
	return func(o *Options) {
		o.addr = addr
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.log = logger
	}
}

func (s *Server) Start() error {
	errChan := make(chan error, 1)

	go func() {
		s.log.Info(fmt.Sprintf("Starting server on %s", s.srv.Addr))

		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server.ListenAndServe: %w", err)
		}
	}()

	// Graceful shutdown handler
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case err := <-errChan:
			return err

		case <-quit:
			s.log.Info("Gracefully shutting down server...")

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			if err := s.srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("server.Shutdown: %w", err)
			}

			return nil
		}
	}
}
