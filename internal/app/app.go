package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/salesdesk/backoffice/internal/auth"
	"github.com/salesdesk/backoffice/internal/config"
	"github.com/salesdesk/backoffice/internal/domain/accounts"
	"github.com/salesdesk/backoffice/internal/logger"
	"github.com/salesdesk/backoffice/internal/server"
	"github.com/salesdesk/backoffice/internal/storage"
	"github.com/salesdesk/backoffice/internal/storage/inmemory"
	"github.com/salesdesk/backoffice/internal/storage/pgstorage"
)

// Application wires config, logger, storage and the HTTP server together.
type Application struct {
	log    *slog.Logger
	server *server.Server
	store  storage.Storage
}

func New(ctx context.Context) (*Application, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("config.NewConfig: %w", err)
	}

	logLevel, err := logger.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger.ParseLogLevel: %w", err)
	}

	logg := logger.NewLogger(
		logger.WithLevel(logLevel),
		logger.WithFormat(logger.LogFormatJSON),
	)

	store, err := newStorage(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}

	srv := server.NewServer(store,
		server.WithServerAddr(cfg.ServerAddr),
		server.WithLogger(logg),
	)

	return &Application{
		log:    logg,
		server: srv,
		store:  store,
	}, nil
}

// newStorage picks the store implementation: Postgres when a database URI
// is configured, in-memory otherwise (local runs and tests).
func newStorage(ctx context.Context, cfg config.Config, logg *slog.Logger) (storage.Storage, error) {
	if cfg.DatabaseURI == "" {
		logg.Info("No database URI configured, using in-memory storage")

		return storage.NewStorage(inmemory.NewStorage()), nil
	}

	pgstore, err := pgstorage.NewStorage(cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("pgstorage.NewStorage: %w", err)
	}

	if err := pgstore.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("pgstore.Bootstrap: %w", err)
	}

	if err := pgstore.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pgstore.Ping: %w", err)
	}

	return storage.NewStorage(pgstore), nil
}

func (a *Application) Run() error {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.log.Error("storage.Close", slog.Any("error", err))
		}
	}()

	if err := a.server.Start(); err != nil {
		return fmt.Errorf("server.Start: %w", err)
	}

	return nil
}

// CreateAdmin provisions an administrator account outside the
// request-serving path. The password comes from the ADMIN_PASSWORD
// environment variable, the database URI from DATABASE_URI.
func CreateAdmin(ctx context.Context, username, role string) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("config.NewConfig: %w", err)
	}

	logLevel, err := logger.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger.ParseLogLevel: %w", err)
	}

	logg := logger.NewLogger(
		logger.WithLevel(logLevel),
		logger.WithFormat(logger.LogFormatText),
	)

	if cfg.DatabaseURI == "" {
		return errors.New("DATABASE_URI environment variable is not set")
	}

	if cfg.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD environment variable is not set")
	}

	accRole, err := accounts.ParseRole(role)
	if err != nil {
		return fmt.Errorf("accounts.ParseRole: %w", err)
	}

	store, err := newStorage(ctx, cfg, logg)
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(); err != nil {
			logg.Error("storage.Close", slog.Any("error", err))
		}
	}()

	digest, err := auth.NewHasher().Digest(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hasher.Digest: %w", err)
	}

	acc, err := accounts.NewAccount(0, username, digest, accRole)
	if err != nil {
		return fmt.Errorf("accounts.NewAccount: %w", err)
	}

	if err := store.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, storage.ErrAccountAlreadyExists) {
			return fmt.Errorf("account %q already exists", username)
		}

		return fmt.Errorf("storage.CreateAccount: %w", err)
	}

	logg.Info("Admin account created",
		slog.String("username", username),
		slog.String("role", accRole.String()),
	)

	return nil
}
