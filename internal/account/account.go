package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/salesdesk/backoffice/internal/auth"
	"github.com/salesdesk/backoffice/internal/domain/accounts"
	"github.com/salesdesk/backoffice/internal/storage"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so a login failure never reveals which one happened.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUnauthorized      = errors.New("admin access required")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Service implements login and admin-gated registration over the account
// store.
type Service struct {
	storage storage.AccountStorage
	hasher  *auth.Hasher
	guard   *auth.Guard
	log     *slog.Logger
}

func NewService(store storage.AccountStorage, opts ...Option) *Service {
	svc := &Service{
		storage: store,
		hasher:  auth.NewHasher(),
		guard:   auth.NewGuard(store),
		log:     slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.log = logger
	}
}

func WithHasher(hasher *auth.Hasher) Option {
	return func(s *Service) {
		s.hasher = hasher
	}
}

// Login verifies a username/password pair and returns the matching account.
func (s *Service) Login(ctx context.Context, username, password string) (*accounts.Account, error) {
	acc, err := s.storage.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("storage.GetAccountByUsername: %w", err)
	}

	if !s.hasher.Verify(password, acc.CredentialDigest()) {
		return nil, ErrInvalidCredentials
	}

	return acc, nil
}

// Register creates a new account on behalf of callerID, which must belong
// to an admin. An empty role defaults to attendant.
func (s *Service) Register(ctx context.Context, callerID int64, username, password string, role accounts.Role) error {
	if _, err := s.guard.RequireAdmin(ctx, callerID); err != nil {
		if errors.Is(err, auth.ErrNotAdmin) {
			return ErrUnauthorized
		}

		return fmt.Errorf("guard.RequireAdmin: %w", err)
	}

	if err := accounts.ValidateUsername(username); err != nil {
		return err //nolint:wrapcheck
	}

	if err := accounts.ValidatePassword(password); err != nil {
		return err //nolint:wrapcheck
	}

	if role == "" {
		role = accounts.RoleAttendant
	}

	digest, err := s.hasher.Digest(password)
	if err != nil {
		return fmt.Errorf("hasher.Digest: %w", err)
	}

	acc, err := accounts.NewAccount(0, username, digest, role)
	if err != nil {
		return fmt.Errorf("accounts.NewAccount: %w", err)
	}

	if err := s.storage.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, storage.ErrAccountAlreadyExists) {
			return ErrDuplicateUsername
		}

		return fmt.Errorf("storage.CreateAccount: %w", err)
	}

	s.log.Info("account registered",
		slog.String("username", username),
		slog.String("role", role.String()),
	)

	return nil
}

// ListAttendants returns every attendant-role account, ordered by id.
func (s *Service) ListAttendants(ctx context.Context) ([]*accounts.Account, error) {
	accs, err := s.storage.GetAccountsByRole(ctx, accounts.RoleAttendant)
	if err != nil {
		return nil, fmt.Errorf("storage.GetAccountsByRole: %w", err)
	}

	return accs, nil
}
