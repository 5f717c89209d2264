package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/salesdesk/backoffice/internal/domain/accounts"
	"github.com/salesdesk/backoffice/internal/domain/transactions"
	"github.com/salesdesk/backoffice/internal/storage"
	"github.com/shopspring/decimal"
)

// ErrPurgeFailed signals that the bulk delete could not complete. The
// ledger table is rolled back to its pre-operation state before this is
// returned.
var ErrPurgeFailed = errors.New("failed to delete all transactions")

// Service records transactions and computes aggregates over the ledger.
type Service struct {
	ledger   storage.LedgerStorage
	accounts storage.AccountStorage
	log      *slog.Logger
}

func NewService(store storage.Storage, opts ...Option) *Service {
	svc := &Service{
		ledger:   store,
		accounts: store,
		log:      slog.New(slog.NewJSONHandler(os.Stdout, nil)),
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

// Record inserts a transaction for accountID. The store assigns the sales
// date; negative amounts and charges are rejected before the insert.
func (s *Service) Record(ctx context.Context, accountID int64, amountWithdrawn, charge decimal.Decimal, txType string) error {
	txn, err := transactions.NewTransaction(accountID, amountWithdrawn, charge, txType)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err := s.ledger.CreateTransaction(ctx, txn); err != nil {
		return fmt.Errorf("storage.CreateTransaction: %w", err)
	}

	return nil
}

// List returns every ledger entry joined with its attendant, newest first.
func (s *Service) List(ctx context.Context) ([]*transactions.Entry, error) {
	entries, err := s.ledger.GetTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.GetTransactions: %w", err)
	}

	return entries, nil
}

func (s *Service) CountAttendants(ctx context.Context) (int64, error) {
	count, err := s.accounts.CountAccountsByRole(ctx, accounts.RoleAttendant)
	if err != nil {
		return 0, fmt.Errorf("storage.CountAccountsByRole: %w", err)
	}

	return count, nil
}

func (s *Service) CountTransactions(ctx context.Context) (int64, error) {
	count, err := s.ledger.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("storage.CountTransactions: %w", err)
	}

	return count, nil
}

// TotalSales sums amount withdrawn plus charge over the whole ledger.
// An empty ledger totals zero.
func (s *Service) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.ledger.SumTransactionTotals(ctx)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("storage.SumTransactionTotals: %w", err)
	}

	return total, nil
}

// PurgeAll removes every transaction and returns the number of rows
// deleted. Irreversible.
func (s *Service) PurgeAll(ctx context.Context) (int64, error) {
	deleted, err := s.ledger.DeleteAllTransactions(ctx)
	if err != nil {
		s.log.Error("storage.DeleteAllTransactions", slog.Any("error", err))

		return 0, ErrPurgeFailed
	}

	s.log.Info("ledger purged", slog.Int64("deleted", deleted))

	return deleted, nil
}
