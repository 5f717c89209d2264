package storage

import (
	"context"
	"errors"

	"github.com/salesdesk/backoffice/internal/domain/accounts"
	"github.com/salesdesk/backoffice/internal/domain/transactions"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrAccountNotFound      = errors.New("account not found")
)

type AccountStorage interface {
	CreateAccount(ctx context.Context, acc *accounts.Account) error
	GetAccountByID(ctx context.Context, id int64) (*accounts.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*accounts.Account, error)
	GetAccountsByRole(ctx context.Context, roles ...accounts.Role) ([]*accounts.Account, error)
	CountAccountsByRole(ctx context.Context, role accounts.Role) (int64, error)
}

type LedgerStorage interface {
	CreateTransaction(ctx context.Context, txn *transactions.Transaction) error
	GetTransactions(ctx context.Context) ([]*transactions.Entry, error)
	CountTransactions(ctx context.Context) (int64, error)
	SumTransactionTotals(ctx context.Context) (decimal.Decimal, error)
	DeleteAllTransactions(ctx context.Context) (int64, error)
}

type Storage interface {
	AccountStorage
	LedgerStorage
	Close() error
	Ping(ctx context.Context) error
}

func NewStorage(store Storage) Storage {
	return store
}
