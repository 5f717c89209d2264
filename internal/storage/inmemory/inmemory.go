package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/salesdesk/backoffice/internal/domain/accounts"
	"github.com/salesdesk/backoffice/internal/domain/transactions"
	"github.com/salesdesk/backoffice/internal/storage"
	"github.com/shopspring/decimal"
)

var _ storage.Storage = (*Storage)(nil)

type AccountStore struct {
	accounts map[int64]*accounts.Account
	nextID   int64
	mu       sync.Mutex
}

type LedgerStore struct {
	entries []*transactions.Entry
	nextID  int64
	mu      sync.Mutex
}

// Storage is an in-process implementation of storage.Storage. It backs the
// test suite and local runs without a database.
type Storage struct {
	AccountStore AccountStore
	LedgerStore  LedgerStore
}

func NewStorage() *Storage {
	return &Storage{
		AccountStore: AccountStore{
			accounts: make(map[int64]*accounts.Account),
			nextID:   1,
		},
		LedgerStore: LedgerStore{
			nextID: 1,
		},
	}
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) Ping(_ context.Context) error {
	return nil
}

func (s *Storage) CreateAccount(_ context.Context, acc *accounts.Account) error {
	s.AccountStore.mu.Lock()
	defer s.AccountStore.mu.Unlock()

	for _, existing := range s.AccountStore.accounts {
		if existing.Username() == acc.Username() {
			return storage.ErrAccountAlreadyExists
		}
	}

	stored, err := accounts.NewAccount(
		s.AccountStore.nextID, acc.Username(), acc.CredentialDigest(), acc.Role(),
	)
	if err != nil {
		return err
	}

	s.AccountStore.accounts[stored.ID()] = stored
	s.AccountStore.nextID++

	return nil
}

func (s *Storage) GetAccountByID(_ context.Context, id int64) (*accounts.Account, error) {
	s.AccountStore.mu.Lock()
	defer s.AccountStore.mu.Unlock()

	acc, ok := s.AccountStore.accounts[id]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}

	return acc, nil
}

func (s *Storage) GetAccountByUsername(_ context.Context, username string) (*accounts.Account, error) {
	s.AccountStore.mu.Lock()
	defer s.AccountStore.mu.Unlock()

	for _, acc := range s.AccountStore.accounts {
		if acc.Username() == username {
			return acc, nil
		}
	}

	return nil, storage.ErrAccountNotFound
}

func (s *Storage) GetAccountsByRole(_ context.Context, roles ...accounts.Role) ([]*accounts.Account, error) {
	s.AccountStore.mu.Lock()
	defer s.AccountStore.mu.Unlock()

	accs := make([]*accounts.Account, 0)

	for id := int64(1); id < s.AccountStore.nextID; id++ {
		acc, ok := s.AccountStore.accounts[id]
		if !ok {
			continue
		}

		if len(roles) == 0 {
			accs = append(accs, acc)

			continue
		}

		for _, role := range roles {
			if acc.Role() == role {
				accs = append(accs, acc)

				break
			}
		}
	}

	return accs, nil
}

func (s *Storage) CountAccountsByRole(_ context.Context, role accounts.Role) (int64, error) {
	s.AccountStore.mu.Lock()
	defer s.AccountStore.mu.Unlock()

	var count int64

	for _, acc := range s.AccountStore.accounts {
		if acc.Role() == role {
			count++
		}
	}

	return count, nil
}

func (s *Storage) CreateTransaction(ctx context.Context, txn *transactions.Transaction) error {
	acc, err := s.GetAccountByID(ctx, txn.AccountID())
	if err != nil {
		return err
	}

	s.LedgerStore.mu.Lock()
	defer s.LedgerStore.mu.Unlock()

	now := time.Now()

	s.LedgerStore.entries = append(s.LedgerStore.entries, &transactions.Entry{
		ID:              s.LedgerStore.nextID,
		AttendantName:   acc.Username(),
		AmountWithdrawn: txn.AmountWithdrawn(),
		Charge:          txn.Charge(),
		Type:            txn.Type(),
		Date:            time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	})
	s.LedgerStore.nextID++

	return nil
}

func (s *Storage) GetTransactions(_ context.Context) ([]*transactions.Entry, error) {
	s.LedgerStore.mu.Lock()
	defer s.LedgerStore.mu.Unlock()

	// Newest first, mirroring ORDER BY id DESC.
	entries := make([]*transactions.Entry, 0, len(s.LedgerStore.entries))

	for i := len(s.LedgerStore.entries) - 1; i >= 0; i-- {
		entries = append(entries, s.LedgerStore.entries[i])
	}

	return entries, nil
}

func (s *Storage) CountTransactions(_ context.Context) (int64, error) {
	s.LedgerStore.mu.Lock()
	defer s.LedgerStore.mu.Unlock()

	return int64(len(s.LedgerStore.entries)), nil
}

func (s *Storage) SumTransactionTotals(_ context.Context) (decimal.Decimal, error) {
	s.LedgerStore.mu.Lock()
	defer s.LedgerStore.mu.Unlock()

	total := decimal.Zero

	for _, entry := range s.LedgerStore.entries {
		total = total.Add(entry.AmountWithdrawn).Add(entry.Charge)
	}

	return total, nil
}

func (s *Storage) DeleteAllTransactions(_ context.Context) (int64, error) {
	s.LedgerStore.mu.Lock()
	defer s.LedgerStore.mu.Unlock()

	deleted := int64(len(s.LedgerStore.entries))

	s.LedgerStore.entries = nil

	return deleted, nil
}
