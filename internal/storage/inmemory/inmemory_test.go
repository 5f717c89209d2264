package inmemory_test

import (
	"context"
	"testing"

	"github.com/salesdesk/backoffice/internal/domain/accounts"
	"github.com/salesdesk/backoffice/internal/domain/transactions"
	"github.com/salesdesk/backoffice/internal/storage"
	"github.com/salesdesk/backoffice/internal/storage/inmemory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccountAssignsIDs(t *testing.T) {
	store := inmemory.NewStorage()

	for _, username := range []string{"martinez", "bob", "carol"} {
		acc, err := accounts.NewAccount(0, username, "digest", accounts.RoleAttendant)
		require.NoError(t, err)
		require.NoError(t, store.CreateAccount(context.Background(), acc))
	}

	bob, err := store.GetAccountByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), bob.ID())

	byID, err := store.GetAccountByID(context.Background(), bob.ID())
	require.NoError(t, err)
	assert.Equal(t, "bob", byID.Username())
}

func TestCreateAccountDuplicateUsername(t *testing.T) {
	store := inmemory.NewStorage()

	acc, err := accounts.NewAccount(0, "bob", "digest", accounts.RoleAttendant)
	require.NoError(t, err)
	require.NoError(t, store.CreateAccount(context.Background(), acc))

	dup, err := accounts.NewAccount(0, "bob", "digest2", accounts.RoleAdmin)
	require.NoError(t, err)

	err = store.CreateAccount(context.Background(), dup)
	assert.ErrorIs(t, err, storage.ErrAccountAlreadyExists)
}

func TestCreateTransactionRequiresAccount(t *testing.T) {
	store := inmemory.NewStorage()

	txn, err := transactions.NewTransaction(1, decimal.NewFromInt(10), decimal.NewFromInt(2), "mpesa")
	require.NoError(t, err)

	err = store.CreateTransaction(context.Background(), txn)
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
}

func TestDeleteAllTransactionsResetsLedger(t *testing.T) {
	store := inmemory.NewStorage()

	acc, err := accounts.NewAccount(0, "bob", "digest", accounts.RoleAttendant)
	require.NoError(t, err)
	require.NoError(t, store.CreateAccount(context.Background(), acc))

	for i := 0; i < 3; i++ {
		txn, err := transactions.NewTransaction(1, decimal.NewFromInt(10), decimal.NewFromInt(2), "mpesa")
		require.NoError(t, err)
		require.NoError(t, store.CreateTransaction(context.Background(), txn))
	}

	deleted, err := store.DeleteAllTransactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	count, err := store.CountTransactions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
