package transactions

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	txn, err := NewTransaction(1, decimal.NewFromInt(10), decimal.NewFromInt(2), "mpesa")
	require.NoError(t, err)

	assert.Equal(t, int64(1), txn.AccountID())
	assert.Equal(t, "mpesa", txn.Type())
	assert.True(t, decimal.NewFromInt(12).Equal(txn.Total()))
}

func TestNewTransactionValidation(t *testing.T) {
	_, err := NewTransaction(0, decimal.NewFromInt(10), decimal.NewFromInt(2), "mpesa")
	assert.ErrorIs(t, err, ErrAccountIDInvalid)

	_, err = NewTransaction(1, decimal.NewFromInt(-10), decimal.NewFromInt(2), "mpesa")
	assert.ErrorIs(t, err, ErrAmountNegative)

	_, err = NewTransaction(1, decimal.NewFromInt(10), decimal.NewFromInt(-2), "mpesa")
	assert.ErrorIs(t, err, ErrChargeNegative)

	_, err = NewTransaction(1, decimal.NewFromInt(10), decimal.NewFromInt(2), "")
	assert.ErrorIs(t, err, ErrTypeEmpty)
}

func TestNewTransactionZeroAmounts(t *testing.T) {
	// Zero is a valid amount; only negative values are rejected.
	txn, err := NewTransaction(1, decimal.Zero, decimal.Zero, "mpesa")
	require.NoError(t, err)

	assert.True(t, txn.Total().IsZero())
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrAmountNegative))
	assert.True(t, IsValidationError(ErrTypeEmpty))
	assert.False(t, IsValidationError(assert.AnError))
}
