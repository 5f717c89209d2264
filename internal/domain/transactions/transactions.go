//nolint:wrapcheck
package transactions

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountIDInvalid = errors.New("transaction account id is invalid")
	ErrAmountNegative   = errors.New("transaction amount is negative")
	ErrChargeNegative   = errors.New("transaction charge is negative")
	ErrTypeEmpty        = errors.New("transaction type is empty")
)

// Transaction is a single cash-withdrawal record before it is persisted.
// The store assigns both the id and the sales date on insert.
type Transaction struct {
	accountID       int64
	amountWithdrawn decimal.Decimal
	charge          decimal.Decimal
	txType          string
}

func NewTransaction(accountID int64, amountWithdrawn, charge decimal.Decimal, txType string) (*Transaction, error) {
	if accountID <= 0 {
		return nil, ErrAccountIDInvalid
	}

	if amountWithdrawn.IsNegative() {
		return nil, ErrAmountNegative
	}

	if charge.IsNegative() {
		return nil, ErrChargeNegative
	}

	if txType == "" {
		return nil, ErrTypeEmpty
	}

	return &Transaction{
		accountID:       accountID,
		amountWithdrawn: amountWithdrawn,
		charge:          charge,
		txType:          txType,
	}, nil
}

func (t *Transaction) AccountID() int64 {
	return t.accountID
}

func (t *Transaction) AmountWithdrawn() decimal.Decimal {
	return t.amountWithdrawn
}

func (t *Transaction) Charge() decimal.Decimal {
	return t.charge
}

func (t *Transaction) Type() string {
	return t.txType
}

// Total is the amount the attendant collected: withdrawal plus service charge.
func (t *Transaction) Total() decimal.Decimal {
	return t.amountWithdrawn.Add(t.charge)
}

// Entry is a persisted ledger row joined with the attendant that recorded it.
type Entry struct {
	ID              int64
	AttendantName   string
	AmountWithdrawn decimal.Decimal
	Charge          decimal.Decimal
	Type            string
	Date            time.Time
}

// IsValidationError reports whether err is one of the field validation
// failures produced by NewTransaction.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrAccountIDInvalid) ||
		errors.Is(err, ErrAmountNegative) ||
		errors.Is(err, ErrChargeNegative) ||
		errors.Is(err, ErrTypeEmpty)
}
