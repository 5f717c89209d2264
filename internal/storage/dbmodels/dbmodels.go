package dbmodels

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID             int64
	Username       string
	PasswordDigest string
	Role           string
}

type Sale struct {
	ID              int64
	AttendantName   string
	AmountWithdrawn decimal.Decimal
	Charge          decimal.Decimal
	TransactionType string
	SalesDate       time.Time
}
