package models

import "github.com/shopspring/decimal"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type RegisterRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Role          string `json:"role,omitempty"`
	CurrentUserID int64  `json:"current_user_id"`
}

type TransactionRequest struct {
	UserID          int64           `json:"user_id"`
	AmountWithdrawn decimal.Decimal `json:"amount_withdrawn"`
	Charge          decimal.Decimal `json:"charge"`
	TransactionType string          `json:"transaction_type"`
}

type TransactionResponse struct {
	ID              int64   `json:"id"`
	AttendantName   string  `json:"attendant_name"`
	AmountWithdrawn float64 `json:"amount_withdrawn"`
	Charge          float64 `json:"charge"`
	TransactionType string  `json:"transaction_type"`
	SalesDate       string  `json:"sales_date"`
}

type AttendantResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type TotalSalesResponse struct {
	Total float64 `json:"total"`
}

type PurgeResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}
