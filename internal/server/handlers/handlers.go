package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/salesdesk/backoffice/internal/account"
	"github.com/salesdesk/backoffice/internal/domain/accounts"
	"github.com/salesdesk/backoffice/internal/domain/transactions"
	"github.com/salesdesk/backoffice/internal/errmsg"
	"github.com/salesdesk/backoffice/internal/ledger"
	"github.com/salesdesk/backoffice/internal/server/models"
	"github.com/salesdesk/backoffice/internal/storage"
)

const salesDateFormat = "2006-01-02"

type Handlers struct {
	storage  storage.Storage
	accounts *account.Service
	ledger   *ledger.Service
	log      *slog.Logger
}

// NewHandlers returns a new Handlers instance. Services default to ones
// built on the given store; override them with options.
func NewHandlers(store storage.Storage, opts ...Option) *Handlers {
	handlers := &Handlers{
		storage:  store,
		accounts: account.NewService(store),
		ledger:   ledger.NewService(store),
		log:      slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}

	for _, opt := range opts {
		opt(handlers)
	}

	return handlers
}

// Option is a functional option for Handlers.
type Option func(h *Handlers)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handlers) {
		h.log = logger
	}
}

func WithAccountService(svc *account.Service) Option {
	return func(h *Handlers) {
		h.accounts = svc
	}
}

func WithLedgerService(svc *ledger.Service) Option {
	return func(h *Handlers) {
		h.ledger = svc
	}
}

type JSONResponse struct {
	Message any `json:"message,omitempty"`
	Error   any `json:"error,omitempty"`
}

func handleJSONResponse(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func handleError(w http.ResponseWriter, err errmsg.HTTPError) {
	resp := &JSONResponse{
		Error: err.Error(),
	}

	w.Header().Set("content-type", "application/json")
	w.WriteHeader(err.Code)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Handlers) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.Ping(r.Context()); err != nil {
		h.log.Error("storage.Ping", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	handleJSONResponse(w, http.StatusOK, &JSONResponse{Message: "ok"})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var payload models.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			h.log.Error("json.NewDecoder().Decode()", slog.Any("error", err))
			handleError(w, errmsg.ErrRequestPayloadEmpty)

			return
		}

		h.log.Error("json.NewDecoder().Decode()", slog.Any("error", err))
		handleError(w, errmsg.ErrRequestPayloadInvalid)

		return
	}

	defer r.Body.Close()

	acc, err := h.accounts.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			h.log.Error("accounts.Login()", slog.Any("error", err))
			handleError(w, errmsg.ErrInvalidCredentials)

			return
		}

		h.log.Error("accounts.Login()", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	resp := models.LoginResponse{
		UserID:   acc.ID(),
		Username: acc.Username(),
		Role:     acc.Role().String(),
	}

	handleJSONResponse(w, http.StatusOK, resp)
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var payload models.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			h.log.Error("json.NewDecoder().Decode()", slog.Any("error", err))
			handleError(w, errmsg.ErrRequestPayloadEmpty)

			return
		}

		h.log.Error("json.NewDecoder().Decode()", slog.Any("error", err))
		handleError(w, errmsg.ErrRequestPayloadInvalid)

		return
	}

	defer r.Body.Close()

	role, err := accounts.ParseRole(payload.Role)
	if err != nil {
		h.log.Error("accounts.ParseRole()", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusBadRequest, err))

		return
	}

	err = h.accounts.Register(r.Context(), payload.CurrentUserID, payload.Username, payload.Password, role)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrUnauthorized):
			h.log.Error("accounts.Register()", slog.Any("error", err))
			handleError(w, errmsg.ErrUnauthorized)

		case errors.Is(err, account.ErrDuplicateUsername):
			h.log.Error("accounts.Register()", slog.Any("error", err))
			handleError(w, errmsg.ErrDuplicateUsername)

		case errors.Is(err, accounts.ErrUsernameEmpty), errors.Is(err, accounts.ErrPasswordEmpty):
			h.log.Error("accounts.Register()", slog.Any("error", err))
			handleError(w, errmsg.NewHTTPError(http.StatusBadRequest, err))

		default:
			h.log.Error("accounts.Register()", slog.Any("error", err))
			handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))
		}

		return
	}

	handleJSONResponse(w, http.StatusOK, &JSONResponse{
		Message: fmt.Sprintf("User '%s' registered successfully", payload.Username),
	})
}

func (h *Handlers) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var payload models.TransactionRequest

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			h.log.Error("json.NewDecoder().Decode()", slog.Any("error", err))
			handleError(w, errmsg.ErrRequestPayloadEmpty)

			return
		}

		h.log.Error("json.NewDecoder().Decode()", slog.Any("error", err))
		handleError(w, errmsg.ErrRequestPayloadInvalid)

		return
	}

	defer r.Body.Close()

	err := h.ledger.Record(r.Context(), payload.UserID, payload.AmountWithdrawn, payload.Charge, payload.TransactionType)
	if err != nil {
		switch {
		case transactions.IsValidationError(err):
			h.log.Error("ledger.Record()", slog.Any("error", err))
			handleError(w, errmsg.NewHTTPError(http.StatusBadRequest, err))

		case errors.Is(err, storage.ErrAccountNotFound):
			h.log.Error("ledger.Record()", slog.Any("error", err))
			handleError(w, errmsg.NewHTTPError(http.StatusBadRequest, err))

		default:
			h.log.Error("ledger.Record()", slog.Any("error", err))
			handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))
		}

		return
	}

	handleJSONResponse(w, http.StatusOK, &JSONResponse{Message: "Transaction recorded successfully"})
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.List(r.Context())
	if err != nil {
		h.log.Error("ledger.List()", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	resp := make([]models.TransactionResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, models.TransactionResponse{
			ID:              entry.ID,
			AttendantName:   entry.AttendantName,
			AmountWithdrawn: entry.AmountWithdrawn.InexactFloat64(),
			Charge:          entry.Charge.InexactFloat64(),
			TransactionType: entry.Type,
			SalesDate:       entry.Date.Format(salesDateFormat),
		})
	}

	handleJSONResponse(w, http.StatusOK, resp)
}

func (h *Handlers) ListAttendants(w http.ResponseWriter, r *http.Request) {
	attendants, err := h.accounts.ListAttendants(r.Context())
	if err != nil {
		h.log.Error("accounts.ListAttendants()", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	resp := make([]models.AttendantResponse, 0, len(attendants))
	for _, att := range attendants {
		resp = append(resp, models.AttendantResponse{
			ID:       att.ID(),
			Username: att.Username(),
		})
	}

	handleJSONResponse(w, http.StatusOK, resp)
}

func (h *Handlers) AttendantsCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.ledger.CountAttendants(r.Context())
	if err != nil {
		h.log.Error("ledger.CountAttendants()", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	handleJSONResponse(w, http.StatusOK, models.CountResponse{Count: count})
}

func (h *Handlers) TransactionsCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.ledger.CountTransactions(r.Context())
	if err != nil {
		h.log.Error("ledger.CountTransactions()", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	handleJSONResponse(w, http.StatusOK, models.CountResponse{Count: count})
}

func (h *Handlers) TotalSales(w http.ResponseWriter, r *http.Request) {
	total, err := h.ledger.TotalSales(r.Context())
	if err != nil {
		h.log.Error("ledger.TotalSales()", slog.Any("error", err))
		handleError(w, errmsg.NewHTTPError(http.StatusInternalServerError, err))

		return
	}

	handleJSONResponse(w, http.StatusOK, models.TotalSalesResponse{Total: total.InexactFloat64()})
}

func (h *Handlers) PurgeTransactions(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.ledger.PurgeAll(r.Context())
	if err != nil {
		h.log.Error("ledger.PurgeAll()", slog.Any("error", err))
		handleError(w, errmsg.ErrLedgerPurgeFailed)

		return
	}

	handleJSONResponse(w, http.StatusOK, models.PurgeResponse{
		Message:      fmt.Sprintf("All transactions deleted (%d)", deleted),
		DeletedCount: deleted,
	})
}
