package handlers_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/salesdesk/backoffice/internal/domain/accounts"
	"github.com/salesdesk/backoffice/internal/server/models"
	"github.com/salesdesk/backoffice/internal/server/router"
	"github.com/salesdesk/backoffice/internal/storage/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legacyDigest produces the pre-migration unsalted SHA-256 credential
// format, still accepted at login.
func legacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))

	return hex.EncodeToString(sum[:])
}

func newTestRouter(t *testing.T) (http.Handler, *inmemory.Storage, int64) {
	t.Helper()

	store := inmemory.NewStorage()
	r := router.NewRouter(store)

	admin, err := accounts.NewAccount(0, "martinez", legacyDigest("2019@Harmony"), accounts.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, store.CreateAccount(context.Background(), admin))

	stored, err := store.GetAccountByUsername(context.Background(), "martinez")
	require.NoError(t, err)

	return r, store, stored.ID()
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))

	return out
}

func TestPing(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	r, _, adminID := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/login", models.LoginRequest{
		Username: "martinez",
		Password: "2019@Harmony",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[models.LoginResponse](t, rec)
	assert.Equal(t, adminID, resp.UserID)
	assert.Equal(t, "martinez", resp.Username)
	assert.Equal(t, "admin", resp.Role)
}

func TestLoginFailures(t *testing.T) {
	r, _, _ := newTestRouter(t)

	// Wrong password and unknown username get the same status.
	rec := doRequest(t, r, http.MethodPost, "/login", models.LoginRequest{
		Username: "martinez",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/login", models.LoginRequest{
		Username: "nobody",
		Password: "2019@Harmony",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterAdminGating(t *testing.T) {
	r, _, adminID := newTestRouter(t)

	// Admin registers bob.
	rec := doRequest(t, r, http.MethodPost, "/register", models.RegisterRequest{
		Username:      "bob",
		Password:      "pw1",
		CurrentUserID: adminID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Bob logs in and receives the attendant role.
	rec = doRequest(t, r, http.MethodPost, "/login", models.LoginRequest{
		Username: "bob",
		Password: "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	bob := decodeBody[models.LoginResponse](t, rec)
	assert.Equal(t, "attendant", bob.Role)

	// Bob attempts to register another user and is rejected.
	rec = doRequest(t, r, http.MethodPost, "/register", models.RegisterRequest{
		Username:      "carol",
		Password:      "pw2",
		CurrentUserID: bob.UserID,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Duplicate registration by the admin is a conflict.
	rec = doRequest(t, r, http.MethodPost, "/register", models.RegisterRequest{
		Username:      "bob",
		Password:      "pw3",
		CurrentUserID: adminID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionsFlow(t *testing.T) {
	r, _, adminID := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/register", models.RegisterRequest{
		Username:      "bob",
		Password:      "pw1",
		CurrentUserID: adminID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/login", models.LoginRequest{
		Username: "bob",
		Password: "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	bob := decodeBody[models.LoginResponse](t, rec)

	// Record two transactions.
	for _, txn := range []map[string]any{
		{"user_id": bob.UserID, "amount_withdrawn": 10, "charge": 2, "transaction_type": "mpesa"},
		{"user_id": bob.UserID, "amount_withdrawn": 5, "charge": 1, "transaction_type": "agency"},
	} {
		rec = doRequest(t, r, http.MethodPost, "/transactions", txn)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Negative amounts are rejected.
	rec = doRequest(t, r, http.MethodPost, "/transactions", map[string]any{
		"user_id": bob.UserID, "amount_withdrawn": -10, "charge": 2, "transaction_type": "mpesa",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Listing returns newest first with the attendant name joined in.
	rec = doRequest(t, r, http.MethodGet, "/all_transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := decodeBody[[]models.TransactionResponse](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, "agency", entries[0].TransactionType)
	assert.Equal(t, "mpesa", entries[1].TransactionType)
	assert.Equal(t, "bob", entries[0].AttendantName)
	assert.Greater(t, entries[0].ID, entries[1].ID)

	rec = doRequest(t, r, http.MethodGet, "/attendants", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	attendants := decodeBody[[]models.AttendantResponse](t, rec)
	require.Len(t, attendants, 1)
	assert.Equal(t, "bob", attendants[0].Username)

	rec = doRequest(t, r, http.MethodGet, "/attendants_count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decodeBody[models.CountResponse](t, rec).Count)

	rec = doRequest(t, r, http.MethodGet, "/transactions_count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), decodeBody[models.CountResponse](t, rec).Count)

	rec = doRequest(t, r, http.MethodGet, "/total_sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 18.0, decodeBody[models.TotalSalesResponse](t, rec).Total, 0.0001)

	// Purge the ledger and verify it is empty.
	rec = doRequest(t, r, http.MethodDelete, "/delete_all_transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	purge := decodeBody[models.PurgeResponse](t, rec)
	assert.Equal(t, int64(2), purge.DeletedCount)

	rec = doRequest(t, r, http.MethodGet, "/transactions_count", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decodeBody[models.CountResponse](t, rec).Count)

	rec = doRequest(t, r, http.MethodGet, "/total_sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decodeBody[models.TotalSalesResponse](t, rec).Total)
}

func TestTotalSalesEmptyLedger(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/total_sales", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decodeBody[models.TotalSalesResponse](t, rec).Total)
}
