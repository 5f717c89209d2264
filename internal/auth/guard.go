package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/salesdesk/backoffice/internal/storage"
)

// ErrNotAdmin is returned for both a missing account and a non-admin role,
// so the caller cannot distinguish the two cases.
var ErrNotAdmin = errors.New("admin access required")

// Guard resolves a caller identifier to a role and enforces admin-only
// operations. The role is re-read from the store on every call; there is
// no caching, so a role edit takes effect on the next request.
type Guard struct {
	accounts storage.AccountStorage
}

func NewGuard(store storage.AccountStorage) *Guard {
	return &Guard{
		accounts: store,
	}
}

// RequireAdmin fails with ErrNotAdmin unless accountID belongs to an admin
// account. On success it returns the same identifier, which callers chain
// into the gated action.
func (g *Guard) RequireAdmin(ctx context.Context, accountID int64) (int64, error) {
	acc, err := g.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return 0, ErrNotAdmin
		}

		return 0, fmt.Errorf("accounts.GetAccountByID: %w", err)
	}

	if !acc.IsAdmin() {
		return 0, ErrNotAdmin
	}

	return accountID, nil
}
