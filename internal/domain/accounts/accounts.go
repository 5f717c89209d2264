//nolint:wrapcheck
package accounts

import (
	"errors"
	"fmt"
)

var (
	ErrUsernameEmpty = errors.New("account username is empty")
	ErrPasswordEmpty = errors.New("account password is empty")
	ErrDigestEmpty   = errors.New("account credential digest is empty")
	ErrRoleInvalid   = errors.New("account role is invalid")
)

// Role is the permission level of an account.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleAttendant Role = "attendant"
)

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a raw string into a known Role. An empty string
// resolves to RoleAttendant, the default assigned at registration.
func ParseRole(role string) (Role, error) {
	switch Role(role) {
	case RoleAdmin, RoleAttendant:
		return Role(role), nil

	case Role(""):
		return RoleAttendant, nil
	}

	return "", fmt.Errorf("%w: %q", ErrRoleInvalid, role)
}

type Account struct {
	id       int64
	username string
	digest   string
	role     Role
}

// NewAccount assembles an account. Pass id 0 for accounts that have not
// been persisted yet; the store assigns the identifier on insert.
func NewAccount(id int64, username, digest string, role Role) (*Account, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	if digest == "" {
		return nil, ErrDigestEmpty
	}

	role, err := ParseRole(role.String())
	if err != nil {
		return nil, err
	}

	return &Account{
		id:       id,
		username: username,
		digest:   digest,
		role:     role,
	}, nil
}

func (a *Account) ID() int64 {
	return a.id
}

func (a *Account) Username() string {
	return a.username
}

// CredentialDigest returns the stored one-way hash of the account password.
func (a *Account) CredentialDigest() string {
	return a.digest
}

func (a *Account) Role() Role {
	return a.role
}

func (a *Account) IsAdmin() bool {
	return a.role == RoleAdmin
}

func ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameEmpty
	}

	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordEmpty
	}

	return nil
}
