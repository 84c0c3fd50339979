package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines user persistence operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error

	// UpdateWallet uses optimistic locking to write the wallet balance
	UpdateWallet(ctx context.Context, user *User) error

	// LockForUpdate acquires a pessimistic lock for donation processing
	LockForUpdate(ctx context.Context, id uuid.UUID) (*User, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	UserID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for user: " + e.UserID.String()
}

// ErrUserNotFound indicates a missing user, looked up either by id or by username
type ErrUserNotFound struct {
	UserID   uuid.UUID
	Username string
}

func (e ErrUserNotFound) Error() string {
	if e.Username != "" {
		return "user not found: " + e.Username
	}
	return "user not found: " + e.UserID.String()
}

// Is matches any ErrUserNotFound when the target carries no identifiers
func (e ErrUserNotFound) Is(target error) bool {
	t, ok := target.(ErrUserNotFound)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil && t.Username == "" {
		return true
	}
	return e.UserID == t.UserID && e.Username == t.Username
}

// ErrDuplicateUser indicates an email or username uniqueness violation
type ErrDuplicateUser struct {
	Field string
	Value string
}

func (e ErrDuplicateUser) Error() string {
	return "user with " + e.Field + " already exists: " + e.Value
}

// Is matches any ErrDuplicateUser when the target has no field
func (e ErrDuplicateUser) Is(target error) bool {
	t, ok := target.(ErrDuplicateUser)
	if !ok {
		return false
	}
	if t.Field == "" {
		return true
	}
	return e.Field == t.Field && e.Value == t.Value
}
