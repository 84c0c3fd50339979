// Package postgres provides PostgreSQL implementations of the domain repositories.
// Users and their wallet balances live here, together with the donation outbox
// written in the same transaction as a wallet credit.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/donation-wallet/internal/domain/user"
	"github.com/donation-wallet/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, username, password_hash, bio, profile_pic, wallet, currency, version, created_at, updated_at`

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(logger *slog.Logger, db *persistence.PostgresDB) user.Repository {
	return &UserRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *UserRepository) WithTx(tx pgx.Tx) user.Repository {
	return &UserRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new user. Email and username collisions are reported as
// user.ErrDuplicateUser.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, username, password_hash, bio, profile_pic, wallet, currency, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.querier.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.Bio,
		u.ProfilePic,
		u.Wallet,
		u.Currency,
		u.Version,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "users_email_key" {
				return user.ErrDuplicateUser{Field: "email", Value: u.Email}
			}
			return user.ErrDuplicateUser{Field: "username", Value: u.Username}
		}
		r.logger.Error("Failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound{UserID: id}
		}
		r.logger.Error("Failed to get user", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// GetByUsername retrieves a user by its normalized username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	username = user.NormalizeUsername(username)
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(r.querier.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound{Username: username}
		}
		r.logger.Error("Failed to get user by username", "username", username, "error", err)
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return u, nil
}

// GetByEmail retrieves a user by email. A missing user yields nil, nil.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.querier.QueryRow(ctx, query, user.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return u, nil
}

// UpdateProfile writes the editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET bio = $1, profile_pic = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.querier.Exec(ctx, query, u.Bio, u.ProfilePic, u.UpdatedAt, u.ID)
	if err != nil {
		r.logger.Error("Failed to update user profile", "id", u.ID.String(), "error", err)
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound{UserID: u.ID}
	}

	return nil
}

// UpdateWallet writes the wallet balance of a user whose version was bumped
// in memory. The row must still carry the previous version.
func (r *UserRepository) UpdateWallet(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET wallet = $1, version = $2, updated_at = $3
		WHERE id = $4 AND version = $5
	`

	result, err := r.querier.Exec(ctx, query,
		u.Wallet,
		u.Version,
		u.UpdatedAt,
		u.ID,
		u.Version-1, // Check previous version for optimistic locking
	)
	if err != nil {
		r.logger.Error("Failed to update user wallet", "id", u.ID.String(), "error", err)
		return fmt.Errorf("failed to update user wallet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return user.ErrConcurrentModification{UserID: u.ID}
	}

	return nil
}

// LockForUpdate obtains a pessimistic lock on the user row and returns its
// current state. Must be called inside a transaction.
func (r *UserRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	u, err := scanUser(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound{UserID: id}
		}
		r.logger.Error("Failed to lock user for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock user for update: %w", err)
	}

	return u, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.Bio,
		&u.ProfilePic,
		&u.Wallet,
		&u.Currency,
		&u.Version,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
