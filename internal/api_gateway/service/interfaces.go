package service

import (
	"context"
	"time"

	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuthResult is returned by a successful register or login
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *user.User
}

// RegisterInput carries the sign-up form
type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

// AuthService defines registration, login and session lookup
type AuthService interface {
	// Register creates a user with an empty wallet and opens a session.
	// Returns user.ErrDuplicateUser if the email or username is taken.
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)

	// Login returns auth.ErrInvalidCredentials for an unknown email or a wrong password.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Me returns the user the session belongs to
	Me(ctx context.Context, userID uuid.UUID) (*user.User, error)
}

// UserService defines profile operations
type UserService interface {
	// GetProfile returns user.ErrUserNotFound for an unknown username
	GetProfile(ctx context.Context, username string) (*user.User, error)

	// UpdateProfile changes bio and profile picture; nil fields are left as is
	UpdateProfile(ctx context.Context, userID uuid.UUID, bio, profilePic *string) (*user.User, error)
}

// Wallet is the owner's balance and most recent received donations
type Wallet struct {
	Balance   int64
	Currency  string
	Donations []*donation.Donation
}

// CreateDonationInput is a donation as submitted by the donor
type CreateDonationInput struct {
	Amount         decimal.Decimal
	ToUsername     string
	IdempotencyKey string
	CorrelationID  string
}

// DonationReceipt is what the donor gets back once a donation is accepted
type DonationReceipt struct {
	Donation  *donation.Donation
	Recipient *user.User
	Replayed  bool // true when the idempotency key matched an earlier donation
}

// DonationService defines the wallet and donation operations
type DonationService interface {
	// GetWallet returns the balance and the newest completed donations received
	GetWallet(ctx context.Context, userID uuid.UUID) (*Wallet, error)

	// GetSelected returns the completed donations received by userID among the
	// ids of a broadcast reference. Returns ErrEmptySelection for an empty reference.
	GetSelected(ctx context.Context, userID uuid.UUID, reference string) ([]*donation.Donation, error)

	// CreateDonation validates the donation and queues it for processing
	CreateDonation(ctx context.Context, donorID uuid.UUID, input CreateDonationInput) (*DonationReceipt, error)
}

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
}
