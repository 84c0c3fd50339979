package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrEmptyName             = errors.New("name cannot be empty")
	ErrInvalidUsername       = errors.New("username must be 3-30 characters of letters, digits, '.', '_' or '-'")
	ErrInvalidEmail          = errors.New("email address is not valid")
	ErrInvalidCurrencyFormat = errors.New("currency must be a 3-letter code")
)

// User is a platform member. Wallet is the server-authoritative total of
// completed donations received.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	ProfilePic   string    `json:"profile_pic"`
	Wallet       int64     `json:"wallet"` // Stored in kuruş/minor units
	Currency     string    `json:"currency"`
	Version      int       `json:"version"` // For optimistic locking
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeUsername trims and lowercases a username the way it is stored.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NormalizeEmail trims and lowercases an email address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a user with an empty wallet
func NewUser(name, email, username, passwordHash, currency string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	username = NormalizeUsername(username)
	if !validUsername(username) {
		return nil, ErrInvalidUsername
	}
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrencyFormat
	}

	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Wallet:       0,
		Currency:     currency,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Credit adds a received donation to the wallet
func (u *User) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	u.Wallet += amount
	u.UpdatedAt = time.Now()
	u.Version++
	return nil
}

// UpdateProfile replaces the editable profile fields. Nil leaves a field as is.
func (u *User) UpdateProfile(bio, profilePic *string) {
	if bio != nil {
		u.Bio = strings.TrimSpace(*bio)
	}
	if profilePic != nil {
		u.ProfilePic = strings.TrimSpace(*profilePic)
	}
	u.UpdatedAt = time.Now()
}

func validUsername(username string) bool {
	if len(username) < 3 || len(username) > 30 {
		return false
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
