package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/donation-wallet/internal/auth"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/google/uuid"
)

// AuthServiceImpl implements the AuthService interface
type AuthServiceImpl struct {
	userRepo user.Repository
	tokens   TokenIssuer
	currency string
	logger   *slog.Logger
}

// NewAuthService creates a new auth service. New wallets are opened in currency.
func NewAuthService(logger *slog.Logger, userRepo user.Repository, tokens TokenIssuer, currency string) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		currency: currency,
		logger:   logger,
	}
}

// Register checks for a taken email or username before hashing the password
func (s *AuthServiceImpl) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	u, err := user.NewUser(input.Name, input.Email, input.Username, hash, s.currency)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, u.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, user.ErrDuplicateUser{Field: "email", Value: u.Email}
	}

	_, err = s.userRepo.GetByUsername(ctx, u.Username)
	switch {
	case err == nil:
		return nil, user.ErrDuplicateUser{Field: "username", Value: u.Username}
	case !errors.Is(err, user.ErrUserNotFound{}):
		return nil, err
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", u.ID, "username", u.Username)
	return s.openSession(u)
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.userRepo.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, auth.ErrInvalidCredentials
	}

	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		s.logger.Info("Login rejected", "user_id", u.ID)
		return nil, err
	}

	return s.openSession(u)
}

func (s *AuthServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthServiceImpl) openSession(u *user.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}
