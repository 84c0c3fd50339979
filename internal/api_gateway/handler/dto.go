package handler

import (
	"encoding/json"
	"time"

	"github.com/donation-wallet/internal/api_gateway/service"
	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/donation-wallet/internal/money"
	"github.com/shopspring/decimal"
)

// RegisterRequest represents the sign-up form
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the sign-in form
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries optional profile fields; absent fields are kept
type UpdateProfileRequest struct {
	Bio        *string `json:"bio"`
	ProfilePic *string `json:"profilePic" binding:"omitempty,max=2048"`
}

// CreateDonationRequest represents a donation submitted by the donor
type CreateDonationRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	ToUsername     string          `json:"toUsername" binding:"required"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty" binding:"max=128"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserResponse is the owner's view of their account
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Username   string      `json:"username"`
	Bio        string      `json:"bio"`
	ProfilePic string      `json:"profilePic"`
	Wallet     json.Number `json:"wallet"`
	Currency   string      `json:"currency"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// PublicProfileResponse is what anyone can see about a user
type PublicProfileResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	Bio        string    `json:"bio"`
	ProfilePic string    `json:"profilePic"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DonationResponse is a single ledger row as the wallet and overlay read it
type DonationResponse struct {
	ID           string      `json:"id"`
	Amount       json.Number `json:"amount"`
	Date         *time.Time  `json:"date,omitempty"`
	FromUserName string      `json:"fromUserName,omitempty"`
	Status       string      `json:"status,omitempty"`
}

// WalletResponse is the owner's balance with the newest received donations
type WalletResponse struct {
	Wallet    json.Number        `json:"wallet"`
	Currency  string             `json:"currency"`
	Donations []DonationResponse `json:"donations"`
}

// DonationListResponse wraps a list of donations
type DonationListResponse struct {
	Donations []DonationResponse `json:"donations"`
}

// RecipientResponse identifies who a donation went to
type RecipientResponse struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username"`
}

// DonationReceiptResponse is returned once a donation is accepted
type DonationReceiptResponse struct {
	Donation  DonationResponse  `json:"donation"`
	Recipient RecipientResponse `json:"recipient"`
}

func amountJSON(minor int64) json.Number {
	return json.Number(money.FromMinor(minor).StringFixed(money.Scale))
}

func mapUserToResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Username:   u.Username,
		Bio:        u.Bio,
		ProfilePic: u.ProfilePic,
		Wallet:     amountJSON(u.Wallet),
		Currency:   u.Currency,
		CreatedAt:  u.CreatedAt,
	}
}

func mapUserToPublicProfile(u *user.User) PublicProfileResponse {
	return PublicProfileResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Username:   u.Username,
		Bio:        u.Bio,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
	}
}

// mapDonationToResponse omits the date when the ledger has none recorded
func mapDonationToResponse(d *donation.Donation) DonationResponse {
	response := DonationResponse{
		ID:           d.ID.String(),
		Amount:       amountJSON(d.Amount),
		FromUserName: d.FromUserName,
		Status:       string(d.Status),
	}
	if !d.CreatedAt.IsZero() {
		date := d.CreatedAt.UTC()
		response.Date = &date
	}
	return response
}

func mapDonations(donations []*donation.Donation) []DonationResponse {
	responses := make([]DonationResponse, 0, len(donations))
	for _, d := range donations {
		responses = append(responses, mapDonationToResponse(d))
	}
	return responses
}

func mapAuthResult(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      mapUserToResponse(result.User),
	}
}
