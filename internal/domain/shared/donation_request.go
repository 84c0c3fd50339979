package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrSelfDonation    = errors.New("cannot donate to yourself")
)

// DonationRequest defines a Kafka message for donation processing
type DonationRequest struct {
	DonationID     uuid.UUID `json:"donation_id"`
	FromUserID     uuid.UUID `json:"from_user_id"`
	FromUserName   string    `json:"from_user_name,omitempty"`
	ToUserID       uuid.UUID `json:"to_user_id"`
	Amount         int64     `json:"amount"` // Stored in kuruş/minor units
	Currency       string    `json:"currency"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	CorrelationID  string    `json:"correlation_id"`
	Timestamp      time.Time `json:"timestamp"`
}
