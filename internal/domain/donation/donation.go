package donation

import (
	"time"

	"github.com/donation-wallet/internal/domain/shared"
	"github.com/google/uuid"
)

// Donation is a single entry of a recipient's donation ledger
type Donation struct {
	ID             uuid.UUID             `json:"id" bson:"donation_id"`
	FromUserID     uuid.UUID             `json:"from_user_id" bson:"from_user_id"`
	FromUserName   string                `json:"from_user_name,omitempty" bson:"from_user_name,omitempty"`
	ToUserID       uuid.UUID             `json:"to_user_id" bson:"to_user_id"`
	Amount         int64                 `json:"amount" bson:"amount"` // Stored in kuruş/minor units
	Currency       string                `json:"currency" bson:"currency"`
	IdempotencyKey string                `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	CorrelationID  string                `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Status         shared.DonationStatus `json:"status" bson:"status"`
	FailureReason  string                `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	CreatedAt      time.Time             `json:"created_at" bson:"created_at"`
	ProcessedAt    *time.Time            `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
}

// FromRequest builds the ledger entry for a donation request in the given status
func FromRequest(request *shared.DonationRequest, status shared.DonationStatus) *Donation {
	return &Donation{
		ID:             request.DonationID,
		FromUserID:     request.FromUserID,
		FromUserName:   request.FromUserName,
		ToUserID:       request.ToUserID,
		Amount:         request.Amount,
		Currency:       request.Currency,
		IdempotencyKey: request.IdempotencyKey,
		CorrelationID:  request.CorrelationID,
		Status:         status,
		CreatedAt:      request.Timestamp,
	}
}

// IsTerminal reports whether the donation reached a final state
func (d *Donation) IsTerminal() bool {
	return d.Status == shared.DonationStatusCompleted || d.Status == shared.DonationStatusFailed
}
