package outbox

import (
	"encoding/json"
	"time"

	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/shared"
	"github.com/google/uuid"
)

// Message stores a credited donation until it is published to the ledger
type Message struct {
	ID            int64               `json:"id"`
	DonationID    uuid.UUID           `json:"donation_id"`
	RecipientID   uuid.UUID           `json:"recipient_id"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

func NewMessage(d *donation.Donation) (*Message, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}

	return &Message{
		DonationID:  d.ID,
		RecipientID: d.ToUserID,
		Payload:     payload,
		Status:      shared.OutboxStatusPending,
		Attempts:    0,
		CreatedAt:   time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetDonation extracts the donation from the payload
func (m *Message) GetDonation() (*donation.Donation, error) {
	var d donation.Donation
	if err := json.Unmarshal(m.Payload, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
