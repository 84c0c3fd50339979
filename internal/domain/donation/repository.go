package donation

import (
	"context"

	"github.com/donation-wallet/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository manages donation ledger persistence
type Repository interface {
	Create(ctx context.Context, donation *Donation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Donation, error)
	GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*Donation, error)

	// ListReceived returns the newest completed donations received by a user
	ListReceived(ctx context.Context, toUserID uuid.UUID, limit int) ([]*Donation, error)

	// GetReceivedByIDs returns the completed donations among ids that were
	// received by toUserID, newest first. Unknown ids are omitted.
	GetReceivedByIDs(ctx context.Context, toUserID uuid.UUID, ids []uuid.UUID) ([]*Donation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status shared.DonationStatus, reason string) error
}

// ErrDonationNotFound indicates a missing ledger entry
type ErrDonationNotFound struct {
	ID uuid.UUID
}

func (e ErrDonationNotFound) Error() string {
	return "donation not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrDonationNotFound
func (e ErrDonationNotFound) Is(target error) bool {
	t, ok := target.(ErrDonationNotFound)
	if !ok {
		return false
	}
	// An empty target ID matches any ErrDonationNotFound
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrDuplicateDonation indicates donation id uniqueness violation
type ErrDuplicateDonation struct {
	ID uuid.UUID
}

func (e ErrDuplicateDonation) Error() string {
	return "duplicate donation: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrDuplicateDonation
func (e ErrDuplicateDonation) Is(target error) bool {
	t, ok := target.(ErrDuplicateDonation)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
