package service

import (
	"context"

	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/jackc/pgx/v5"
)

// ProcessingService defines the interface for processing donation requests.
type ProcessingService interface {
	ProcessDonation(ctx context.Context, request *shared.DonationRequest) error
}

// DonationValidator validates donation requests before processing
type DonationValidator interface {
	Validate(ctx context.Context, request *shared.DonationRequest) error
	CheckIdempotency(ctx context.Context, request *shared.DonationRequest) (bool, error)
}

// RecipientManager credits the recipient's wallet inside the processing transaction
type RecipientManager interface {
	LockAndCredit(ctx context.Context, tx pgx.Tx, request *shared.DonationRequest) (*user.User, error)
}

// OutboxManager handles the creation of outbox entries for credited donations
type OutboxManager interface {
	CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.DonationRequest, recipient *user.User) error
}

// FailureRecorder handles recording failed donations
type FailureRecorder interface {
	RecordFailure(ctx context.Context, request *shared.DonationRequest, failureReason string) error
}
