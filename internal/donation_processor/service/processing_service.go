package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/donation-wallet/internal/domain/outbox"
	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/donation-wallet/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

type ProcessingServiceImpl struct {
	db               persistence.TxBeginner
	validator        DonationValidator
	recipientManager RecipientManager
	outboxManager    OutboxManager
	failureRecorder  FailureRecorder
	logger           *slog.Logger
}

func NewProcessingService(
	db persistence.TxBeginner,
	validator DonationValidator,
	recipientManager RecipientManager,
	outboxManager OutboxManager,
	failureRecorder FailureRecorder,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		db:               db,
		validator:        validator,
		recipientManager: recipientManager,
		outboxManager:    outboxManager,
		failureRecorder:  failureRecorder,
		logger:           logger,
	}
}

// ProcessDonation credits the recipient and stages the ledger entry in the
// outbox within one database transaction. Business failures are recorded and
// acknowledged; infrastructure errors are returned so the message is retried.
func (s *ProcessingServiceImpl) ProcessDonation(ctx context.Context, request *shared.DonationRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}
	donationID := request.DonationID.String()

	logger.Info("Processing donation", "donation_id", donationID, "recipient_id", request.ToUserID.String())

	// 1. Validate the donation
	if err := s.validator.Validate(ctx, request); err != nil {
		logger.Error("Donation validation failed", "donation_id", donationID, "error", err)
		s.recordFailure(ctx, logger, request, validationFailureReason(err))
		return nil // Acknowledge the message
	}

	// 2. Check idempotency
	skip, err := s.validator.CheckIdempotency(ctx, request)
	if err != nil {
		return err // Let Kafka retry
	}
	if skip {
		return nil
	}

	// 3. Credit and stage the ledger entry atomically
	var recipient *user.User
	err = persistence.ExecuteTx(ctx, s.db, func(tx pgx.Tx) error {
		var txErr error
		if recipient, txErr = s.recipientManager.LockAndCredit(ctx, tx, request); txErr != nil {
			return txErr
		}
		return s.outboxManager.CreateOutboxEntry(ctx, tx, request, recipient)
	})

	// 4. Sort the outcome into ack or retry
	switch {
	case err == nil:
		logger.Info("Donation credited", "donation_id", donationID, "recipient_id", request.ToUserID.String(), "wallet", recipient.Wallet)
		return nil
	case errors.Is(err, outbox.ErrDuplicateMessage{}):
		// Redelivered message; the repeated credit was rolled back.
		logger.Info("Donation already credited, skipping", "donation_id", donationID)
		return nil
	}
	if reason, ok := creditFailureReason(err, request); ok {
		s.recordFailure(ctx, logger, request, reason)
		return nil
	}

	logger.Error("Donation transaction failed", "donation_id", donationID, "recipient_id", request.ToUserID.String(), "error", err)
	return fmt.Errorf("donation %s: %w", donationID, err)
}

func (s *ProcessingServiceImpl) recordFailure(ctx context.Context, logger *slog.Logger, request *shared.DonationRequest, reason string) {
	if err := s.failureRecorder.RecordFailure(ctx, request, reason); err != nil {
		logger.Error("Failed to record donation failure", "donation_id", request.DonationID.String(), "reason", reason, "error", err)
	}
}

func validationFailureReason(err error) string {
	switch {
	case errors.Is(err, shared.ErrSelfDonation):
		return string(shared.FailureReasonSelfDonation)
	case errors.Is(err, shared.ErrInvalidCurrency):
		return fmt.Sprintf("%s: %v", shared.FailureReasonCurrencyMismatch, err)
	case errors.Is(err, shared.ErrInvalidAmount):
		return string(shared.FailureReasonInvalidAmount)
	default:
		return string(shared.FailureReasonUnknownError)
	}
}

// creditFailureReason maps business errors raised while crediting to a
// failure reason. It reports false for errors worth retrying.
func creditFailureReason(err error, request *shared.DonationRequest) (string, bool) {
	switch {
	case errors.Is(err, user.ErrUserNotFound{}):
		return string(shared.FailureReasonRecipientNotFound), true
	case errors.Is(err, shared.ErrInvalidCurrency):
		return fmt.Sprintf("%s: %s", shared.FailureReasonCurrencyMismatch, request.Currency), true
	case errors.Is(err, user.ErrInvalidAmount):
		return string(shared.FailureReasonInvalidAmount), true
	default:
		return "", false
	}
}
