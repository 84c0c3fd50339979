package components

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/donation_processor/service"
)

type FailureRecorderImpl struct {
	donationRepo donation.Repository
	logger       *slog.Logger
}

func NewFailureRecorder(donationRepo donation.Repository, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		donationRepo: donationRepo,
		logger:       logger,
	}
}

// RecordFailure marks the donation FAILED in the ledger, creating the entry
// when the gateway never wrote one.
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, request *shared.DonationRequest, failureReason string) error {
	logger := r.logger
	if request.CorrelationID != "" {
		logger = r.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Recording failed donation", "donation_id", request.DonationID.String(), "reason", failureReason)

	err := r.donationRepo.UpdateStatus(ctx, request.DonationID, shared.DonationStatusFailed, failureReason)
	if err == nil {
		return nil
	}
	if !errors.Is(err, donation.ErrDonationNotFound{}) {
		logger.Error("Failed to mark donation FAILED", "donation_id", request.DonationID.String(), "error", err)
		return err
	}

	now := time.Now().UTC()
	entry := donation.FromRequest(request, shared.DonationStatusFailed)
	entry.FailureReason = failureReason
	entry.ProcessedAt = &now

	if err := r.donationRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, donation.ErrDuplicateDonation{}) {
			// written concurrently, fall back to the update
			return r.donationRepo.UpdateStatus(ctx, request.DonationID, shared.DonationStatusFailed, failureReason)
		}
		logger.Error("Failed to create FAILED ledger entry", "donation_id", request.DonationID.String(), "error", err)
		return err
	}
	return nil
}
