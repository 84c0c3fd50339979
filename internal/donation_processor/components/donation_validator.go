package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/donation_processor/service"
)

type DonationValidatorImpl struct {
	donationRepo donation.Repository
	logger       *slog.Logger
}

func NewDonationValidator(donationRepo donation.Repository, logger *slog.Logger) service.DonationValidator {
	return &DonationValidatorImpl{
		donationRepo: donationRepo,
		logger:       logger,
	}
}

// Validate checks donation request validity
func (v *DonationValidatorImpl) Validate(_ context.Context, request *shared.DonationRequest) error {
	if request.Amount <= 0 {
		return fmt.Errorf("%w: %d", shared.ErrInvalidAmount, request.Amount)
	}
	if len(request.Currency) != 3 {
		return fmt.Errorf("%w: %q", shared.ErrInvalidCurrency, request.Currency)
	}
	if request.FromUserID == request.ToUserID {
		return shared.ErrSelfDonation
	}
	return nil
}

// CheckIdempotency reports whether the donation already reached a final state.
// A PENDING entry written by the gateway does not count as processed.
func (v *DonationValidatorImpl) CheckIdempotency(ctx context.Context, request *shared.DonationRequest) (bool, error) {
	logger := v.logger
	if request.CorrelationID != "" {
		logger = v.logger.With("correlation_id", request.CorrelationID)
	}

	existing, err := v.donationRepo.GetByID(ctx, request.DonationID)
	if err != nil {
		if errors.Is(err, donation.ErrDonationNotFound{}) {
			return false, nil
		}
		logger.Error("Failed to check ledger for idempotency", "donation_id", request.DonationID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for donation %s: %w", request.DonationID.String(), err)
	}

	if existing.IsTerminal() {
		logger.Info("Donation already processed", "donation_id", request.DonationID.String(), "status", existing.Status)
		return true, nil
	}

	return false, nil
}
