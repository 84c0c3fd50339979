package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/outbox"
	"github.com/donation-wallet/internal/domain/shared"
)

// LedgerPublisher publishes outbox messages to the donation ledger
type LedgerPublisher interface {
	PublishToLedger(ctx context.Context, message *outbox.Message) error
}

// LedgerPublisherImpl implements LedgerPublisher on top of the MongoDB ledger
type LedgerPublisherImpl struct {
	outboxRepo   outbox.Repository
	donationRepo donation.Repository
	logger       *slog.Logger
}

// NewLedgerPublisher creates a new publisher
func NewLedgerPublisher(
	outboxRepo outbox.Repository,
	donationRepo donation.Repository,
	logger *slog.Logger,
) LedgerPublisher {
	return &LedgerPublisherImpl{
		outboxRepo:   outboxRepo,
		donationRepo: donationRepo,
		logger:       logger,
	}
}

// PublishToLedger marks the donation COMPLETED in the ledger, creating the
// entry if the gateway never wrote one, then marks the outbox row PROCESSED.
func (p *LedgerPublisherImpl) PublishToLedger(ctx context.Context, message *outbox.Message) error {
	entry, err := message.GetDonation()
	if err != nil {
		p.logger.Error("Failed to unmarshal donation from outbox payload",
			"outbox_id", message.ID, "donation_id", message.DonationID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if entry.CorrelationID != "" {
		logger = p.logger.With("correlation_id", entry.CorrelationID)
	}
	donationID := entry.ID.String()

	existing, err := p.donationRepo.GetByID(ctx, entry.ID)
	switch {
	case err == nil && existing.Status == shared.DonationStatusCompleted:
		logger.Info("Ledger entry already COMPLETED", "donation_id", donationID)
	case err == nil:
		if err := p.donationRepo.UpdateStatus(ctx, entry.ID, shared.DonationStatusCompleted, ""); err != nil {
			return fmt.Errorf("failed to update ledger entry %s to COMPLETED: %w", donationID, err)
		}
	case errors.Is(err, donation.ErrDonationNotFound{}):
		now := time.Now().UTC()
		entry.Status = shared.DonationStatusCompleted
		entry.ProcessedAt = &now
		if err := p.donationRepo.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to create ledger entry %s: %w", donationID, err)
		}
	default:
		logger.Error("Failed to check existing ledger entry", "donation_id", donationID, "error", err)
		return fmt.Errorf("failed to check existing ledger entry %s: %w", donationID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "donation_id", donationID, "error", err,
		)
		return fmt.Errorf("ledger write for %s OK, but failed to mark outbox %d as PROCESSED: %w", donationID, message.ID, err)
	}

	logger.Info("Donation completed in ledger", "outbox_id", message.ID, "donation_id", donationID)
	return nil
}
