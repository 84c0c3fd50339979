package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/outbox"
	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/donation-wallet/internal/donation_processor/service"
	"github.com/jackc/pgx/v5"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateOutboxEntry stages the ledger entry of a credited donation. The
// poller completes it in MongoDB once the transaction has committed.
func (m *OutboxManagerImpl) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.DonationRequest, recipient *user.User) error {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}

	entry := donation.FromRequest(request, shared.DonationStatusProcessing)
	entry.ToUserID = recipient.ID

	outboxMessage, err := outbox.NewMessage(entry)
	if err != nil {
		return fmt.Errorf("failed to create outbox message payload for donation %s: %w", request.DonationID.String(), err)
	}

	if err = m.outboxRepo.WithTx(tx).Create(ctx, outboxMessage); err != nil {
		logger.Error("Failed to create outbox message",
			"donation_id", request.DonationID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create outbox message for donation %s: %w", request.DonationID.String(), err)
	}
	logger.Debug("Outbox message created", "donation_id", request.DonationID.String(), "outbox_id", outboxMessage.ID)

	return nil
}
