package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/donation-wallet/internal/donation_processor/service"
	"github.com/jackc/pgx/v5"
)

// RecipientManagerImpl implements the RecipientManager interface
type RecipientManagerImpl struct {
	userRepo user.Repository
	logger   *slog.Logger
}

// NewRecipientManager creates a new RecipientManagerImpl
func NewRecipientManager(userRepo user.Repository, logger *slog.Logger) service.RecipientManager {
	return &RecipientManagerImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// LockAndCredit locks the recipient row, checks the currency and adds the
// donation to the wallet. The write happens within tx.
func (m *RecipientManagerImpl) LockAndCredit(ctx context.Context, tx pgx.Tx, request *shared.DonationRequest) (*user.User, error) {
	logger := m.logger
	if request.CorrelationID != "" {
		logger = m.logger.With("correlation_id", request.CorrelationID)
	}
	donationID := request.DonationID.String()

	userRepoTx := m.userRepo.WithTx(tx)

	recipient, err := userRepoTx.LockForUpdate(ctx, request.ToUserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound{}) {
			logger.Warn("Recipient not found for lock", "donation_id", donationID, "recipient_id", request.ToUserID.String())
			return nil, err
		}
		return nil, fmt.Errorf("failed to lock recipient %s: %w", request.ToUserID.String(), err)
	}

	if recipient.Currency != request.Currency {
		logger.Warn("Currency mismatch", "donation_id", donationID, "request_currency", request.Currency, "wallet_currency", recipient.Currency)
		return nil, shared.ErrInvalidCurrency
	}

	if err := recipient.Credit(request.Amount); err != nil {
		return nil, err
	}

	if err := userRepoTx.UpdateWallet(ctx, recipient); err != nil {
		if errors.Is(err, user.ErrConcurrentModification{UserID: recipient.ID}) {
			logger.Warn("Concurrent modification on wallet update", "donation_id", donationID, "recipient_id", recipient.ID.String())
		}
		return nil, err
	}
	logger.Debug("Wallet credited", "donation_id", donationID, "recipient_id", recipient.ID.String(), "wallet", recipient.Wallet, "version", recipient.Version)

	return recipient, nil
}
