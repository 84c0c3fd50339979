package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/donation-wallet/internal/broadcast"
	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/donation-wallet/internal/money"
	"github.com/donation-wallet/internal/platform/messaging/producers"
	"github.com/google/uuid"
)

var (
	ErrEmptySelection    = errors.New("no donations selected")
	ErrRecipientRequired = errors.New("recipient username is required")
	ErrQueueUnavailable  = errors.New("donation queue is unavailable")
)

// failureReasonPublish marks a donation whose request never reached the processor
const failureReasonPublish = "PUBLISH_FAILED"

// DonationServiceImpl implements the DonationService interface
type DonationServiceImpl struct {
	userRepo     user.Repository
	donationRepo donation.Repository
	producer     producers.RequestPublisher
	ledgerLimit  int
	logger       *slog.Logger
}

// NewDonationService creates a new donation service. ledgerLimit caps the
// number of donations returned with the wallet.
func NewDonationService(
	logger *slog.Logger,
	userRepo user.Repository,
	donationRepo donation.Repository,
	producer producers.RequestPublisher,
	ledgerLimit int,
) DonationService {
	return &DonationServiceImpl{
		userRepo:     userRepo,
		donationRepo: donationRepo,
		producer:     producer,
		ledgerLimit:  ledgerLimit,
		logger:       logger,
	}
}

func (s *DonationServiceImpl) GetWallet(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	donations, err := s.donationRepo.ListReceived(ctx, userID, s.ledgerLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list received donations: %w", err)
	}

	return &Wallet{
		Balance:   owner.Wallet,
		Currency:  owner.Currency,
		Donations: donations,
	}, nil
}

// GetSelected drops ids that are not UUIDs; they cannot name a donation.
func (s *DonationServiceImpl) GetSelected(ctx context.Context, userID uuid.UUID, reference string) ([]*donation.Donation, error) {
	raw := broadcast.Decode(reference)
	if len(raw) == 0 {
		return nil, ErrEmptySelection
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			s.logger.Debug("Dropping malformed donation id", "id", r)
			continue
		}
		ids = append(ids, id)
	}

	return s.donationRepo.GetReceivedByIDs(ctx, userID, ids)
}

// CreateDonation records the donation as PENDING in the ledger and publishes
// the request for the processor, keyed by recipient.
func (s *DonationServiceImpl) CreateDonation(ctx context.Context, donorID uuid.UUID, input CreateDonationInput) (*DonationReceipt, error) {
	amount := money.Round(input.Amount)
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidAmount
	}
	minor, err := money.ToMinor(amount)
	if err != nil {
		return nil, shared.ErrInvalidAmount
	}

	target := user.NormalizeUsername(input.ToUsername)
	if target == "" {
		return nil, ErrRecipientRequired
	}

	donor, err := s.userRepo.GetByID(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if donor.Username == target {
		return nil, shared.ErrSelfDonation
	}

	idempotencyKey := strings.TrimSpace(input.IdempotencyKey)
	if idempotencyKey != "" {
		receipt, err := s.replay(ctx, idempotencyKey)
		if err != nil || receipt != nil {
			return receipt, err
		}
	}

	recipient, err := s.userRepo.GetByUsername(ctx, target)
	if err != nil {
		return nil, err
	}

	request := &shared.DonationRequest{
		DonationID:     uuid.New(),
		FromUserID:     donor.ID,
		FromUserName:   displayName(donor),
		ToUserID:       recipient.ID,
		Amount:         minor,
		Currency:       recipient.Currency,
		IdempotencyKey: idempotencyKey,
		CorrelationID:  input.CorrelationID,
		Timestamp:      time.Now().UTC(),
	}

	pending := donation.FromRequest(request, shared.DonationStatusPending)
	if err := s.donationRepo.Create(ctx, pending); err != nil {
		if idempotencyKey != "" && errors.Is(err, donation.ErrDuplicateDonation{}) {
			// A concurrent request with the same key won the insert.
			receipt, replayErr := s.replay(ctx, idempotencyKey)
			if replayErr == nil && receipt == nil {
				replayErr = err
			}
			return receipt, replayErr
		}
		return nil, fmt.Errorf("failed to record donation: %w", err)
	}

	if err := s.producer.Publish(ctx, recipient.ID.String(), request); err != nil {
		s.logger.Error("Failed to publish donation request",
			"donation_id", request.DonationID,
			"correlation_id", request.CorrelationID,
			"error", err,
		)
		if markErr := s.donationRepo.UpdateStatus(ctx, request.DonationID, shared.DonationStatusFailed, failureReasonPublish); markErr != nil {
			s.logger.Error("Failed to mark unpublished donation as failed", "donation_id", request.DonationID, "error", markErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrQueueUnavailable, err)
	}

	s.logger.Info("Donation request published",
		"donation_id", request.DonationID,
		"from_user_id", donor.ID,
		"to_user_id", recipient.ID,
		"amount", request.Amount,
		"correlation_id", request.CorrelationID,
	)

	return &DonationReceipt{Donation: pending, Recipient: recipient}, nil
}

// replay returns the receipt of an earlier donation with the same
// idempotency key, or nil when there is none.
func (s *DonationServiceImpl) replay(ctx context.Context, idempotencyKey string) (*DonationReceipt, error) {
	existing, err := s.donationRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	recipient, err := s.userRepo.GetByID(ctx, existing.ToUserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Found existing donation with idempotency key",
		"idempotency_key", idempotencyKey,
		"donation_id", existing.ID,
		"status", string(existing.Status),
	)
	return &DonationReceipt{Donation: existing, Recipient: recipient, Replayed: true}, nil
}

func displayName(u *user.User) string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.Username
}
