package outbox_poller

import (
	"context"
	"errors"
	"testing"

	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/outbox"
	"github.com/donation-wallet/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerPublisher_PublishToLedger(t *testing.T) {
	t.Run("CompletesPendingEntry", func(t *testing.T) {
		outboxRepo := new(MockOutboxRepo)
		donationRepo := new(MockDonationRepository)
		publisher := NewLedgerPublisher(outboxRepo, donationRepo, newTestLogger())
		msg, d := newTestMessage(t, 1, 0)

		donationRepo.On("GetByID", mock.Anything, d.ID).Return(&donation.Donation{ID: d.ID, Status: shared.DonationStatusPending}, nil).Once()
		donationRepo.On("UpdateStatus", mock.Anything, d.ID, shared.DonationStatusCompleted, "").Return(nil).Once()
		outboxRepo.On("UpdateStatus", mock.Anything, int64(1), shared.OutboxStatusProcessed).Return(nil).Once()

		err := publisher.PublishToLedger(context.Background(), msg)

		require.NoError(t, err)
		donationRepo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("CreatesMissingEntry", func(t *testing.T) {
		outboxRepo := new(MockOutboxRepo)
		donationRepo := new(MockDonationRepository)
		publisher := NewLedgerPublisher(outboxRepo, donationRepo, newTestLogger())
		msg, d := newTestMessage(t, 2, 0)

		donationRepo.On("GetByID", mock.Anything, d.ID).Return(nil, donation.ErrDonationNotFound{ID: d.ID}).Once()
		donationRepo.On("Create", mock.Anything, mock.MatchedBy(func(got *donation.Donation) bool {
			return got.ID == d.ID &&
				got.Status == shared.DonationStatusCompleted &&
				got.ProcessedAt != nil &&
				got.Amount == d.Amount &&
				got.FromUserName == "Mehmet"
		})).Return(nil).Once()
		outboxRepo.On("UpdateStatus", mock.Anything, int64(2), shared.OutboxStatusProcessed).Return(nil).Once()

		err := publisher.PublishToLedger(context.Background(), msg)

		require.NoError(t, err)
		donationRepo.AssertExpectations(t)
	})

	t.Run("AlreadyCompletedOnlyMarksOutbox", func(t *testing.T) {
		outboxRepo := new(MockOutboxRepo)
		donationRepo := new(MockDonationRepository)
		publisher := NewLedgerPublisher(outboxRepo, donationRepo, newTestLogger())
		msg, d := newTestMessage(t, 3, 1)

		donationRepo.On("GetByID", mock.Anything, d.ID).Return(&donation.Donation{ID: d.ID, Status: shared.DonationStatusCompleted}, nil).Once()
		outboxRepo.On("UpdateStatus", mock.Anything, int64(3), shared.OutboxStatusProcessed).Return(nil).Once()

		err := publisher.PublishToLedger(context.Background(), msg)

		require.NoError(t, err)
		donationRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		donationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("BadPayloadMarksFailed", func(t *testing.T) {
		outboxRepo := new(MockOutboxRepo)
		publisher := NewLedgerPublisher(outboxRepo, new(MockDonationRepository), newTestLogger())
		msg := &outbox.Message{ID: 4, Payload: []byte(`{"id":`)}

		outboxRepo.On("UpdateStatus", mock.Anything, int64(4), shared.OutboxStatusFailedToPublish).Return(nil).Once()

		err := publisher.PublishToLedger(context.Background(), msg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unmarshal payload")
		outboxRepo.AssertExpectations(t)
	})

	t.Run("LookupErrorLeavesOutboxPending", func(t *testing.T) {
		outboxRepo := new(MockOutboxRepo)
		donationRepo := new(MockDonationRepository)
		publisher := NewLedgerPublisher(outboxRepo, donationRepo, newTestLogger())
		msg, d := newTestMessage(t, 5, 0)

		donationRepo.On("GetByID", mock.Anything, d.ID).Return(nil, errors.New("mongo down")).Once()

		err := publisher.PublishToLedger(context.Background(), msg)

		require.Error(t, err)
		outboxRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("OutboxMarkFails", func(t *testing.T) {
		outboxRepo := new(MockOutboxRepo)
		donationRepo := new(MockDonationRepository)
		publisher := NewLedgerPublisher(outboxRepo, donationRepo, newTestLogger())
		msg, d := newTestMessage(t, 6, 0)

		donationRepo.On("GetByID", mock.Anything, d.ID).Return(&donation.Donation{ID: d.ID, Status: shared.DonationStatusCompleted}, nil).Once()
		outboxRepo.On("UpdateStatus", mock.Anything, int64(6), shared.OutboxStatusProcessed).Return(errors.New("pg down")).Once()

		err := publisher.PublishToLedger(context.Background(), msg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to mark outbox 6 as PROCESSED")
	})
}
