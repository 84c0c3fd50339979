package mongo

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/donation-wallet/internal/domain/donation"
	"github.com/donation-wallet/internal/domain/shared"
)

const testNamespace = "donations.donations"

func newTestRepo(mt *mtest.T) *DonationRepository {
	return &DonationRepository{
		db:     mt.DB,
		logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
}

func donationDoc(id, from, to uuid.UUID, amount int64, fromName string, createdAt time.Time) bson.D {
	return bson.D{
		{Key: "donation_id", Value: id},
		{Key: "from_user_id", Value: from},
		{Key: "from_user_name", Value: fromName},
		{Key: "to_user_id", Value: to},
		{Key: "amount", Value: amount},
		{Key: "currency", Value: "TRY"},
		{Key: "status", Value: string(shared.DonationStatusCompleted)},
		{Key: "created_at", Value: createdAt},
	}
}

func TestNewDonationRepository(t *testing.T) {
	repo := NewDonationRepository(slog.Default(), nil)

	assert.NotNil(t, repo)
	assert.IsType(t, &DonationRepository{}, repo)
}

func TestDonationRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	d := &donation.Donation{
		ID:        uuid.New(),
		ToUserID:  uuid.New(),
		Amount:    1500,
		Currency:  "TRY",
		Status:    shared.DonationStatusCompleted,
		CreatedAt: time.Now(),
	}

	mt.Run("success", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.Create(context.Background(), d)
		assert.NoError(mt, err)
		assert.Equal(mt, "insert", mt.GetStartedEvent().CommandName)
	})

	mt.Run("duplicate", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), d)
		assert.ErrorIs(mt, err, donation.ErrDuplicateDonation{ID: d.ID})
	})

	mt.Run("command error", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		err := repo.Create(context.Background(), d)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to create donation")
	})
}

func TestDonationRepository_GetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id, from, to := uuid.New(), uuid.New(), uuid.New()
	createdAt := time.Now().UTC().Truncate(time.Millisecond)

	mt.Run("found", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			donationDoc(id, from, to, 4200, "Can", createdAt)))

		d, err := repo.GetByID(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, id, d.ID)
		assert.Equal(mt, from, d.FromUserID)
		assert.Equal(mt, to, d.ToUserID)
		assert.Equal(mt, int64(4200), d.Amount)
		assert.Equal(mt, "Can", d.FromUserName)
		assert.Equal(mt, shared.DonationStatusCompleted, d.Status)
		assert.True(mt, createdAt.Equal(d.CreatedAt))
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		d, err := repo.GetByID(context.Background(), id)
		assert.Nil(mt, d)
		assert.ErrorIs(mt, err, donation.ErrDonationNotFound{ID: id})
	})
}

func TestDonationRepository_GetByIdempotencyKey(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty key", func(mt *mtest.T) {
		repo := newTestRepo(mt)

		d, err := repo.GetByIdempotencyKey(context.Background(), "")
		assert.Nil(mt, d)
		assert.EqualError(mt, err, "idempotency key cannot be empty")
	})

	mt.Run("missing yields nil", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		d, err := repo.GetByIdempotencyKey(context.Background(), "key-1")
		assert.NoError(mt, err)
		assert.Nil(mt, d)
	})
}

func TestDonationRepository_ListReceived(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	to := uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)

	mt.Run("returns server order", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		newest, older := uuid.New(), uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			donationDoc(newest, uuid.New(), to, 1000, "Ali", now),
			donationDoc(older, uuid.New(), to, 2500, "", now.Add(-time.Hour)),
		))

		donations, err := repo.ListReceived(context.Background(), to, 20)
		require.NoError(mt, err)
		require.Len(mt, donations, 2)
		assert.Equal(mt, newest, donations[0].ID)
		assert.Equal(mt, older, donations[1].ID)
		assert.Empty(mt, donations[1].FromUserName)

		started := mt.GetStartedEvent()
		assert.Equal(mt, "find", started.CommandName)
		limit, ok := started.Command.Lookup("limit").AsInt64OK()
		assert.True(mt, ok)
		assert.Equal(mt, int64(20), limit)
	})

	mt.Run("empty ledger", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))

		donations, err := repo.ListReceived(context.Background(), to, 20)
		require.NoError(mt, err)
		assert.NotNil(mt, donations)
		assert.Empty(mt, donations)
	})

	mt.Run("command error", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Message: "unauthorized", Name: "Unauthorized"}))

		donations, err := repo.ListReceived(context.Background(), to, 20)
		assert.Nil(mt, donations)
		assert.Contains(mt, err.Error(), "failed to list received donations")
	})
}

func TestDonationRepository_GetReceivedByIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	to := uuid.New()

	mt.Run("no ids skips the query", func(mt *mtest.T) {
		repo := newTestRepo(mt)

		donations, err := repo.GetReceivedByIDs(context.Background(), to, nil)
		require.NoError(mt, err)
		assert.Empty(mt, donations)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("unknown ids are omitted", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		known := uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch,
			donationDoc(known, uuid.New(), to, 700, "Deniz", time.Now().UTC().Truncate(time.Millisecond)),
		))

		donations, err := repo.GetReceivedByIDs(context.Background(), to, []uuid.UUID{known, uuid.New()})
		require.NoError(mt, err)
		require.Len(mt, donations, 1)
		assert.Equal(mt, known, donations[0].ID)
	})
}

func TestDonationRepository_UpdateStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := uuid.New()

	mt.Run("success", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.UpdateStatus(context.Background(), id, shared.DonationStatusFailed, string(shared.FailureReasonRecipientNotFound))
		assert.NoError(mt, err)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := newTestRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.UpdateStatus(context.Background(), id, shared.DonationStatusFailed, "")
		assert.ErrorIs(mt, err, donation.ErrDonationNotFound{ID: id})
	})
}
