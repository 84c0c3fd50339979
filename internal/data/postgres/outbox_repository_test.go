package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/donation-wallet/internal/domain/outbox"
	"github.com/donation-wallet/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var outboxRowColumns = []string{"id", "donation_id", "recipient_id", "payload", "status", "attempts", "created_at", "last_attempt_at"}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	message := &outbox.Message{
		DonationID:  uuid.New(),
		RecipientID: uuid.New(),
		Payload:     json.RawMessage(`{"amount":1000}`),
		Status:      shared.OutboxStatusPending,
		CreatedAt:   time.Now(),
	}
	query := regexp.QuoteMeta("INSERT INTO donation_outbox (donation_id, recipient_id, payload, status, attempts, created_at)")

	t.Run("success sets id", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(message.DonationID, message.RecipientID, message.Payload, message.Status, message.Attempts, message.CreatedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		err := repo.Create(ctx, message)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), message.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second message for a donation", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(message.DonationID, message.RecipientID, message.Payload, message.Status, message.Attempts, message.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "donation_outbox_donation_id_key"})

		err := repo.Create(ctx, message)
		assert.ErrorIs(t, err, outbox.ErrDuplicateMessage{})
		assert.ErrorIs(t, err, outbox.ErrDuplicateMessage{DonationID: message.DonationID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("insert failed")
		mock.ExpectQuery(query).
			WithArgs(message.DonationID, message.RecipientID, message.Payload, message.Status, message.Attempts, message.CreatedAt).
			WillReturnError(dbErr)

		err := repo.Create(ctx, message)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to create outbox message")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_GetPending(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	query := regexp.QuoteMeta("FROM donation_outbox WHERE status = $1 ORDER BY created_at ASC LIMIT $2")

	t.Run("returns messages in order", func(t *testing.T) {
		now := time.Now()
		first, second := uuid.New(), uuid.New()
		recipient := uuid.New()
		var never *time.Time
		rows := pgxmock.NewRows(outboxRowColumns).
			AddRow(int64(1), first, recipient, json.RawMessage(`{}`), shared.OutboxStatusPending, 0, now.Add(-time.Minute), never).
			AddRow(int64(2), second, recipient, json.RawMessage(`{}`), shared.OutboxStatusPending, 1, now, never)

		mock.ExpectQuery(query).WithArgs(shared.OutboxStatusPending, 10).WillReturnRows(rows)

		messages, err := repo.GetPending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, first, messages[0].DonationID)
		assert.Equal(t, second, messages[1].DonationID)
		assert.Equal(t, 1, messages[1].Attempts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(shared.OutboxStatusPending, 10).WillReturnError(errors.New("timeout"))

		messages, err := repo.GetPending(ctx, 10)
		assert.Nil(t, messages)
		assert.Contains(t, err.Error(), "failed to get pending outbox messages")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	query := regexp.QuoteMeta("UPDATE donation_outbox SET status = $1, last_attempt_at = $2 WHERE id = $3")

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.UpdateStatus(ctx, 7, shared.OutboxStatusProcessed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing message", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(8)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(ctx, 8, shared.OutboxStatusProcessed)
		assert.Equal(t, outbox.ErrMessageNotFound{ID: 8}, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_IncrementAttempts(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	query := regexp.QuoteMeta("UPDATE donation_outbox SET attempts = attempts + 1, last_attempt_at = $1 WHERE id = $2")

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(pgxmock.AnyArg(), int64(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.IncrementAttempts(ctx, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("conn reset")
		mock.ExpectExec(query).WithArgs(pgxmock.AnyArg(), int64(3)).WillReturnError(dbErr)

		err := repo.IncrementAttempts(ctx, 3)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "failed to increment outbox message attempts")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
