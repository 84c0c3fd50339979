package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockDonationValidator struct {
	mock.Mock
}

func (m *MockDonationValidator) Validate(ctx context.Context, request *shared.DonationRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockDonationValidator) CheckIdempotency(ctx context.Context, request *shared.DonationRequest) (bool, error) {
	args := m.Called(ctx, request)
	return args.Bool(0), args.Error(1)
}

type MockRecipientManager struct {
	mock.Mock
}

func (m *MockRecipientManager) LockAndCredit(ctx context.Context, tx pgx.Tx, request *shared.DonationRequest) (*user.User, error) {
	args := m.Called(ctx, tx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockOutboxManager struct {
	mock.Mock
}

func (m *MockOutboxManager) CreateOutboxEntry(ctx context.Context, tx pgx.Tx, request *shared.DonationRequest, recipient *user.User) error {
	args := m.Called(ctx, tx, request, recipient)
	return args.Error(0)
}

type MockFailureRecorder struct {
	mock.Mock
}

func (m *MockFailureRecorder) RecordFailure(ctx context.Context, request *shared.DonationRequest, failureReason string) error {
	args := m.Called(ctx, request, failureReason)
	return args.Error(0)
}

// MockProcessingService mocks the ProcessingService interface
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessDonation(ctx context.Context, request *shared.DonationRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestRequest() *shared.DonationRequest {
	return &shared.DonationRequest{
		DonationID:     uuid.New(),
		FromUserID:     uuid.New(),
		FromUserName:   "Mehmet",
		ToUserID:       uuid.New(),
		Amount:         2550,
		Currency:       "TRY",
		IdempotencyKey: "key-1",
		CorrelationID:  "corr-1",
		Timestamp:      time.Now().UTC(),
	}
}
