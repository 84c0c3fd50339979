package components

import (
	"context"
	"errors"
	"testing"

	"github.com/donation-wallet/internal/domain/shared"
	"github.com/donation-wallet/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecipientManager_LockAndCredit(t *testing.T) {
	t.Run("CreditsWallet", func(t *testing.T) {
		repo := new(MockUserRepository)
		manager := NewRecipientManager(repo, newTestLogger())
		request := newTestRequest()
		recipient := &user.User{ID: request.ToUserID, Wallet: 1000, Currency: "TRY", Version: 4}

		repo.On("WithTx", mock.Anything).Return(repo)
		repo.On("LockForUpdate", mock.Anything, request.ToUserID).Return(recipient, nil).Once()
		repo.On("UpdateWallet", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
			return u.Wallet == 3550 && u.Version == 5
		})).Return(nil).Once()

		updated, err := manager.LockAndCredit(context.Background(), nil, request)

		require.NoError(t, err)
		assert.Equal(t, int64(3550), updated.Wallet)
		repo.AssertExpectations(t)
	})

	t.Run("RecipientNotFound", func(t *testing.T) {
		repo := new(MockUserRepository)
		manager := NewRecipientManager(repo, newTestLogger())
		request := newTestRequest()

		repo.On("WithTx", mock.Anything).Return(repo)
		repo.On("LockForUpdate", mock.Anything, request.ToUserID).Return(nil, user.ErrUserNotFound{UserID: request.ToUserID}).Once()

		_, err := manager.LockAndCredit(context.Background(), nil, request)

		assert.ErrorIs(t, err, user.ErrUserNotFound{})
		repo.AssertNotCalled(t, "UpdateWallet", mock.Anything, mock.Anything)
	})

	t.Run("LockError", func(t *testing.T) {
		repo := new(MockUserRepository)
		manager := NewRecipientManager(repo, newTestLogger())
		request := newTestRequest()
		lockErr := errors.New("deadlock detected")

		repo.On("WithTx", mock.Anything).Return(repo)
		repo.On("LockForUpdate", mock.Anything, request.ToUserID).Return(nil, lockErr).Once()

		_, err := manager.LockAndCredit(context.Background(), nil, request)

		assert.ErrorIs(t, err, lockErr)
		assert.Contains(t, err.Error(), "failed to lock recipient")
	})

	t.Run("CurrencyMismatch", func(t *testing.T) {
		repo := new(MockUserRepository)
		manager := NewRecipientManager(repo, newTestLogger())
		request := newTestRequest()

		repo.On("WithTx", mock.Anything).Return(repo)
		repo.On("LockForUpdate", mock.Anything, request.ToUserID).Return(&user.User{ID: request.ToUserID, Currency: "EUR"}, nil).Once()

		_, err := manager.LockAndCredit(context.Background(), nil, request)

		assert.ErrorIs(t, err, shared.ErrInvalidCurrency)
		repo.AssertNotCalled(t, "UpdateWallet", mock.Anything, mock.Anything)
	})

	t.Run("ConcurrentModification", func(t *testing.T) {
		repo := new(MockUserRepository)
		manager := NewRecipientManager(repo, newTestLogger())
		request := newTestRequest()
		recipient := &user.User{ID: request.ToUserID, Currency: "TRY", Version: 1}

		repo.On("WithTx", mock.Anything).Return(repo)
		repo.On("LockForUpdate", mock.Anything, request.ToUserID).Return(recipient, nil).Once()
		repo.On("UpdateWallet", mock.Anything, recipient).Return(user.ErrConcurrentModification{UserID: recipient.ID}).Once()

		_, err := manager.LockAndCredit(context.Background(), nil, request)

		assert.ErrorIs(t, err, user.ErrConcurrentModification{UserID: recipient.ID})
	})
}
