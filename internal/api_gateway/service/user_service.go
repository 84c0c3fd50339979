package service

import (
	"context"

	"github.com/donation-wallet/internal/domain/user"
	"github.com/google/uuid"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userRepo user.Repository
}

// NewUserService creates a new user service
func NewUserService(userRepo user.Repository) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, username string) (*user.User, error) {
	return s.userRepo.GetByUsername(ctx, user.NormalizeUsername(username))
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, bio, profilePic *string) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.UpdateProfile(bio, profilePic)
	if err := s.userRepo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
