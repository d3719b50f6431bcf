package user

import (
	"context"
	"fmt"

	"github.com/nkiryanov/verifylink/internal/apperrors"
	"github.com/nkiryanov/verifylink/internal/models"
	"github.com/nkiryanov/verifylink/internal/repository"
)

// UserService registers identities tokens are issued for
type UserService struct {
	userRepo repository.UserRepo
}

func NewService(userRepo repository.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (s *UserService) CreateUser(ctx context.Context, userID int64, username string) (models.User, error) {
	if userID <= 0 {
		return models.User{}, apperrors.ErrUserIDInvalid
	}

	user, err := s.userRepo.CreateUser(ctx, userID, username)
	if err != nil {
		return user, fmt.Errorf("can't create user. Err: %w", err)
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	if userID <= 0 {
		return models.User{}, apperrors.ErrUserIDInvalid
	}

	return s.userRepo.GetUserByID(ctx, userID)
}
