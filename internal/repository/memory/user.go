package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nkiryanov/verifylink/internal/apperrors"
	"github.com/nkiryanov/verifylink/internal/models"
)

type UserRepo struct {
	mu    sync.RWMutex
	users map[int64]models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		users: make(map[int64]models.User),
	}
}

func (r *UserRepo) CreateUser(_ context.Context, userID int64, username string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; ok {
		return models.User{}, apperrors.ErrUserAlreadyExists
	}

	user := models.User{
		ID:        userID,
		Username:  username,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	r.users[userID] = user

	return user, nil
}

func (r *UserRepo) GetUserByID(_ context.Context, userID int64) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return user, fmt.Errorf("repo error: %w", apperrors.ErrUserNotFound)
	}

	return user, nil
}
