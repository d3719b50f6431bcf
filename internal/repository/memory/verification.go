package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/nkiryanov/verifylink/internal/apperrors"
	"github.com/nkiryanov/verifylink/internal/models"
)

type VerificationRepo struct {
	mu    sync.RWMutex
	dates map[int64]models.Date
}

func NewVerificationRepo() *VerificationRepo {
	return &VerificationRepo{
		dates: make(map[int64]models.Date),
	}
}

func (r *VerificationRepo) SetVerified(_ context.Context, userID int64, date models.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dates[userID] = date
	return nil
}

func (r *VerificationRepo) GetVerified(_ context.Context, userID int64) (models.Date, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	date, ok := r.dates[userID]
	if !ok {
		return date, fmt.Errorf("repo error: %w", apperrors.ErrVerificationNotFound)
	}

	return date, nil
}
