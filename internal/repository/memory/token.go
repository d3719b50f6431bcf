package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nkiryanov/verifylink/internal/apperrors"
	"github.com/nkiryanov/verifylink/internal/models"
)

// TokenRepo keeps tokens grouped by user
// Single lock guards the whole map: operations are short and never do I/O
type TokenRepo struct {
	mu     sync.RWMutex
	tokens map[int64]map[string]models.Token
}

func NewTokenRepo() *TokenRepo {
	return &TokenRepo{
		tokens: make(map[int64]map[string]models.Token),
	}
}

func (r *TokenRepo) Save(_ context.Context, token models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userTokens, ok := r.tokens[token.UserID]
	if !ok {
		userTokens = make(map[string]models.Token)
		r.tokens[token.UserID] = userTokens
	}

	// Do not share UsedAt pointer with the caller
	if token.UsedAt != nil {
		usedAt := *token.UsedAt
		token.UsedAt = &usedAt
	}
	userTokens[token.Value] = token

	return nil
}

func (r *TokenRepo) Get(_ context.Context, userID int64, value string) (models.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.tokens[userID][value]
	if !ok {
		return models.Token{}, fmt.Errorf("repo error: %w", apperrors.ErrTokenNotFound)
	}

	return copyToken(token), nil
}

func (r *TokenRepo) MarkUsed(_ context.Context, userID int64, value string) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[userID][value]
	switch {
	case !ok:
		return time.Time{}, fmt.Errorf("repo error: %w", apperrors.ErrTokenNotFound)
	case token.UsedAt != nil:
		return *token.UsedAt, fmt.Errorf("repo error: %w", apperrors.ErrTokenIsUsed)
	}

	now := time.Now()
	token.UsedAt = &now
	r.tokens[userID][value] = token

	return now, nil
}

func (r *TokenRepo) DeleteCreatedBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for userID, userTokens := range r.tokens {
		for value, token := range userTokens {
			if token.CreatedAt.Before(before) {
				delete(userTokens, value)
				deleted++
			}
		}

		if len(userTokens) == 0 {
			delete(r.tokens, userID)
		}
	}

	return deleted, nil
}

func copyToken(t models.Token) models.Token {
	if t.UsedAt != nil {
		usedAt := *t.UsedAt
		t.UsedAt = &usedAt
	}
	return t
}
