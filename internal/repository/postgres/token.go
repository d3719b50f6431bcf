package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/verifylink/internal/apperrors"
	"github.com/nkiryanov/verifylink/internal/models"
)

type TokenRepo struct {
	DB DBTX
}

const saveToken = `-- name: Save verification token, overwrite on collision
INSERT INTO verification_tokens (id, user_id, token, created_at, used_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, token) DO UPDATE
SET id = EXCLUDED.id, created_at = EXCLUDED.created_at, used_at = EXCLUDED.used_at
`

func (r *TokenRepo) Save(ctx context.Context, token models.Token) error {
	_, err := r.DB.Exec(ctx, saveToken, token.ID, token.UserID, token.Value, token.CreatedAt, token.UsedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const getToken = `-- name: Get token of the user
SELECT id, created_at, used_at
FROM verification_tokens
WHERE user_id = $1 AND token = $2
`

// Get token
// It should return result even it used already
func (r *TokenRepo) Get(ctx context.Context, userID int64, value string) (models.Token, error) {
	rows, _ := r.DB.Query(ctx, getToken, userID, value)
	token, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Token, error) {
		var t = models.Token{UserID: userID, Value: value}
		err := row.Scan(&t.ID, &t.CreatedAt, &t.UsedAt)
		return t, err
	})

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, fmt.Errorf("repo error: %w", apperrors.ErrTokenNotFound)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

const markTokenUsed = `-- name: Mark token used if it not used
UPDATE verification_tokens
SET used_at = COALESCE(used_at, $3)
WHERE user_id = $1 AND token = $2
RETURNING used_at
`

// Mark token as used
// Should not rewrite already used tokens
func (r *TokenRepo) MarkUsed(ctx context.Context, userID int64, value string) (time.Time, error) {
	// Postgres keeps microseconds only: truncate to be able to compare with returned value
	now := time.Now().UTC().Truncate(time.Microsecond)
	rows, _ := r.DB.Query(ctx, markTokenUsed, userID, value, now)
	usedAt, err := pgx.CollectOneRow(rows, pgx.RowTo[time.Time])

	switch {
	case err == nil && usedAt.Equal(now):
		return usedAt, nil
	case err == nil: // usedAt != now == token is used
		return usedAt, fmt.Errorf("repo error: %w", apperrors.ErrTokenIsUsed)
	case errors.Is(err, pgx.ErrNoRows):
		return usedAt, fmt.Errorf("repo error: %w", apperrors.ErrTokenNotFound)
	default:
		return usedAt, fmt.Errorf("db error: %w", err)
	}
}

const deleteTokensCreatedBefore = `-- name: Delete old tokens
DELETE FROM verification_tokens
WHERE created_at < $1
`

func (r *TokenRepo) DeleteCreatedBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteTokensCreatedBefore, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}
