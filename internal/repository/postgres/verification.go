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

type VerificationRepo struct {
	DB DBTX
}

const setVerified = `-- name: Set user verification date
INSERT INTO verifications (user_id, verified_on)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE
SET verified_on = EXCLUDED.verified_on, updated_at = now()
`

func (r *VerificationRepo) SetVerified(ctx context.Context, userID int64, date models.Date) error {
	_, err := r.DB.Exec(ctx, setVerified, userID, date.Time())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const getVerified = `-- name: Get user verification date
SELECT verified_on
FROM verifications
WHERE user_id = $1
`

func (r *VerificationRepo) GetVerified(ctx context.Context, userID int64) (models.Date, error) {
	rows, _ := r.DB.Query(ctx, getVerified, userID)
	verifiedOn, err := pgx.CollectOneRow(rows, pgx.RowTo[time.Time])

	switch {
	case err == nil:
		return models.DateOf(verifiedOn.UTC()), nil
	case errors.Is(err, pgx.ErrNoRows):
		return models.Date{}, fmt.Errorf("repo error: %w", apperrors.ErrVerificationNotFound)
	default:
		return models.Date{}, fmt.Errorf("db error: %w", err)
	}
}
