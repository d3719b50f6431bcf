package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/verifylink/internal/apperrors"
	"github.com/nkiryanov/verifylink/internal/models"
	"github.com/nkiryanov/verifylink/internal/testutil"
)

func Test_VerificationRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	march1 := models.Date{Year: 2024, Month: time.March, Day: 1}
	march2 := models.Date{Year: 2024, Month: time.March, Day: 2}

	t.Run("never verified", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := VerificationRepo{DB: tx}

			_, err := repo.GetVerified(t.Context(), 42)

			require.ErrorIs(t, err, apperrors.ErrVerificationNotFound)
		})
	})

	t.Run("set and get", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := VerificationRepo{DB: tx}

			err := repo.SetVerified(t.Context(), 42, march1)
			require.NoError(t, err)

			got, err := repo.GetVerified(t.Context(), 42)
			require.NoError(t, err)
			require.Equal(t, march1, got)
		})
	})

	t.Run("last write wins", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := VerificationRepo{DB: tx}
			require.NoError(t, repo.SetVerified(t.Context(), 42, march1))
			require.NoError(t, repo.SetVerified(t.Context(), 42, march2))

			got, err := repo.GetVerified(t.Context(), 42)

			require.NoError(t, err)
			require.Equal(t, march2, got)
		})
	})
}
