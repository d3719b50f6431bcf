package e2e

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/verifylink/internal/handlers"
	"github.com/nkiryanov/verifylink/internal/logger"
	"github.com/nkiryanov/verifylink/internal/repository/postgres"
	"github.com/nkiryanov/verifylink/internal/service/shortener"
	"github.com/nkiryanov/verifylink/internal/service/user"
	"github.com/nkiryanov/verifylink/internal/service/verification"
	"github.com/nkiryanov/verifylink/internal/testutil"
)

const BaseLink = "https://t.me/verify_bot?start="

type Services struct {
	UserService         *user.UserService
	VerificationService *verification.Service
}

type Options struct {
	// Shortener client, links are not shortened if nil
	Shortener shortener.Client

	// Clock, time.Now if nil
	Now func() time.Time
}

type sameLink struct{}

func (sameLink) ShortenURL(_ context.Context, link string) (string, error) { return link, nil }

// Create db transaction and run server in with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, opts Options, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		l := logger.NewNoOpLogger()
		storage := postgres.NewStorage(tx)

		client := opts.Shortener
		if client == nil {
			client = sameLink{}
		}

		// Initialize services
		vs, err := verification.NewService(verification.Config{
			Location: time.UTC,
			Now:      opts.Now,
		}, storage, shortener.NewWithClient(client, time.Second, l), l)
		require.NoError(t, err, "verification service starting error")
		us := user.NewService(storage.User())

		// Run http server with the router in transaction
		srv := httptest.NewServer(handlers.NewRouter(us, vs, BaseLink, l))
		defer srv.Close()

		fn(tx, srv.URL, Services{
			UserService:         us,
			VerificationService: vs,
		})
	})
}
