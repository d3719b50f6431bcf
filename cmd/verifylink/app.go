package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/nkiryanov/verifylink/internal/db"
	"github.com/nkiryanov/verifylink/internal/handlers"
	"github.com/nkiryanov/verifylink/internal/logger"
	"github.com/nkiryanov/verifylink/internal/repository"
	"github.com/nkiryanov/verifylink/internal/repository/memory"
	"github.com/nkiryanov/verifylink/internal/repository/postgres"
	"github.com/nkiryanov/verifylink/internal/service/shortener"
	"github.com/nkiryanov/verifylink/internal/service/sweeper"
	"github.com/nkiryanov/verifylink/internal/service/user"
	"github.com/nkiryanov/verifylink/internal/service/verification"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	sweeper *sweeper.Sweeper
	logger  logger.Logger
	closers []func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	app := &ServerApp{ListenAddr: c.ListenAddr}

	// Initialize logger
	l, err := logger.New(c.Environment, c.LogLevel, logger.WithSentry(c.SentryDSN))
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}
	app.logger = l
	if c.SentryDSN != "" {
		app.closers = append(app.closers, func() { sentry.Flush(2 * time.Second) })
	}

	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("unknown timezone %q. Err: %w", c.Timezone, err)
	}

	// Initialize storage: postgres if configured, in-memory otherwise
	var storage repository.Storage
	if c.DatabaseDSN != "" {
		pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
		}
		app.closers = append(app.closers, pool.Close)
		storage = postgres.NewStorage(pool)
	} else {
		l.Warn("Database not configured, tokens are kept in memory")
		storage = memory.NewStorage()
	}

	// Initialize services
	linkShortener := shortener.New(shortener.Config{Host: c.ShortlinkURL, APIKey: c.ShortlinkAPI}, l)
	verificationService, err := verification.NewService(verification.Config{
		TokenTTL:     c.TokenTTL,
		Location:     location,
		StrictRedeem: c.StrictRedeem,
	}, storage, linkShortener, l)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while creating verification service. Err: %w", err)
	}
	userService := user.NewService(storage.User())

	if c.TokenTTL > 0 {
		app.sweeper, err = sweeper.New(sweeper.Config{TTL: c.TokenTTL}, storage.Token(), l)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("error while creating sweeper. Err: %w", err)
		}
	}

	app.Handler = handlers.NewRouter(userService, verificationService, c.BaseLink, l)
	return app, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	var sweeperStopped <-chan struct{}
	if s.sweeper != nil {
		sweeperStopped = s.sweeper.Run(srvCtx)
	}

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	if s.sweeper != nil {
		<-sweeperStopped
	}

	return err
}

// Close releases app resources in reverse order
func (s *ServerApp) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
