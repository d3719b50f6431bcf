// Package sweeper evicts expired verification tokens in background.
package sweeper

import (
	"context"
	"errors"
	"time"

	"github.com/nkiryanov/verifylink/internal/logger"
)

const defaultInterval = 10 * time.Minute

type tokenRepo interface {
	DeleteCreatedBefore(ctx context.Context, before time.Time) (int64, error)
}

type Config struct {
	// Tokens older than TTL are deleted, required
	TTL time.Duration

	// Interval between sweeps
	// If not set than default is used
	Interval time.Duration

	// Clock, time.Now if not set
	Now func() time.Time
}

type Sweeper struct {
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	tokens tokenRepo
	logger logger.Logger
}

func New(cfg Config, tokens tokenRepo, l logger.Logger) (*Sweeper, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	if cfg.Interval == 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Sweeper{
		ttl:      cfg.TTL,
		interval: cfg.Interval,
		now:      cfg.Now,
		tokens:   tokens,
		logger:   l.WithGroup("sweeper"),
	}, nil
}

// Run sweeps tokens on every tick until context is done
// Returned channel is closed when sweeper stopped
func (s *Sweeper) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})
	s.logger.Debug("Starting sweeper", "interval", s.interval, "ttl", s.ttl)

	go func() {
		defer close(idleStopped)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Debug("Sweeper stopped by context")
				return

			case <-ticker.C:
				_, _ = s.Sweep(ctx)
			}
		}
	}()

	return idleStopped
}

// Sweep deletes expired tokens once
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	deleted, err := s.tokens.DeleteCreatedBefore(ctx, s.now().Add(-s.ttl))
	if err != nil {
		s.logger.Error("Failed to delete expired tokens", "error", err)
		return 0, err
	}

	if deleted > 0 {
		s.logger.Info("Expired tokens deleted", "count", deleted)
	}
	return deleted, nil
}
