package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/verifylink/internal/apperrors"
	"github.com/nkiryanov/verifylink/internal/logger"
	"github.com/nkiryanov/verifylink/internal/models"
	"github.com/nkiryanov/verifylink/internal/repository"
	"github.com/nkiryanov/verifylink/internal/service/user"
)

type userResolver interface {
	// Has to return apperrors.ErrUserNotFound for unknown and apperrors.ErrUserIDInvalid for malformed ids
	GetUser(ctx context.Context, userID int64) (models.User, error)
}

type linkShortener interface {
	// Return short link or the link itself, never fails
	Shorten(ctx context.Context, link string) string
}

// Verification service with sensible defaults
type Config struct {
	// Length of generated tokens
	// If not set than default is used
	TokenLength int

	// Token generator, random alphanumeric tokens of TokenLength if not set
	Generator TokenGenerator

	// Tokens older than TTL are treated as not existed
	// Zero means tokens never expire
	TokenTTL time.Duration

	// Location to get "today" in
	// If not set time.Local is used
	Location *time.Location

	// Clock, time.Now if not set
	Now func() time.Time

	// Record verification only if token was unused
	// By default user is recorded verified on any redeem attempt
	StrictRedeem bool
}

type Service struct {
	generate     TokenGenerator
	ttl          time.Duration
	location     *time.Location
	now          func() time.Time
	strictRedeem bool

	users         userResolver
	tokens        repository.TokenRepo
	verifications repository.VerificationRepo
	shortener     linkShortener
	logger        logger.Logger
}

func NewService(cfg Config, storage repository.Storage, shortener linkShortener, l logger.Logger) (*Service, error) {
	if storage == nil || shortener == nil {
		return nil, errors.New("storage and shortener must not be nil")
	}
	if cfg.TokenLength < 0 || cfg.TokenTTL < 0 {
		return nil, errors.New("token length and ttl must not be negative")
	}

	if cfg.TokenLength == 0 {
		cfg.TokenLength = defaultTokenLength
	}
	if cfg.Generator == nil {
		cfg.Generator = RandomTokenGenerator(cfg.TokenLength)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Service{
		generate:      cfg.Generator,
		ttl:           cfg.TokenTTL,
		location:      cfg.Location,
		now:           cfg.Now,
		strictRedeem:  cfg.StrictRedeem,
		users:         user.NewService(storage.User()),
		tokens:        storage.Token(),
		verifications: storage.Verification(),
		shortener:     shortener,
		logger:        l.WithGroup("verification"),
	}, nil
}

// IssueLink creates new unused token for the user and returns (probably shortened) verification link
// The token is stored even if shortening failed
func (s *Service) IssueLink(ctx context.Context, userID int64, baseLink string) (string, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return "", err
	}

	token, err := s.issue(ctx, user.ID)
	if err != nil {
		return "", err
	}

	// No locks are held here: slow shortener never blocks other users
	link := s.shortener.Shorten(ctx, BuildLink(baseLink, user.ID, token.Value))

	s.logger.Info("Verification link issued", "user_id", user.ID, "token_id", token.ID)
	return link, nil
}

// CheckToken returns true if the token was issued for the user and not used yet
// Unknown and used tokens are indistinguishable here; use TokenState to tell them apart
func (s *Service) CheckToken(ctx context.Context, userID int64, value string) (bool, error) {
	state, err := s.TokenState(ctx, userID, value)
	if err != nil {
		return false, err
	}
	return state == models.TokenStateUnused, nil
}

func (s *Service) TokenState(ctx context.Context, userID int64, value string) (models.TokenState, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return models.TokenStateNotFound, err
	}

	token, err := s.tokens.Get(ctx, user.ID, value)
	switch {
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return models.TokenStateNotFound, nil
	case err != nil:
		return models.TokenStateNotFound, fmt.Errorf("error while getting token. Err: %w", err)
	case s.isExpired(token):
		return models.TokenStateNotFound, nil
	case token.IsUsed():
		return models.TokenStateUsed, nil
	default:
		return models.TokenStateUnused, nil
	}
}

// Redeem marks token used and records user verified today
// Unless StrictRedeem set, unknown or used token does not prevent verification recording
func (s *Service) Redeem(ctx context.Context, userID int64, value string) error {
	return s.redeem(ctx, userID, value, s.strictRedeem)
}

// Verify redeems token and records user verified only if this call marked the token used
// Returns apperrors.ErrTokenNotFound or apperrors.ErrTokenIsUsed otherwise, whatever StrictRedeem is
func (s *Service) Verify(ctx context.Context, userID int64, value string) error {
	return s.redeem(ctx, userID, value, true)
}

func (s *Service) redeem(ctx context.Context, userID int64, value string, strict bool) error {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return err
	}

	err = s.markUsed(ctx, user.ID, value)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrTokenNotFound), errors.Is(err, apperrors.ErrTokenIsUsed):
		if strict {
			return err
		}
		s.logger.Debug("Redeem with not usable token", "user_id", user.ID, "error", err)
	default:
		return err
	}

	today := s.today()
	err = s.verifications.SetVerified(ctx, user.ID, today)
	if err != nil {
		return fmt.Errorf("error while recording verification. Err: %w", err)
	}

	s.logger.Info("User verified", "user_id", user.ID, "date", today)
	return nil
}

// HasVerifiedToday reports whether the user redeemed a token this calendar day
func (s *Service) HasVerifiedToday(ctx context.Context, userID int64) (bool, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return false, err
	}

	date, err := s.verifications.GetVerified(ctx, user.ID)
	switch {
	case errors.Is(err, apperrors.ErrVerificationNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("error while getting verification. Err: %w", err)
	default:
		return date == s.today(), nil
	}
}

func (s *Service) issue(ctx context.Context, userID int64) (models.Token, error) {
	value, err := s.generate()
	if err != nil {
		return models.Token{}, err
	}

	token := models.Token{
		ID:        uuid.New(),
		UserID:    userID,
		Value:     value,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
		UsedAt:    nil,
	}

	err = s.tokens.Save(ctx, token)
	if err != nil {
		return models.Token{}, fmt.Errorf("error while saving token. Err: %w", err)
	}

	return token, nil
}

func (s *Service) markUsed(ctx context.Context, userID int64, value string) error {
	if s.ttl > 0 {
		token, err := s.tokens.Get(ctx, userID, value)
		if err != nil {
			return fmt.Errorf("error while getting token. Err: %w", err)
		}
		if s.isExpired(token) {
			return fmt.Errorf("token expired. Err: %w", apperrors.ErrTokenNotFound)
		}
	}

	_, err := s.tokens.MarkUsed(ctx, userID, value)
	if err != nil {
		return fmt.Errorf("error while marking token used. Err: %w", err)
	}
	return nil
}

func (s *Service) resolveUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return user, fmt.Errorf("error while resolving user. Err: %w", err)
	}
	return user, nil
}

func (s *Service) isExpired(token models.Token) bool {
	return s.ttl > 0 && !token.CreatedAt.Add(s.ttl).After(s.now())
}

func (s *Service) today() models.Date {
	return models.DateOf(s.now().In(s.location))
}
