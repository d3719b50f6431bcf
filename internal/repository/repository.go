package repository

import (
	"context"
	"time"

	"github.com/nkiryanov/verifylink/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user with known id
	// If user with the id exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, userID int64, username string) (models.User, error)

	// Get user by it's id
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID int64) (models.User, error)
}

// Verification token repository interface
// Tokens are scoped by (user, value): the same value may exist for different users
type TokenRepo interface {
	// Save token in repository
	// If the user has a token with the same value it is silently overwritten
	Save(ctx context.Context, token models.Token) error

	// Return the token even if it is used already
	// If not found must return apperrors.ErrTokenNotFound
	Get(ctx context.Context, userID int64, value string) (models.Token, error)

	// Mark token as used
	// If the token is already used, must not overwrite the existing 'usedAt' and return apperrors.ErrTokenIsUsed
	// If not found must return apperrors.ErrTokenNotFound
	MarkUsed(ctx context.Context, userID int64, value string) (usedAt time.Time, err error)

	// Delete tokens created before the time, return number of deleted tokens
	DeleteCreatedBefore(ctx context.Context, before time.Time) (int64, error)
}

// Verification date repository interface
type VerificationRepo interface {
	// Set last date user was verified on, overwrites previous one
	SetVerified(ctx context.Context, userID int64, date models.Date) error

	// Get last date user was verified on
	// If user never verified must return apperrors.ErrVerificationNotFound
	GetVerified(ctx context.Context, userID int64) (models.Date, error)
}

type Storage interface {
	User() UserRepo
	Token() TokenRepo
	Verification() VerificationRepo
}
