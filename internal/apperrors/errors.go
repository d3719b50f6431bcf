package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserIDInvalid     = errors.New("user id must be positive")

	ErrTokenNotFound = errors.New("verification token not found")
	ErrTokenIsUsed   = errors.New("verification token is used")

	ErrVerificationNotFound = errors.New("user has never been verified")

	ErrPayloadInvalid = errors.New("verification payload is invalid")
)
