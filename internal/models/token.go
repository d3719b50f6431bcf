package models

import (
	"time"

	"github.com/google/uuid"
)

type Token struct {
	ID        uuid.UUID
	UserID    int64
	Value     string
	CreatedAt time.Time
	UsedAt    *time.Time // nil if token not used
}

func (t Token) IsUsed() bool {
	return t.UsedAt != nil
}

// Observable state of a (user, token) pair
type TokenState string

const (
	TokenStateNotFound TokenState = "not_found"
	TokenStateUsed     TokenState = "used"
	TokenStateUnused   TokenState = "unused"
)
