// Package memory keeps users, tokens and verifications in process memory.
// Everything is lost on restart; use it when no database is configured.
package memory

import (
	"github.com/nkiryanov/verifylink/internal/repository"
)

type Storage struct {
	users         *UserRepo
	tokens        *TokenRepo
	verifications *VerificationRepo
}

func NewStorage() *Storage {
	return &Storage{
		users:         NewUserRepo(),
		tokens:        NewTokenRepo(),
		verifications: NewVerificationRepo(),
	}
}

func (s *Storage) User() repository.UserRepo {
	return s.users
}

func (s *Storage) Token() repository.TokenRepo {
	return s.tokens
}

func (s *Storage) Verification() repository.VerificationRepo {
	return s.verifications
}
