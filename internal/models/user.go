package models

import (
	"time"
)

// User is a confirmed identity the verification tokens are issued for
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}
