package model

import "time"

// OneTimeCode stores only the SHA-256 hex digest of an issued code, never the
// plaintext. A code is usable at most once, only before ExpiresAt, and only
// while Attempts stays under the configured limit.
type OneTimeCode struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	CodeHash  string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	Consumed  bool      `json:"consumed"`
	CreatedAt time.Time `json:"created_at"`
}
