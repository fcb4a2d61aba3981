package model

import "time"

// Account is the single ledger account attached to a user. The balance is
// only ever mutated inside a database transaction holding the row lock.
type Account struct {
	ID            int       `json:"id"`
	UserID        int       `json:"user_id"`
	AccountNumber int64     `json:"account_number"`
	Balance       float64   `json:"balance"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedAt     time.Time `json:"created_at"`
}
