package model

import "time"

type TransactionType string

const (
	TypeIncoming TransactionType = "INCOMING"
	TypeOutgoing TransactionType = "OUTGOING"
)

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "PENDING"
	StatusSuccessful TransactionStatus = "SUCCESSFUL"
	StatusRejected   TransactionStatus = "REJECTED"
)

// Transaction is a ledger entry awaiting or past admin review. Status moves
// one way from PENDING; the amount never changes after creation.
type Transaction struct {
	ID               int               `json:"id"`
	AccountID        int               `json:"account_id"`
	Reference        string            `json:"reference"`
	Type             TransactionType   `json:"type"`
	Amount           float64           `json:"amount"`
	RecipientName    string            `json:"recipient_name"`
	RecipientBank    string            `json:"recipient_bank"`
	RecipientAccount string            `json:"recipient_account"`
	RecipientCountry string            `json:"recipient_country"`
	RoutingCode      string            `json:"routing_code,omitempty"`
	Description      string            `json:"description,omitempty"`
	Status           TransactionStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Resolved reports whether the transaction has reached a terminal status.
func (t *Transaction) Resolved() bool {
	return t.Status != StatusPending
}

// TransactionStats is the dashboard aggregate, recomputed from the full
// transaction set on every call.
type TransactionStats struct {
	IncomingTotal    float64 `json:"incoming_total"`
	OutgoingTotal    float64 `json:"outgoing_total"`
	PendingCount     int     `json:"pending_count"`
	TransactionCount int     `json:"transaction_count"`
}
