package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	Deposit  TransactionType = "deposit"
	Withdraw TransactionType = "withdraw"
	Transfer TransactionType = "transfer"
)

// Transaction is a single immutable ledger entry on a user's account.
// Entries are append-only; insertion order is chronological order.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	UserID        string          `json:"-"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"` // Always positive; sign is implied by Type and Details
	Details       *string         `json:"details"`
	CreatedAt     time.Time       `json:"date"`
}
