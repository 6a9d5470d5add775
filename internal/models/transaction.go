package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database row shape for the transactions table.
// Rows are insert-only; there is no update or delete path.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	UserID        string          `db:"user_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	Details       sql.NullString  `db:"details"`
	CreatedAt     time.Time       `db:"created_at"`
}
