package dto

import (
	"github.com/shopspring/decimal"

	"github.com/dlezama/banca_simple_app/internal/core/domain"
)

// AmountRequest is the body for deposit and withdraw.
// Positivity is validated in the service so the error message stays uniform.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest is the body for POST /api/account/transfer.
type TransferRequest struct {
	RecipientEmail string          `json:"recipientEmail" binding:"required,email"`
	Amount         decimal.Decimal `json:"amount"`
}

// BalanceResponse is returned by deposit and withdraw.
type BalanceResponse struct {
	Message string          `json:"message"`
	Balance decimal.Decimal `json:"balance"`
}

// TransferResponse is returned by transfer with both updated balances.
type TransferResponse struct {
	Message          string          `json:"message"`
	SenderBalance    decimal.Decimal `json:"senderBalance"`
	RecipientBalance decimal.Decimal `json:"recipientBalance"`
}

// TransactionsResponse wraps a single user's transaction history.
type TransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// UserTransactions is one element of the admin all-transactions listing.
type UserTransactions struct {
	UserID       string               `json:"id"`
	Transactions []domain.Transaction `json:"transactions"`
}
