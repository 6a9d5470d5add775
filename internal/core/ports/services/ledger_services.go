package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dlezama/banca_simple_app/internal/core/domain"
	"github.com/dlezama/banca_simple_app/internal/dto"
)

// TransferResult carries both updated balances after a transfer.
type TransferResult struct {
	SenderBalance    decimal.Decimal
	RecipientBalance decimal.Decimal
}

// LedgerSvcFacade exposes the balance-affecting operations and history reads.
type LedgerSvcFacade interface {
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)

	// Transfer moves amount from the user to the account registered under
	// recipientEmail. Fails with apperrors.ErrNotFound when the recipient is
	// missing and apperrors.ErrInsufficientFunds on overdraft.
	Transfer(ctx context.Context, userID string, recipientEmail string, amount decimal.Decimal) (*TransferResult, error)

	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	ListAllTransactions(ctx context.Context) ([]dto.UserTransactions, error)
}
