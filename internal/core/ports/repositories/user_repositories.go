package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlezama/banca_simple_app/internal/core/domain"
)

// UserRepository persists users and their ledger entries.
//
// ApplyLedgerEntry and ApplyTransfer are the only balance-mutating paths. Both
// re-apply the balance delta against the stored row under a row lock, so
// concurrent operations on the same account serialize at the store instead of
// racing on a load-mutate-save cycle.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUserRole(ctx context.Context, userID string, role domain.Role, updatedAt time.Time) error

	// ApplyLedgerEntry atomically adjusts the owner's balance by the entry's
	// signed effect and appends the entry. Returns the updated balance.
	// Fails with apperrors.ErrInsufficientFunds when a withdrawal exceeds the
	// stored balance, and apperrors.ErrNotFound when the owner is missing.
	ApplyLedgerEntry(ctx context.Context, entry domain.Transaction) (decimal.Decimal, error)

	// ApplyTransfer atomically debits the sender, credits the recipient and
	// appends both entries. Either all four writes happen or none do.
	// Returns the updated sender and recipient balances.
	ApplyTransfer(ctx context.Context, outEntry domain.Transaction, inEntry domain.Transaction) (decimal.Decimal, decimal.Decimal, error)

	ListTransactionsByUserID(ctx context.Context, userID string) ([]domain.Transaction, error)

	// ListAllTransactions returns every user with only UserID and Transactions
	// populated, for the admin listing.
	ListAllTransactions(ctx context.Context) ([]domain.User, error)
}
