package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dlezama/banca_simple_app/internal/apperrors"
)

// Role determines which routes a user may access.
type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// AssignableRoles is the set accepted by the change-role operation.
// Note: employee exists in the model but is deliberately not assignable here,
// matching the reference behaviour.
var AssignableRoles = map[Role]bool{
	RoleUser:  true,
	RoleAdmin: true,
}

// User is an account holder: identity plus balance and transaction history.
// Balance is stored denormalized and updated in lockstep with every appended
// transaction, so it always equals the running sum of signed entry effects.
type User struct {
	UserID       string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"` // Empty for Google-bridged identities
	Role         Role            `json:"role"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions []Transaction   `json:"transactions"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// RecordTransaction applies a deposit or withdrawal to the account and appends
// the corresponding ledger entry. It returns the updated balance.
func (u *User) RecordTransaction(txType TransactionType, amount decimal.Decimal, details *string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return u.Balance, apperrors.ErrInvalidAmount
	}
	if txType == Withdraw && u.Balance.LessThan(amount) {
		return u.Balance, apperrors.ErrInsufficientFunds
	}

	switch txType {
	case Deposit:
		u.Balance = u.Balance.Add(amount)
	case Withdraw:
		u.Balance = u.Balance.Sub(amount)
	}

	u.Transactions = append(u.Transactions, Transaction{
		TransactionID: uuid.NewString(),
		UserID:        u.UserID,
		Type:          txType,
		Amount:        amount,
		Details:       details,
		CreatedAt:     time.Now(),
	})

	return u.Balance, nil
}

// TransferTo moves amount from u to recipient, appending a transfer-out entry
// on the sender and a transfer-in entry on the recipient. Both entries carry
// the same timestamp and cross-reference the counterparty's email.
// Callers must persist both users as a single atomic unit.
func (u *User) TransferTo(recipient *User, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}
	if u.Balance.LessThan(amount) {
		return apperrors.ErrInsufficientFunds
	}

	now := time.Now()
	u.Balance = u.Balance.Sub(amount)
	recipient.Balance = recipient.Balance.Add(amount)

	outDetails := fmt.Sprintf("To: %s", recipient.Email)
	u.Transactions = append(u.Transactions, Transaction{
		TransactionID: uuid.NewString(),
		UserID:        u.UserID,
		Type:          Transfer,
		Amount:        amount,
		Details:       &outDetails,
		CreatedAt:     now,
	})

	inDetails := fmt.Sprintf("From: %s", u.Email)
	recipient.Transactions = append(recipient.Transactions, Transaction{
		TransactionID: uuid.NewString(),
		UserID:        recipient.UserID,
		Type:          Transfer,
		Amount:        amount,
		Details:       &inDetails,
		CreatedAt:     now,
	})

	return nil
}
