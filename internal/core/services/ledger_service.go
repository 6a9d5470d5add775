package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/dlezama/banca_simple_app/internal/apperrors"
	"github.com/dlezama/banca_simple_app/internal/core/domain"
	portsrepo "github.com/dlezama/banca_simple_app/internal/core/ports/repositories"
	portssvc "github.com/dlezama/banca_simple_app/internal/core/ports/services"
	"github.com/dlezama/banca_simple_app/internal/dto"
	"github.com/dlezama/banca_simple_app/internal/middleware"
)

// LedgerService orchestrates the balance-affecting operations.
//
// Validation runs twice on purpose: the entity methods gate on the loaded
// snapshot, and the repository re-applies the delta under a row lock so
// concurrent operations on the same account cannot lose updates.
type LedgerService struct {
	userRepo portsrepo.UserRepository
}

func NewLedgerService(userRepo portsrepo.UserRepository) *LedgerService {
	return &LedgerService{userRepo: userRepo}
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

func (s *LedgerService) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.record(ctx, userID, domain.Deposit, amount)
}

func (s *LedgerService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.record(ctx, userID, domain.Withdraw, amount)
}

func (s *LedgerService) record(ctx context.Context, userID string, txType domain.TransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return decimal.Zero, apperrors.ErrInvalidAmount
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if _, err := user.RecordTransaction(txType, amount, nil); err != nil {
		return decimal.Zero, err
	}
	entry := user.Transactions[len(user.Transactions)-1]

	newBalance, err := s.userRepo.ApplyLedgerEntry(ctx, entry)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			return decimal.Zero, err
		}
		logger.Error("Failed to persist ledger entry", slog.String("user_id", userID), slog.String("error", err.Error()))
		return decimal.Zero, fmt.Errorf("failed to persist %s: %w", txType, err)
	}

	logger.Info("Ledger entry recorded",
		slog.String("user_id", userID),
		slog.String("type", string(txType)),
		slog.String("amount", amount.String()),
	)
	return newBalance, nil
}

func (s *LedgerService) Transfer(ctx context.Context, userID string, recipientEmail string, amount decimal.Decimal) (*portssvc.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	sender, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.userRepo.FindUserByEmail(ctx, recipientEmail)
	if err != nil {
		return nil, err
	}

	if err := sender.TransferTo(recipient, amount); err != nil {
		return nil, err
	}
	outEntry := sender.Transactions[len(sender.Transactions)-1]
	inEntry := recipient.Transactions[len(recipient.Transactions)-1]

	senderBalance, recipientBalance, err := s.userRepo.ApplyTransfer(ctx, outEntry, inEntry)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			return nil, err
		}
		logger.Error("Failed to persist transfer", slog.String("sender_id", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to persist transfer: %w", err)
	}

	logger.Info("Transfer completed",
		slog.String("sender_id", sender.UserID),
		slog.String("recipient_id", recipient.UserID),
		slog.String("amount", amount.String()),
	)
	return &portssvc.TransferResult{
		SenderBalance:    senderBalance,
		RecipientBalance: recipientBalance,
	}, nil
}

func (s *LedgerService) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return user.Balance, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	transactions, err := s.userRepo.ListTransactionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if transactions == nil {
		return []domain.Transaction{}, nil
	}
	return transactions, nil
}

func (s *LedgerService) ListAllTransactions(ctx context.Context) ([]dto.UserTransactions, error) {
	users, err := s.userRepo.ListAllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all transactions: %w", err)
	}
	out := make([]dto.UserTransactions, len(users))
	for i, u := range users {
		transactions := u.Transactions
		if transactions == nil {
			transactions = []domain.Transaction{}
		}
		out[i] = dto.UserTransactions{UserID: u.UserID, Transactions: transactions}
	}
	return out, nil
}
