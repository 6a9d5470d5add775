package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dlezama/banca_simple_app/internal/apperrors"
	"github.com/dlezama/banca_simple_app/internal/core/domain"
	portsrepo "github.com/dlezama/banca_simple_app/internal/core/ports/repositories"
	"github.com/dlezama/banca_simple_app/internal/models"
)

type PgxUserRepository struct {
	BaseRepository
}

func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

// Helper to convert domain.User to models.User
func toModelUser(d domain.User) models.User {
	passwordHash := sql.NullString{String: d.PasswordHash, Valid: d.PasswordHash != ""}
	return models.User{
		UserID:       d.UserID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: passwordHash,
		Role:         string(d.Role),
		Balance:      d.Balance,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash.String,
		Role:         domain.Role(m.Role),
		Balance:      m.Balance,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	var details *string
	if m.Details.Valid {
		details = &m.Details.String
	}
	return domain.Transaction{
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		Details:       details,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	modelUser := toModelUser(user)
	query := `
        INSERT INTO users (user_id, name, email, password_hash, role, balance, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id) DO UPDATE SET
            name = EXCLUDED.name,
            updated_at = EXCLUDED.updated_at;
    `
	_, err := r.Pool.Exec(ctx, query,
		modelUser.UserID,
		modelUser.Name,
		modelUser.Email,
		modelUser.PasswordHash,
		modelUser.Role,
		modelUser.Balance,
		modelUser.CreatedAt,
		modelUser.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

const userColumns = `user_id, name, email, password_hash, role, balance, created_at, updated_at`

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var modelUser models.User
	err := row.Scan(
		&modelUser.UserID,
		&modelUser.Name,
		&modelUser.Email,
		&modelUser.PasswordHash,
		&modelUser.Role,
		&modelUser.Balance,
		&modelUser.CreatedAt,
		&modelUser.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	domainUser := toDomainUser(modelUser)
	return &domainUser, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	user, err := scanUserRow(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	user, err := scanUserRow(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.PasswordHash, &m.Role, &m.Balance, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, toDomainUser(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return users, nil
}

func (r *PgxUserRepository) UpdateUserRole(ctx context.Context, userID string, role domain.Role, updatedAt time.Time) error {
	query := `UPDATE users SET role = $2, updated_at = $3 WHERE user_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, userID, string(role), updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update role for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const insertTransactionQuery = `
	INSERT INTO transactions (transaction_id, user_id, type, amount, details, created_at)
	VALUES ($1, $2, $3, $4, $5, $6);
`

// ApplyLedgerEntry adjusts the owner's balance under a row lock and appends the
// entry in the same database transaction, so a concurrent operation on the
// same account cannot lose the update.
func (r *PgxUserRepository) ApplyLedgerEntry(ctx context.Context, entry domain.Transaction) (decimal.Decimal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE user_id = $1 FOR UPDATE;`, entry.UserID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, apperrors.NewAppError(500, "failed to lock user row", err)
	}

	var newBalance decimal.Decimal
	switch entry.Type {
	case domain.Deposit:
		newBalance = balance.Add(entry.Amount)
	case domain.Withdraw:
		if balance.LessThan(entry.Amount) {
			return decimal.Zero, apperrors.ErrInsufficientFunds
		}
		newBalance = balance.Sub(entry.Amount)
	default:
		return decimal.Zero, fmt.Errorf("unsupported ledger entry type %q", entry.Type)
	}

	_, err = tx.Exec(ctx, `UPDATE users SET balance = $2, updated_at = $3 WHERE user_id = $1;`,
		entry.UserID, newBalance, entry.CreatedAt)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to update balance", err)
	}

	details := sql.NullString{}
	if entry.Details != nil {
		details = sql.NullString{String: *entry.Details, Valid: true}
	}
	_, err = tx.Exec(ctx, insertTransactionQuery,
		entry.TransactionID, entry.UserID, string(entry.Type), entry.Amount, details, entry.CreatedAt)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to insert transaction "+entry.TransactionID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// ApplyTransfer debits the sender, credits the recipient and appends both
// entries in a single database transaction. Rows are locked in user_id order
// so two opposing transfers cannot deadlock.
func (r *PgxUserRepository) ApplyTransfer(ctx context.Context, outEntry domain.Transaction, inEntry domain.Transaction) (decimal.Decimal, decimal.Decimal, error) {
	amount := outEntry.Amount
	senderID := outEntry.UserID
	recipientID := inEntry.UserID

	tx, err := r.Begin(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT user_id, balance FROM users
		WHERE user_id = ANY($1)
		ORDER BY user_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lockQuery, []string{senderID, recipientID})
	if err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to lock user rows", err)
	}
	balances := make(map[string]decimal.Decimal, 2)
	for rows.Next() {
		var id string
		var balance decimal.Decimal
		if err := rows.Scan(&id, &balance); err != nil {
			rows.Close()
			return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to scan locked row", err)
		}
		balances[id] = balance
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to iterate locked rows", err)
	}

	senderBalance, ok := balances[senderID]
	if !ok {
		return decimal.Zero, decimal.Zero, apperrors.ErrNotFound
	}
	recipientBalance, ok := balances[recipientID]
	if !ok {
		return decimal.Zero, decimal.Zero, apperrors.ErrNotFound
	}

	if senderBalance.LessThan(amount) {
		return decimal.Zero, decimal.Zero, apperrors.ErrInsufficientFunds
	}

	newSenderBalance := senderBalance.Sub(amount)
	newRecipientBalance := recipientBalance.Add(amount)
	if senderID == recipientID {
		// Self-transfer nets to zero but still records both entries.
		newSenderBalance = senderBalance
		newRecipientBalance = senderBalance
	}

	updateQuery := `UPDATE users SET balance = $2, updated_at = $3 WHERE user_id = $1;`
	if _, err := tx.Exec(ctx, updateQuery, senderID, newSenderBalance, outEntry.CreatedAt); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to debit sender", err)
	}
	if senderID != recipientID {
		if _, err := tx.Exec(ctx, updateQuery, recipientID, newRecipientBalance, inEntry.CreatedAt); err != nil {
			return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to credit recipient", err)
		}
	}

	for _, entry := range []domain.Transaction{outEntry, inEntry} {
		details := sql.NullString{}
		if entry.Details != nil {
			details = sql.NullString{String: *entry.Details, Valid: true}
		}
		_, err := tx.Exec(ctx, insertTransactionQuery,
			entry.TransactionID, entry.UserID, string(entry.Type), entry.Amount, details, entry.CreatedAt)
		if err != nil {
			return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to insert transaction "+entry.TransactionID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return newSenderBalance, newRecipientBalance, nil
}

func (r *PgxUserRepository) ListTransactionsByUserID(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, user_id, type, amount, details, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(&m.TransactionID, &m.UserID, &m.Type, &m.Amount, &m.Details, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, toDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return transactions, nil
}

func (r *PgxUserRepository) ListAllTransactions(ctx context.Context) ([]domain.User, error) {
	userQuery := `SELECT user_id FROM users ORDER BY created_at;`
	userRows, err := r.Pool.Query(ctx, userQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer userRows.Close()

	var users []domain.User
	index := make(map[string]int)
	for userRows.Next() {
		var id string
		if err := userRows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		index[id] = len(users)
		users = append(users, domain.User{UserID: id})
	}
	if err := userRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	txQuery := `
		SELECT transaction_id, user_id, type, amount, details, created_at
		FROM transactions
		ORDER BY created_at, transaction_id;
	`
	txRows, err := r.Pool.Query(ctx, txQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer txRows.Close()

	for txRows.Next() {
		var m models.Transaction
		if err := txRows.Scan(&m.TransactionID, &m.UserID, &m.Type, &m.Amount, &m.Details, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		if i, ok := index[m.UserID]; ok {
			users[i].Transactions = append(users[i].Transactions, toDomainTransaction(m))
		}
	}
	if err := txRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return users, nil
}
