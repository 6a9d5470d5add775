package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// User is the database row shape for the users table.
// PasswordHash is NULL for Google-bridged identities that never set a password.
type User struct {
	UserID       string          `db:"user_id"`
	Name         string          `db:"name"`
	Email        string          `db:"email"`
	PasswordHash sql.NullString  `db:"password_hash"`
	Role         string          `db:"role"`
	Balance      decimal.Decimal `db:"balance"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
