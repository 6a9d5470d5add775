package services

import (
	"context"

	"github.com/dlezama/banca_simple_app/internal/core/domain"
	"github.com/dlezama/banca_simple_app/internal/dto"
)

// UserSvcFacade exposes registration, authentication and user administration.
type UserSvcFacade interface {
	// Register creates a new user with a hashed password and zero balance.
	// Fails with apperrors.ErrDuplicate when the email is already registered.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Authenticate resolves the email and checks the password.
	// Fails with apperrors.ErrNotFound for an unknown email and
	// apperrors.ErrUnauthorized for a wrong password.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// FindOrCreateGoogleUser bridges a trusted Google email claim to a local
	// account, creating one with zero balance and no password if absent.
	FindOrCreateGoogleUser(ctx context.Context, email, name string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ChangeRole updates a user's role. Only user and admin are assignable;
	// anything else fails with apperrors.ErrInvalidRole.
	ChangeRole(ctx context.Context, userID string, role string) (*domain.User, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
}
