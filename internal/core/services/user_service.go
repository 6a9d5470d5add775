package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dlezama/banca_simple_app/internal/apperrors"
	"github.com/dlezama/banca_simple_app/internal/core/domain"
	portsrepo "github.com/dlezama/banca_simple_app/internal/core/ports/repositories"
	portssvc "github.com/dlezama/banca_simple_app/internal/core/ports/services"
	"github.com/dlezama/banca_simple_app/internal/dto"
	"github.com/dlezama/banca_simple_app/internal/middleware"
	"github.com/dlezama/banca_simple_app/internal/utils"
)

// UserService implements registration, authentication and user administration.
type UserService struct {
	userRepo portsrepo.UserRepository
}

func NewUserService(userRepo portsrepo.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicate
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Balance:      decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique constraint on email closes the race between the existence
	// check above and the insert; the repository maps it to ErrDuplicate.
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	// Google-bridged accounts have no password and cannot log in this way.
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (s *UserService) FindOrCreateGoogleUser(ctx context.Context, email, name string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if email == "" {
		return nil, apperrors.ErrValidation
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	if name == "" {
		name = "Google User"
	}
	now := time.Now()
	newUser := domain.User{
		UserID:    uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      domain.RoleUser,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create google-bridged user: %w", err)
	}

	logger.Info("Google-bridged user created", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *UserService) ChangeRole(ctx context.Context, userID string, role string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	newRole := domain.Role(role)
	if !domain.AssignableRoles[newRole] {
		return nil, apperrors.ErrInvalidRole
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateUserRole(ctx, userID, newRole, now); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	user.Role = newRole
	user.UpdatedAt = now
	logger.Info("Role updated", slog.String("user_id", userID), slog.String("role", role))
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}
