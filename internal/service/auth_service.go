package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-tracker/internal/auth"
	"github.com/spec-kit/course-tracker/internal/domain"
	"github.com/spec-kit/course-tracker/internal/repository"
	apperrors "github.com/spec-kit/course-tracker/pkg/util"
)

// AuthService coordinates registration and login against the credential store.
// It never issues cookies itself; handlers pass the returned principal to the SessionManager.
type AuthService struct {
	users      repository.UserRepository
	bcryptCost int
	// dummyHash keeps login timing similar whether or not the email exists.
	dummyHash string
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, bcryptCost int) (*AuthService, error) {
	dummy, err := auth.HashPassword("not-a-real-password", bcryptCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{users: users, bcryptCost: bcryptCost, dummyHash: dummy}, nil
}

// RegisterInput carries a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Register creates a new account. The role defaults to employee.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("email, password, and name are required", nil)
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, apperrors.NewValidationError("password too short", map[string]any{"password": "min=6"})
	}
	role := in.Role
	if role == 0 {
		role = domain.RoleEmployee
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("user already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("user already exists", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Login authenticates by email and password.
// Unknown emails and wrong passwords produce the same UNAUTHORIZED error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInternalError(err)
		}
		(&domain.User{PasswordHash: s.dummyHash}).VerifyPassword(password)
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.VerifyPassword(password) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return user, nil
}

// CurrentUser loads the stored record behind a principal.
// A principal whose user has since been removed is treated as unauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, p auth.Principal) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("authentication required")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// PrincipalFor builds the session claims for a stored user.
func PrincipalFor(user *domain.User) auth.Principal {
	return auth.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}
}
