package services

import (
	"context"
	"fmt"

	"lpg-backend/internal/auth"
	"lpg-backend/internal/models"
	"lpg-backend/internal/repositories"

	"github.com/pquerna/otp/totp"
)

var validRoles = map[string]bool{
	"admin":      true,
	"manager":    true,
	"driver":     true,
	"accountant": true,
}

// UserService handles staff accounts and login
type UserService struct {
	users *repositories.UserRepository
	jwt   *auth.JWTManager
}

func NewUserService(users *repositories.UserRepository, jwt *auth.JWTManager) *UserService {
	return &UserService{users: users, jwt: jwt}
}

// Signup creates a staff account under a tenant
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if !validRoles[req.Role] {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		TenantID:     req.TenantID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials (and the TOTP code when 2FA is enabled) and issues
// a JWT. Failures are deliberately vague to the caller.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest, totpCode string) (*models.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrInvalidInput)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account disabled", ErrInvalidInput)
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrInvalidInput)
	}
	if user.TOTPEnabled {
		if totpCode == "" || !totp.Validate(totpCode, user.TOTPSecret) {
			return nil, fmt.Errorf("%w: invalid verification code", ErrInvalidInput)
		}
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &models.LoginResponse{Token: token, User: user}, nil
}

// Get returns one staff account
func (s *UserService) Get(ctx context.Context, tenantID, id int) (*models.User, error) {
	return s.users.Get(ctx, tenantID, id)
}

// List returns a tenant's staff, optionally filtered by role
func (s *UserService) List(ctx context.Context, tenantID int, role string) ([]models.User, error) {
	return s.users.List(ctx, tenantID, role)
}
