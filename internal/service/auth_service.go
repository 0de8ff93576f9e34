package service

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/voice2action/civic-service/internal/auth"
	"github.com/voice2action/civic-service/internal/config"
	"github.com/voice2action/civic-service/internal/domain"
	"github.com/voice2action/civic-service/internal/repository"
	apperrors "github.com/voice2action/civic-service/pkg/util/errorutil"
)

// AuthService manages administrator accounts and token issuance.
type AuthService struct {
	users  repository.AdminUserRepository
	tokens *auth.TokenManager
	cfg    config.AuthConfig
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.Config, users repository.AdminUserRepository) *AuthService {
	return &AuthService{
		users:  users,
		tokens: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		cfg:    cfg.Auth,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// RegisterInput describes a new admin/officer account request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginResult carries the signed token and its subject.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.AdminUser
}

// Register creates an administrator or officer account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.AdminUser, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	role := domain.AdminRoleAdmin
	if input.Role != "" {
		parsed, ok := domain.ParseAdminRole(input.Role)
		if !ok {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
		}
		role = parsed
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !apperrors.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	user := &domain.AdminUser{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
