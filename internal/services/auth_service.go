package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/agenda-academica/academic-service/internal/auth"
	"github.com/agenda-academica/academic-service/internal/models"
	"github.com/agenda-academica/academic-service/internal/repositories"
	"github.com/agenda-academica/academic-service/internal/validator"
)

// AuthError is a 401 with a client facing message
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

func newAuthError(message string, err error) *AuthError {
	return &AuthError{Message: message, Err: err}
}

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
	hasher    *auth.PasswordHasher
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, tokens *auth.TokenManager, hasher *auth.PasswordHasher) AuthService {
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		tokens:    tokens,
		hasher:    hasher,
	}
}

// Login collapses unknown usernames and wrong passwords into one error
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*TokenPair, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.repo.User().GetByUsername(ctx, nil, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.InfoContext(ctx, "Login rejected", "username", req.Username, "reason", "unknown user")
			return nil, newAuthError(ErrInvalidCredentials.Error(), ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.logger.InfoContext(ctx, "Login rejected", "username", req.Username, "reason", "wrong password")
		return nil, newAuthError(ErrInvalidCredentials.Error(), ErrInvalidCredentials)
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return pair, nil
}

// Refresh rotates both tokens. The account must still exist.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, newAuthError(ErrRefreshTokenAbsent.Error(), ErrRefreshTokenAbsent)
	}

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, newAuthError(ErrUserNotFound.Error(), ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.DebugContext(ctx, "Tokens refreshed", "user_id", user.ID)
	return pair, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, newAuthError("Token de acesso ausente", ErrUnauthorized)
	}

	userID, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, newAuthError(ErrUserNotFound.Error(), ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *authService) RefreshTTL() time.Duration {
	return s.tokens.RefreshTTL()
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return newAuthError("Token expirado", err)
	case errors.Is(err, auth.ErrWrongTokenType):
		return newAuthError("Tipo de token inválido", err)
	default:
		return newAuthError("Token inválido", err)
	}
}
