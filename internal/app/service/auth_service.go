package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"gorm.io/gorm"
)

// TokenRevoker blacklists tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

type AuthService interface {
	Login(input LoginInput) (string, error)
	Logout(ctx context.Context, token string, claims *util.Claims) error
}

type authService struct {
	userRepo    repository.UserRepository
	revoker     TokenRevoker
	jwtSecret   string
	tokenExpiry time.Duration
}

// NewAuthService builds the token service. revoker may be nil, then logout only forgets the token client side.
func NewAuthService(
	userRepo repository.UserRepository,
	revoker TokenRevoker,
	jwtSecret string,
	tokenExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		revoker:     revoker,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Login(input LoginInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return "", newError(ErrInvalidCredentials, "Unable to log in with provided credentials.")
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return "", err
	}

	if !util.VerifyPassword(user.PasswordHash, input.Password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return "", newError(ErrInvalidCredentials, "Unable to log in with provided credentials.")
	}

	token, err := util.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return token, nil
}

func (s *authService) Logout(ctx context.Context, token string, claims *util.Claims) error {
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, token, util.TokenTTL(claims)); err != nil {
		logger.Error("Failed to revoke token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}
