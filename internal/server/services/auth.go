// Package services holds the business logic between the HTTP surface and the
// repositories. Services return sentinel errors from internal/common; the
// handlers translate them into envelope responses.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/scribe-blog/scribe/internal/common"
	"github.com/scribe-blog/scribe/internal/server/auth"
	"github.com/scribe-blog/scribe/internal/server/config"
	"github.com/scribe-blog/scribe/internal/server/models"
	"github.com/scribe-blog/scribe/internal/server/repositories/sessions"
	"github.com/scribe-blog/scribe/internal/server/repositories/users"
)

type Auth interface {
	Register(ctx context.Context, input models.RegisterInput) (*models.User, error)
	Login(ctx context.Context, input models.LoginInput) (*models.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (*models.User, string, error)
	Logout(ctx context.Context, refreshToken string) error
}

type AuthService struct {
	users    users.Repository
	sessions sessions.Repository

	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(ur users.Repository, sr sessions.Repository, cfg *config.Config) *AuthService {
	return &AuthService{
		users:      ur,
		sessions:   sr,
		secret:     []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTokenValidityDuration,
		refreshTTL: cfg.RefreshTokenValidityDuration,
	}
}

func (s *AuthService) Register(ctx context.Context, input models.RegisterInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hash),
	}

	return s.users.Create(ctx, user)
}

// Login verifies the credentials and mints the token pair. The refresh
// token's unique id is stored in the session repository; refreshing and
// logging out check against it.
func (s *AuthService) Login(ctx context.Context, input models.LoginInput) (*models.User, string, string, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", "", common.ErrUnauthorized
		}
		return nil, "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, "", "", common.ErrUnauthorized
	}

	accessToken, err := auth.GenerateToken(auth.Claims{UserId: user.Id}, s.secret, s.accessTTL)
	if err != nil {
		return nil, "", "", fmt.Errorf("generating access token: %w", err)
	}

	uniqueId := uuid.NewString()
	refreshToken, err := auth.GenerateToken(auth.Claims{UserId: user.Id, UniqueId: uniqueId}, s.secret, s.refreshTTL)
	if err != nil {
		return nil, "", "", fmt.Errorf("generating refresh token: %w", err)
	}

	if err := s.sessions.Set(ctx, user.Id, uniqueId, s.refreshTTL); err != nil {
		return nil, "", "", fmt.Errorf("caching refresh token: %w", err)
	}

	user.Password = ""
	return user, accessToken, refreshToken, nil
}

// Refresh exchanges a valid refresh token for a new access token. The unique
// id inside the token must match the one stored for the user, so a logout
// (or a rotation) kills every outstanding refresh token at once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, string, error) {
	claims, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, "", err
	}

	user, err := s.users.GetById(ctx, claims.UserId)
	if err != nil {
		return nil, "", err
	}

	accessToken, err := auth.GenerateToken(auth.Claims{UserId: user.Id}, s.secret, s.accessTTL)
	if err != nil {
		return nil, "", fmt.Errorf("generating access token: %w", err)
	}

	user.Password = ""
	return user, accessToken, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.sessions.Del(ctx, claims.UserId)
}

func (s *AuthService) checkRefreshToken(ctx context.Context, refreshToken string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(refreshToken, s.secret)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	uniqueId, err := s.sessions.Get(ctx, claims.UserId)
	if err != nil || uniqueId != claims.UniqueId {
		return nil, common.ErrUnauthorized
	}

	return claims, nil
}
