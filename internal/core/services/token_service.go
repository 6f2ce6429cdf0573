package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/core/domain"
	portssvc "github.com/ceramica/erp_backend/internal/core/ports/services"
	"github.com/ceramica/erp_backend/internal/dto"
	"github.com/ceramica/erp_backend/internal/platform/config"
	"github.com/ceramica/erp_backend/internal/utils"
)

// refreshTokenBytes yields a 64-character hex refresh token.
const refreshTokenBytes = 32

// tokenService issues staff access tokens and rotates refresh tokens.
type tokenService struct {
	BaseService
	cfg         *config.Config
	userService portssvc.UserSvcFacade
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, userService portssvc.UserSvcFacade, options ...ServiceOption) portssvc.TokenSvcFacade {
	svc := &tokenService{
		cfg:         cfg,
		userService: userService,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	token, expiresAt, err := utils.GenerateJWT(user.UserID, utils.AudienceStaff, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// GenerateRefreshToken creates a new opaque refresh token for the given user.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	raw, err := utils.GenerateSecureRandomString(refreshTokenBytes)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return raw, s.now().Add(s.cfg.RefreshTokenExpiryDuration), nil
}

// ValidateAndParseRefreshToken compares the presented token with the stored hash and expiry.
func (s *tokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error) {
	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to retrieve user for refresh token validation: %w", err)
	}

	if user.RefreshTokenHash == "" || user.RefreshTokenExpiryTime == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if s.now().After(*user.RefreshTokenExpiryTime) {
		s.LogInfo(ctx, "Stored refresh token has expired", slog.String("user_id", userID))
		return nil, apperrors.ErrRefreshTokenExpired
	}
	if !utils.CompareTokenHash(refreshTokenString, user.RefreshTokenHash) {
		s.LogDebug(ctx, "Refresh token mismatch", slog.String("user_id", userID))
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// IssueSession generates an access/refresh pair and stores the refresh token hash,
// invalidating any previous refresh token of the user.
func (s *tokenService) IssueSession(ctx context.Context, user *domain.User) (*dto.LoginResponse, error) {
	accessToken, expiresAt, err := s.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to generate access token", err)
	}
	refreshToken, refreshExpiresAt, err := s.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to generate refresh token", err)
	}
	if err := s.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashToken(refreshToken), refreshExpiresAt); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token", slog.String("user_id", user.UserID))
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:           accessToken,
		ExpiresAt:             expiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
		User:                  dto.ToUserResponse(user),
	}, nil
}
