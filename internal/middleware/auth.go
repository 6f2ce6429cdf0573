package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ceramica/erp_backend/internal/utils"
)

const (
	msgAuthRequired = "يجب تسجيل الدخول أولاً"
	msgTokenInvalid = "رمز الدخول غير صالح"
	msgTokenExpired = "انتهت صلاحية رمز الدخول"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func tokenErrorMessage(err error) string {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return msgTokenExpired
	}
	return msgTokenInvalid
}

// AuthMiddleware validates staff JWTs. Store portal tokens carry a different audience and are rejected.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := bearerToken(c)
		if !ok {
			logger.Warn("Authorization header missing or malformed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgAuthRequired})
			return
		}

		claims, err := utils.ParseAndValidateJWT(tokenString, jwtSecret, utils.AudienceStaff)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": tokenErrorMessage(err)})
			return
		}
		if claims.Subject == "" {
			logger.Error("User ID (subject) missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgTokenInvalid})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.Subject)
		ctx = context.WithValue(ctx, loggerCtxKey, logger.With(slog.String("user_id", claims.Subject)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// StoreAuthMiddleware validates store portal JWTs. Staff tokens are rejected.
func StoreAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgAuthRequired})
			return
		}

		claims, err := utils.ParseStoreJWT(tokenString, jwtSecret)
		if err != nil {
			logger.Warn("Invalid store token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": tokenErrorMessage(err)})
			return
		}

		ctx := context.WithValue(c.Request.Context(), storeIDKey, claims.Subject)
		ctx = context.WithValue(ctx, storeCompanyKey, claims.CompanyID)
		ctx = context.WithValue(ctx, loggerCtxKey, logger.With(
			slog.String("store_id", claims.Subject),
			slog.String("company_id", claims.CompanyID),
		))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
