package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// contextKey prevents collisions with keys set by other packages.
type contextKey string

const (
	loggerCtxKey    = contextKey("logger")
	userIDKey       = contextKey("userID")
	storeIDKey      = contextKey("storeID")
	storeCompanyKey = contextKey("storeCompanyID")
)

// GetLoggerFromCtx returns the request-scoped logger, or the default logger outside a request.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.Default()
}

// GetUserIDFromContext retrieves the authenticated staff user ID.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
		return userID, true
	}
	return "", false
}

// GetStoreFromContext retrieves the authenticated external store and its company.
func GetStoreFromContext(c *gin.Context) (storeID, companyID string, ok bool) {
	ctx := c.Request.Context()
	storeID, _ = ctx.Value(storeIDKey).(string)
	companyID, _ = ctx.Value(storeCompanyKey).(string)
	return storeID, companyID, storeID != "" && companyID != ""
}

// WithUserID returns a context carrying an authenticated user. Used by tests and the CLI.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
