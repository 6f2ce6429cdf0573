package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceramica/erp_backend/internal/apperrors"
	"github.com/ceramica/erp_backend/internal/middleware"
)

// ErrorResponse is the body of every failed request. Error is always Arabic and safe to show.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError logs err at a level matching its status and writes the client-facing message.
func respondError(c *gin.Context, logger *slog.Logger, err error, logMsg string) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(logMsg, slog.String("error", err.Error()))
	} else {
		logger.Warn(logMsg, slog.Int("status", status), slog.String("error", err.Error()))
	}
	c.JSON(status, ErrorResponse{Error: apperrors.UserMessage(err)})
}

func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: middleware.ValidationMessage(err)})
}

// requireUser returns the authenticated staff user id, writing a 401 when it is missing.
func requireUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "يجب تسجيل الدخول أولاً"})
		return "", false
	}
	return userID, true
}

// companyScope resolves the logger, the caller and the :companyID path parameter shared by
// every company-scoped handler.
func companyScope(c *gin.Context) (logger *slog.Logger, userID, companyID string, ok bool) {
	logger = middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok = requireUser(c, logger)
	if !ok {
		return logger, "", "", false
	}
	companyID = c.Param("companyID")
	logger = logger.With(slog.String("company_id", companyID))
	return logger, userID, companyID, true
}

// isEmptyBody reports a bind failure caused only by a missing body, for endpoints whose body is optional.
func isEmptyBody(err error) bool {
	return errors.Is(err, io.EOF)
}
