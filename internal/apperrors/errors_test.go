package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMatchesKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewAppError(http.StatusNotFound, "الفاتورة غير موجودة", cause)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error code wins", NewValidationFailedError("خطأ"), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"duplicate", ErrDuplicate, http.StatusConflict},
		{"invalid status", NewInvalidStatusError("APPROVED", "DRAFT"), http.StatusConflict},
		{"stock", NewInsufficientStockError("بلاط", "2", "5"), http.StatusUnprocessableEntity},
		{"balance", fmt.Errorf("withdraw: %w", ErrInsufficientBalance), http.StatusUnprocessableEntity},
		{"expired refresh", ErrRefreshTokenExpired, http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("ممنوع"), http.StatusForbidden},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "اسم الصنف مطلوب", UserMessage(NewValidationFailedError("اسم الصنف مطلوب")))
	assert.Equal(t, defaultMessages[ErrNotFound], UserMessage(fmt.Errorf("x: %w", ErrNotFound)))
	assert.Equal(t, InternalErrorMessage, UserMessage(NewAppError(http.StatusInternalServerError, "failed to query", errors.New("db down"))))
	assert.Equal(t, InternalErrorMessage, UserMessage(errors.New("boom")))
	assert.Contains(t, UserMessage(NewInsufficientStockError("بلاط أرضيات", "3", "10")), "بلاط أرضيات")
}
