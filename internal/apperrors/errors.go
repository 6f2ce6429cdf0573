package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource was modified concurrently or is in a conflicting state.
var ErrConflict = errors.New("conflict")

// ErrForbidden indicates that the caller is authenticated but lacks the required permission.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry time.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrInsufficientStock indicates that a product does not have enough quantity on hand.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInsufficientBalance indicates that a treasury or account balance cannot cover an amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrInvalidStatus indicates that a document status does not allow the requested transition.
var ErrInvalidStatus = errors.New("invalid status transition")

// defaultMessages holds the Arabic message shown to clients for each error kind.
var defaultMessages = map[error]string{
	ErrNotFound:            "العنصر المطلوب غير موجود",
	ErrValidation:          "البيانات المدخلة غير صالحة",
	ErrDuplicate:           "العنصر موجود مسبقاً",
	ErrConflict:            "تم تعديل البيانات من مستخدم آخر، يرجى إعادة المحاولة",
	ErrForbidden:           "ليس لديك صلاحية لتنفيذ هذه العملية",
	ErrUnauthorized:        "يجب تسجيل الدخول أولاً",
	ErrRefreshTokenExpired: "انتهت صلاحية الجلسة، يرجى تسجيل الدخول مجدداً",
	ErrInsufficientStock:   "الكمية المتوفرة في المخزن غير كافية",
	ErrInsufficientBalance: "الرصيد غير كافٍ لإتمام العملية",
	ErrInvalidStatus:       "لا يمكن تنفيذ العملية في الحالة الحالية للمستند",
}

// InternalErrorMessage is returned to clients for any unexpected failure.
const InternalErrorMessage = "حدث خطأ غير متوقع، يرجى المحاولة لاحقاً"

// AppError carries an HTTP status code, a client-facing message and the underlying cause.
// It matches both its Kind sentinel and its cause with errors.Is.
type AppError struct {
	Code    int
	Message string
	Kind    error
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind sentinel and the wrapped cause.
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewAppError creates an AppError whose kind is derived from the status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Kind: kindForStatus(code), Err: err}
}

// NewValidationFailedError reports invalid input with an Arabic message.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Kind: ErrValidation}
}

// NewNotFoundError reports a missing resource with an Arabic message.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Kind: ErrNotFound}
}

// NewConflictError reports a duplicate or conflicting resource.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Kind: ErrDuplicate}
}

// NewForbiddenError reports a missing permission.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Kind: ErrForbidden}
}

// NewInsufficientStockError names the product whose stock cannot cover the requested quantity.
func NewInsufficientStockError(productName, available, requested string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("الكمية المتوفرة من الصنف \"%s\" هي %s فقط، والمطلوب %s", productName, available, requested),
		Kind:    ErrInsufficientStock,
	}
}

// NewInsufficientBalanceError names the account whose balance cannot cover the amount.
func NewInsufficientBalanceError(accountName, available string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("رصيد \"%s\" غير كافٍ، الرصيد المتاح %s", accountName, available),
		Kind:    ErrInsufficientBalance,
	}
}

// NewInvalidStatusError reports a forbidden status transition.
func NewInvalidStatusError(from, to string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("لا يمكن نقل المستند من الحالة %s إلى الحالة %s", from, to),
		Kind:    ErrInvalidStatus,
	}
}

func kindForStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return nil
	}
}

// HTTPStatus maps any error to the HTTP status code it should be reported with.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidStatus):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the Arabic message that may be shown to a client for err.
// Internal failures never leak their cause.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code > 0 && appErr.Code < http.StatusInternalServerError && appErr.Message != "" {
		return appErr.Message
	}
	for _, kind := range []error{
		ErrInsufficientStock, ErrInsufficientBalance, ErrInvalidStatus, ErrRefreshTokenExpired,
		ErrNotFound, ErrValidation, ErrDuplicate, ErrConflict, ErrForbidden, ErrUnauthorized,
	} {
		if errors.Is(err, kind) {
			return defaultMessages[kind]
		}
	}
	return InternalErrorMessage
}
