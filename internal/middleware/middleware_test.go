package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceramica/erp_backend/internal/utils"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(slog.Default()))
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		if userID, ok := GetUserIDFromContext(c); ok {
			c.String(http.StatusOK, "user:"+userID)
			return
		}
		if storeID, companyID, ok := GetStoreFromContext(c); ok {
			c.String(http.StatusOK, "store:"+storeID+"@"+companyID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret))

	staffToken, _, err := utils.GenerateJWT("user-1", utils.AudienceStaff, testSecret, time.Hour, "test")
	require.NoError(t, err)
	w := get(r, staffToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user:user-1", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	storeToken, _, err := utils.GenerateStoreJWT("store-1", "company-1", testSecret, time.Hour, "test")
	require.NoError(t, err)
	w = get(r, storeToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "store tokens cannot reach staff routes")

	expired, _, err := utils.GenerateJWT("user-1", utils.AudienceStaff, testSecret, -time.Minute, "test")
	require.NoError(t, err)
	w = get(r, expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), msgTokenExpired))
}

func TestStoreAuthMiddleware(t *testing.T) {
	r := newRouter(StoreAuthMiddleware(testSecret))

	storeToken, _, err := utils.GenerateStoreJWT("store-1", "company-1", testSecret, time.Hour, "test")
	require.NoError(t, err)
	w := get(r, storeToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "store:store-1@company-1", w.Body.String())

	staffToken, _, err := utils.GenerateJWT("user-1", utils.AudienceStaff, testSecret, time.Hour, "test")
	require.NoError(t, err)
	w = get(r, staffToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "staff tokens cannot reach the store portal")
}

func TestRateLimit(t *testing.T) {
	lim, err := NewLimiter("2-M")
	require.NoError(t, err)
	r := newRouter(RateLimit(lim))

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "").Code)

	_, err = NewLimiter("often")
	assert.Error(t, err)
}

func TestHTTPMetrics(t *testing.T) {
	metrics := NewHTTPMetrics()
	r := newRouter(metrics.Middleware())
	r.GET("/metrics", metrics.Handler())

	get(r, "")
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `erp_http_requests_total{method="GET",route="/whoami",status="200"} 1`)
}

type amountPayload struct {
	Name   string          `json:"name" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"gt=0"`
}

func TestSetupValidator_DecimalRules(t *testing.T) {
	SetupValidator()

	err := binding.Validator.ValidateStruct(amountPayload{Name: "x", Amount: decimal.RequireFromString("0.01")})
	assert.NoError(t, err)

	err = binding.Validator.ValidateStruct(amountPayload{Name: "x", Amount: decimal.Zero})
	require.Error(t, err)
	assert.Contains(t, ValidationMessage(err), "amount")

	err = binding.Validator.ValidateStruct(amountPayload{Amount: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Equal(t, "الحقل name مطلوب", ValidationMessage(err))
}
