package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestDummyPasswordMatchesRealCost(t *testing.T) {
	assert.False(t, CheckDummyPassword("unused-login-placeholder"))

	realHash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	realCost, err := bcrypt.Cost([]byte(realHash))
	require.NoError(t, err)
	dummyCost, err := bcrypt.Cost([]byte(dummyPasswordHash()))
	require.NoError(t, err)
	assert.Equal(t, realCost, dummyCost)
}

func TestTokenHash(t *testing.T) {
	raw, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, raw, 64)

	hash := HashToken(raw)
	assert.True(t, CompareTokenHash(raw, hash))
	assert.False(t, CompareTokenHash(raw+"x", hash))
	assert.False(t, CompareTokenHash(raw, ""))

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestJWTAudienceSeparation(t *testing.T) {
	secret := "test-secret-key-that-is-long-enough"

	staffToken, exp, err := GenerateJWT("user-1", AudienceStaff, secret, time.Hour, "erp-test")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := ParseAndValidateJWT(staffToken, secret, AudienceStaff)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	_, err = ParseStoreJWT(staffToken, secret)
	assert.Error(t, err, "staff token must not open the store portal")

	storeToken, _, err := GenerateStoreJWT("store-1", "company-1", secret, time.Hour, "erp-test")
	require.NoError(t, err)
	storeClaims, err := ParseStoreJWT(storeToken, secret)
	require.NoError(t, err)
	assert.Equal(t, "store-1", storeClaims.Subject)
	assert.Equal(t, "company-1", storeClaims.CompanyID)

	_, err = ParseAndValidateJWT(storeToken, secret, AudienceStaff)
	assert.Error(t, err, "store token must not open staff routes")

	_, err = ParseAndValidateJWT(staffToken, "another-secret", AudienceStaff)
	assert.Error(t, err)
}

func TestExpiredJWT(t *testing.T) {
	token, _, err := GenerateJWT("user-1", AudienceStaff, "secret", -time.Minute, "erp-test")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(token, "secret", AudienceStaff)
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	out := FormatAmount(decimal.RequireFromString("1234.5"))
	assert.NotEmpty(t, out)
	assert.NotEqual(t, FormatCount(0), FormatAmount(decimal.RequireFromString("12")))
}

func TestFormatAmountKeepsLargeValuesExact(t *testing.T) {
	out := FormatAmount(decimal.RequireFromString("9999999999999999.99"))

	assert.True(t, strings.HasPrefix(out, ArabicPrinter.Sprintf("%d", int64(9999999999999999))), out)
	fraction := []rune(ArabicPrinter.Sprintf("%.2f", 0.99))
	assert.True(t, strings.HasSuffix(out, string(fraction[1:])), out)
}

func TestFormatAmountNegative(t *testing.T) {
	assert.Equal(t, "-"+FormatAmount(decimal.RequireFromString("0.5")), FormatAmount(decimal.RequireFromString("-0.5")))
	assert.Equal(t, FormatAmount(decimal.RequireFromString("10.005")), FormatAmount(decimal.RequireFromString("10.01")))
}
