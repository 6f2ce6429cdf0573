package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token audiences separate back-office staff from external store sessions.
const (
	AudienceStaff       = "staff"
	AudienceStorePortal = "store-portal"
)

// StoreClaims identify an external store session.
type StoreClaims struct {
	CompanyID string `json:"cid"`
	jwt.RegisteredClaims
}

// GenerateJWT signs an HS256 token for subject with the given audience.
func GenerateJWT(subject, audience, secret string, expiryDuration time.Duration, issuer string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiryDuration)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, expiresAt, err
}

// GenerateStoreJWT signs a store portal token carrying the owning company.
func GenerateStoreJWT(storeID, companyID, secret string, expiryDuration time.Duration, issuer string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiryDuration)
	claims := StoreClaims{
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   storeID,
			Audience:  jwt.ClaimStrings{AudienceStorePortal},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, expiresAt, err
}

func hmacKey(secret string) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}
}

// ParseAndValidateJWT validates signature, time claims and audience of a staff or store token.
func ParseAndValidateJWT(tokenString, secret, audience string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(secret), jwt.WithAudience(audience))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}

// ParseStoreJWT validates a store portal token and returns its claims.
func ParseStoreJWT(tokenString, secret string) (*StoreClaims, error) {
	claims := &StoreClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(secret), jwt.WithAudience(AudienceStorePortal))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" || claims.CompanyID == "" {
		return nil, errors.New("store token is missing subject or company")
	}
	return claims, nil
}
