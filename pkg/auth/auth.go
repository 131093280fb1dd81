// Package auth provides HS256 JWT generation and parsing for the history API.
// This is a leaf package with no domain dependencies. Used by cmd/sage (token
// issuance) and internal/api/middleware (token validation).
package auth

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiry is the default token expiration in hours if not set via env.
const DefaultExpiry = 24

const (
	envJWTSecret = "SAGE_JWT_SECRET"
	envJWTExpiry = "SAGE_JWT_EXPIRY"
)

// Secret reads SAGE_JWT_SECRET from the environment.
// An empty value means auth is disabled; callers decide how to treat that.
func Secret() string {
	return os.Getenv(envJWTSecret)
}

// parseExpiry parses an expiry string (hours) into a Duration.
// Returns DefaultExpiry for an empty string or an invalid number.
func parseExpiry(expiryStr string) time.Duration {
	if expiryStr == "" {
		return time.Duration(DefaultExpiry) * time.Hour
	}

	hours, err := strconv.Atoi(expiryStr)
	if err != nil {
		return time.Duration(DefaultExpiry) * time.Hour
	}

	return time.Duration(hours) * time.Hour
}

// expiry reads SAGE_JWT_EXPIRY from the environment in hours.
func expiry() time.Duration {
	return parseExpiry(os.Getenv(envJWTExpiry))
}

// Claims are the JWT claims for history-API access.
// Scope is the only custom claim; "history:read" is the sole scope today.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// ScopeHistoryRead grants read access to recorded turns.
const ScopeHistoryRead = "history:read"

// GenerateToken creates a signed token for the given subject and scope.
// Returns an error if SAGE_JWT_SECRET is not configured.
func GenerateToken(subject, scope string) (string, error) {
	secret := Secret()
	if secret == "" {
		return "", fmt.Errorf("%s environment variable not set", envJWTSecret)
	}

	now := time.Now()
	claims := &Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token against secret and extracts its claims.
// The signing method is pinned to HMAC to prevent algorithm substitution.
func ParseToken(tokenString, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
