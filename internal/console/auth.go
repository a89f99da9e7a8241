package console

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UsernameKey contextKey = "username"
)

const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

const (
	HealthPath  = "/health"
	MetricsPath = "/metrics"
)

const (
	ErrAuthHeaderRequired = "authorization header required"
	ErrInvalidAuthHeader  = "invalid authorization header format"
	ErrInvalidToken       = "invalid token"
)

// Claims is the console token payload
type Claims struct {
	PreferredUsername string `json:"preferred_username,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware requires an HS256 bearer token signed with secret.
// Health and metrics endpoints are exempt.
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == HealthPath || r.URL.Path == MetricsPath {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get(AuthorizationHeader)
			if authHeader == "" {
				log.Warn().Str("path", r.URL.Path).Msg("Authorization header missing")
				writeFailure(w, http.StatusUnauthorized, ErrAuthHeaderRequired)
				return
			}

			if !strings.HasPrefix(authHeader, BearerPrefix) {
				log.Warn().Str("path", r.URL.Path).Msg("Invalid authorization header format")
				writeFailure(w, http.StatusUnauthorized, ErrInvalidAuthHeader)
				return
			}

			claims, err := validateToken(strings.TrimPrefix(authHeader, BearerPrefix), secret)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("JWT token validation failed")
				writeFailure(w, http.StatusUnauthorized, ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, UsernameKey, claims.PreferredUsername)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateToken(tokenString string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuedAt())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	return claims, nil
}

// IssueToken signs a console token for subject valid for ttl
func IssueToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		PreferredUsername: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// UsernameFromContext returns the authenticated user name, if any
func UsernameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(UsernameKey).(string)
	return name
}
