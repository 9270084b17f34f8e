// Package auth reads the session token issued by the remote backend.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/readrace/internal/domain"
)

// Session is what the engine knows about the signed-in reader.
type Session struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
	Token     string
}

// Expired reports whether the token is past its expiry at now.
// A session without an expiry never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// ParseSession decodes the bearer token's subject and expiry.
// The signature is not checked: the backend verifies every request it
// receives, the engine only needs the user id for correlation.
func ParseSession(token string) (Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Session{}, fmt.Errorf("parse session: token is empty: %w", domain.ErrUnauthorized)
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("parse session: %w: %w", domain.ErrUnauthorized, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Session{}, fmt.Errorf("parse session: invalid subject: %w", domain.ErrUnauthorized)
	}

	s := Session{UserID: userID, Token: token}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// IsUnauthorized reports whether err came from a rejected token.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
