// Package auth models the caller's session as an explicit value instead of
// ambient storage. A Session carries the opaque bearer token issued by the
// backend and is threaded through every microservice call; the gateway never
// verifies the token itself, the owning services do.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when a request carries no bearer token.
	ErrMissingToken = errors.New("authorization token required")

	// ErrSessionInvalid is returned for tokens that cannot be parsed or
	// have expired. The text is user-facing.
	ErrSessionInvalid = errors.New("Your session has become invalid. Please login again.")
)

// Session identifies an authenticated caller for the duration of a request.
type Session struct {
	// Token is the bearer token exactly as issued, "Bearer " prefix
	// included when the backend sent one. Forwarded verbatim on every
	// backend call.
	Token string

	// UserID is the caller's user ID as reported at login.
	UserID string

	// UserName is the caller's login name, kept for display.
	UserName string
}

// Claims is the subset of the backend token's claims the gateway reads.
// The issuing service uses the MicroProfile "upn" claim for the login name.
type Claims struct {
	UPN string `json:"upn"`
	jwt.RegisteredClaims
}

// Expired reports whether the token's expiry lies at or before now. Tokens
// without an expiry never expire locally.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.After(now)
}

// Inspect reads the claims of a token without verifying its signature. The
// gateway holds no signing key; signature verification stays with the
// services that issued the token. Inspect only supports the local "has this
// session gone stale" check before a backend round-trip. The backends issue
// tokens as "Bearer <jwt>"; the prefix is stripped before parsing.
func Inspect(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	raw := strings.TrimPrefix(token, "Bearer ")
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}

	return claims, nil
}

// NewSession builds a Session from a raw token, rejecting tokens that are
// unparsable or already expired.
func NewSession(token, userID string, now time.Time) (Session, error) {
	claims, err := Inspect(token)
	if err != nil {
		return Session{}, err
	}
	if claims.Expired(now) {
		return Session{}, ErrSessionInvalid
	}

	return Session{Token: token, UserID: userID, UserName: claims.UPN}, nil
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const sessionKey contextKey = "session"

// NewContext returns a context carrying the session.
func NewContext(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// FromContext extracts the session stored by NewContext.
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey).(Session)
	return sess, ok
}
