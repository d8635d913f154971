package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signToken builds a real HS256 token so Inspect exercises the same parse
// path the backend tokens take.
func signToken(t *testing.T, upn string, expiresAt time.Time) string {
	t.Helper()

	claims := &Claims{
		UPN: upn,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   upn,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestInspect(t *testing.T) {
	token := signToken(t, "maria", time.Now().Add(time.Hour))

	claims, err := Inspect(token)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if claims.UPN != "maria" {
		t.Errorf("upn = %q, want maria", claims.UPN)
	}
	if claims.Expired(time.Now()) {
		t.Error("fresh token reported expired")
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	if _, err := Inspect("not-a-jwt"); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("error = %v, want ErrSessionInvalid", err)
	}
	if _, err := Inspect(""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("error = %v, want ErrMissingToken", err)
	}
}

func TestNewSession(t *testing.T) {
	now := time.Now()
	token := signToken(t, "maria", now.Add(time.Hour))

	sess, err := NewSession(token, "u1", now)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if sess.UserID != "u1" || sess.UserName != "maria" || sess.Token != token {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestNewSessionBearerPrefix(t *testing.T) {
	now := time.Now()
	header := "Bearer " + signToken(t, "maria", now.Add(time.Hour))

	sess, err := NewSession(header, "u1", now)
	if err != nil {
		t.Fatalf("NewSession failed on a prefixed header: %v", err)
	}
	if sess.UserName != "maria" {
		t.Errorf("upn = %q, want maria", sess.UserName)
	}
	if sess.Token != header {
		t.Errorf("token = %q, want the header kept verbatim", sess.Token)
	}
}

func TestNewSessionExpired(t *testing.T) {
	now := time.Now()
	token := signToken(t, "maria", now.Add(-time.Minute))

	if _, err := NewSession(token, "u1", now); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("error = %v, want ErrSessionInvalid", err)
	}
}

func TestSessionContext(t *testing.T) {
	sess := Session{Token: "tok", UserID: "u1", UserName: "maria"}

	ctx := NewContext(context.Background(), sess)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("session not found in context")
	}
	if got != sess {
		t.Errorf("session = %+v, want %+v", got, sess)
	}

	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no session in empty context")
	}
}
