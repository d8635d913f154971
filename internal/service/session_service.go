package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
	"github.com/OpenLiberty/sample-acmegifts/internal/client"
	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

// ErrTwitterOnly is returned when a password login hits an account that must
// authenticate through Twitter. The text is user-facing.
var ErrTwitterOnly = errors.New("You must login with Twitter")

// TokenSource hands out the unauthenticated bootstrap token.
type TokenSource interface {
	GuestToken(ctx context.Context) (string, error)
}

// UserStore is the slice of the user client the session service needs.
type UserStore interface {
	Get(ctx context.Context, sess auth.Session, id string) (models.User, error)
	Create(ctx context.Context, guestToken string, user models.User) (id, token string, err error)
	Update(ctx context.Context, sess auth.Session, user models.User) error
	Delete(ctx context.Context, sess auth.Session, id string) error
	Login(ctx context.Context, guestToken string, creds client.Credentials) (client.LoginResult, error)
}

// SessionService establishes sessions: password login and signup. Both run
// the same bootstrap: fetch a guest token from the auth service, then trade
// it at the user service for a user-bound one.
type SessionService struct {
	tokens TokenSource
	users  UserStore
	now    func() time.Time
}

// NewSessionService creates a SessionService. now is injectable for expiry
// tests; pass time.Now outside of them.
func NewSessionService(tokens TokenSource, users UserStore, now func() time.Time) *SessionService {
	return &SessionService{tokens: tokens, users: users, now: now}
}

// Login authenticates a username/password pair and returns the established
// session together with the user's profile.
func (s *SessionService) Login(ctx context.Context, creds client.Credentials) (auth.Session, models.User, error) {
	slog.Info("Login request", "user_name", creds.UserName)

	guest, err := s.tokens.GuestToken(ctx)
	if err != nil {
		slog.Error("Login failed fetching bootstrap token", "error", err)
		return auth.Session{}, models.User{}, err
	}

	result, err := s.users.Login(ctx, guest, creds)
	if err != nil {
		slog.Warn("Login failed", "user_name", creds.UserName, "error", err)
		return auth.Session{}, models.User{}, err
	}
	if result.TwitterOnly {
		slog.Warn("Login rejected, Twitter-only account", "user_name", creds.UserName)
		return auth.Session{}, models.User{}, ErrTwitterOnly
	}

	sess, err := auth.NewSession(result.Token, result.UserID, s.now())
	if err != nil {
		slog.Error("Login produced an unusable token", "user_id", result.UserID, "error", err)
		return auth.Session{}, models.User{}, err
	}

	user, err := s.users.Get(ctx, sess, result.UserID)
	if err != nil {
		slog.Error("Login failed fetching profile", "user_id", result.UserID, "error", err)
		return auth.Session{}, models.User{}, err
	}
	sess.UserName = user.UserName

	slog.Info("User logged in", "user_id", sess.UserID, "user_name", sess.UserName)
	return sess, user, nil
}

// Signup registers a new user and returns the session the user service
// issued alongside the created profile.
func (s *SessionService) Signup(ctx context.Context, user models.User) (auth.Session, models.User, error) {
	slog.Info("Signup request", "user_name", user.UserName)

	guest, err := s.tokens.GuestToken(ctx)
	if err != nil {
		slog.Error("Signup failed fetching bootstrap token", "error", err)
		return auth.Session{}, models.User{}, err
	}

	id, token, err := s.users.Create(ctx, guest, user)
	if err != nil {
		slog.Error("Signup failed", "user_name", user.UserName, "error", err)
		return auth.Session{}, models.User{}, err
	}

	sess, err := auth.NewSession(token, id, s.now())
	if err != nil {
		slog.Error("Signup produced an unusable token", "user_id", id, "error", err)
		return auth.Session{}, models.User{}, err
	}
	sess.UserName = user.UserName

	user.ID = id
	user.Password = ""

	slog.Info("User signed up", "user_id", id, "user_name", user.UserName)
	return sess, user, nil
}

// UpdateProfile replaces the caller's profile and returns the stored view.
// An empty password field leaves the stored password untouched; the user
// service interprets it that way.
func (s *SessionService) UpdateProfile(ctx context.Context, sess auth.Session, user models.User) (models.User, error) {
	slog.Info("Update profile request", "user_id", user.ID)

	if err := s.users.Update(ctx, sess, user); err != nil {
		slog.Error("Update profile failed", "user_id", user.ID, "error", err)
		return models.User{}, err
	}

	updated, err := s.users.Get(ctx, sess, user.ID)
	if err != nil {
		slog.Error("Update profile failed refreshing user", "user_id", user.ID, "error", err)
		return models.User{}, err
	}
	updated.Password = ""

	slog.Info("Profile updated", "user_id", user.ID)
	return updated, nil
}

// DeleteAccount removes the caller's account. Group memberships are left to
// the group service's own cleanup.
func (s *SessionService) DeleteAccount(ctx context.Context, sess auth.Session, userID string) error {
	slog.Info("Delete account request", "user_id", userID)

	if err := s.users.Delete(ctx, sess, userID); err != nil {
		slog.Error("Delete account failed", "user_id", userID, "error", err)
		return err
	}

	slog.Info("Account deleted", "user_id", userID)
	return nil
}
