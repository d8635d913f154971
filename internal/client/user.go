package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

// Login error codes the user service reports in its error body.
const (
	codeUserNotFound      = "userNotFound"
	codeIncorrectPassword = "incorrectPassword"
	codeCannotAuth        = "unableToAuthenticate"
)

var (
	// ErrInvalidCredentials covers both unknown-user and wrong-password
	// responses; the two are deliberately not distinguished to callers.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrCannotAuthenticate is returned when the server could not process
	// the authentication request at all.
	ErrCannotAuthenticate = errors.New("the server was unable to authenticate the user")
)

// UserClient talks to the user microservice.
type UserClient struct {
	base
	loginBase base
}

// NewUserClient creates a client for the user service. serviceURL is the
// users resource; loginURL is the login endpoint the same service exposes.
func NewUserClient(serviceURL, loginURL string, httpClient *http.Client) *UserClient {
	return &UserClient{
		base:      newBase(serviceURL, httpClient),
		loginBase: newBase(loginURL, httpClient),
	}
}

// Get retrieves a single user by ID.
func (c *UserClient) Get(ctx context.Context, sess auth.Session, id string) (models.User, error) {
	req, err := c.request(ctx, http.MethodGet, id, sess.Token, nil)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := c.do(req, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// List retrieves every registered user.
func (c *UserClient) List(ctx context.Context, sess auth.Session) ([]models.User, error) {
	req, err := c.request(ctx, http.MethodGet, "", sess.Token, nil)
	if err != nil {
		return nil, err
	}

	var envelope models.Users
	if err := c.do(req, &envelope); err != nil {
		return nil, err
	}
	return envelope.Users, nil
}

// Create registers a new user. The call runs under the bootstrap guest
// token; the response carries the new user's ID in the body and a fresh
// session JWT in the Authorization header.
func (c *UserClient) Create(ctx context.Context, guestToken string, user models.User) (id, token string, err error) {
	req, err := c.request(ctx, http.MethodPost, "", guestToken, user)
	if err != nil {
		return "", "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("request to %s failed: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", &APIError{StatusCode: resp.StatusCode, Code: errorCode(resp.Body)}
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := decodeBody(resp, &body); err != nil {
		return "", "", err
	}

	token = resp.Header.Get("Authorization")
	if token == "" {
		return "", "", ErrNoToken
	}
	return body.ID, token, nil
}

// Update replaces the user's profile.
func (c *UserClient) Update(ctx context.Context, sess auth.Session, user models.User) error {
	req, err := c.request(ctx, http.MethodPut, user.ID, sess.Token, user)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Delete removes the user's account.
func (c *UserClient) Delete(ctx context.Context, sess auth.Session, id string) error {
	req, err := c.request(ctx, http.MethodDelete, id, sess.Token, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Credentials is a username/password pair submitted at login.
type Credentials struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// LoginResult is what a successful password login yields.
type LoginResult struct {
	// UserID is the authenticated user's ID.
	UserID string

	// Token is the session JWT from the Authorization response header.
	Token string

	// TwitterOnly is set when the account must log in through Twitter
	// instead of a password.
	TwitterOnly bool
}

// Login authenticates a username/password pair under the bootstrap guest
// token. Unknown users and wrong passwords both map to
// ErrInvalidCredentials.
func (c *UserClient) Login(ctx context.Context, guestToken string, creds Credentials) (LoginResult, error) {
	req, err := c.loginBase.request(ctx, http.MethodPost, "", guestToken, creds)
	if err != nil {
		return LoginResult{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return LoginResult{}, fmt.Errorf("request to %s failed: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		switch errorCode(resp.Body) {
		case codeUserNotFound, codeIncorrectPassword:
			return LoginResult{}, ErrInvalidCredentials
		case codeCannotAuth:
			return LoginResult{}, ErrCannotAuthenticate
		default:
			return LoginResult{}, &APIError{StatusCode: resp.StatusCode}
		}
	}

	var body struct {
		ID      string `json:"id"`
		Twitter bool   `json:"twitter"`
	}
	if err := decodeBody(resp, &body); err != nil {
		return LoginResult{}, err
	}

	result := LoginResult{UserID: body.ID, TwitterOnly: body.Twitter}
	if !body.Twitter {
		result.Token = resp.Header.Get("Authorization")
		if result.Token == "" {
			return LoginResult{}, ErrNoToken
		}
	}
	return result, nil
}
