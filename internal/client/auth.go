package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNoToken is returned when the auth service responds without an
// Authorization header.
var ErrNoToken = errors.New("auth service returned no token")

// AuthClient talks to the auth microservice, which hands out the guest JWT
// used to bootstrap login and signup.
type AuthClient struct {
	base
}

// NewAuthClient creates a client for the auth service at the given URL.
func NewAuthClient(serviceURL string, httpClient *http.Client) *AuthClient {
	return &AuthClient{base: newBase(serviceURL, httpClient)}
}

// GuestToken fetches a fresh unauthenticated JWT. The token arrives in the
// Authorization response header, not the body.
func (c *AuthClient) GuestToken(ctx context.Context) (string, error) {
	req, err := c.request(ctx, http.MethodGet, "", "", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", req.URL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode}
	}

	token := resp.Header.Get("Authorization")
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
