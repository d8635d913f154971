// Package client provides typed REST clients for the four Acme Gifts
// backend microservices (auth, user, group, occasion). Each client wraps a
// base URL and an *http.Client, attaches the caller's bearer token, and maps
// JSON bodies to the models package. Backend error bodies carry a
// discriminating "error" field which is translated to sentinel errors where
// the caller is expected to branch on it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError describes a non-2xx response from a backend service.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the value of the "error" field in the response body, empty
	// when the body carried none.
	Code string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// base is the shared plumbing of the concrete service clients.
type base struct {
	url  string
	http *http.Client
}

// newBase normalizes the service URL to end with a slash, matching how the
// services compose resource paths.
func newBase(rawURL string, httpClient *http.Client) base {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return base{url: rawURL, http: httpClient}
}

// request builds a JSON request against the service. An empty token omits
// the Authorization header (only signup and the auth bootstrap run
// unauthenticated).
func (b base) request(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.url+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return req, nil
}

// do executes the request and decodes a 2xx body into out (skipped when out
// is nil). Non-2xx responses become *APIError with the body's "error" code.
func (b base) do(req *http.Request, out any) error {
	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Code: errorCode(resp.Body)}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL, err)
	}
	return nil
}

// decodeBody decodes a 2xx response body for callers that also need header
// access and therefore bypass do.
func decodeBody(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", resp.Request.URL, err)
	}
	return nil
}

// errorCode pulls the discriminating "error" field out of an error body.
func errorCode(body io.Reader) string {
	var payload struct {
		Code string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Code
}
