package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

// Error codes the group service reports in its error body.
const (
	codeGroupIDNotValid = "The group ID is not valid"
	codeGroupIDNotFound = "The group was not found"
)

var (
	// ErrGroupIDNotValid is returned when the service rejects the group ID
	// as malformed.
	ErrGroupIDNotValid = errors.New("group service rejected the group ID as not valid")

	// ErrGroupIDNotFound is returned when no group exists under the ID.
	ErrGroupIDNotFound = errors.New("group service found no group under the given ID")
)

// GroupClient talks to the group microservice.
type GroupClient struct {
	base
}

// NewGroupClient creates a client for the group service at the given URL.
func NewGroupClient(serviceURL string, httpClient *http.Client) *GroupClient {
	return &GroupClient{base: newBase(serviceURL, httpClient)}
}

// groupErr rewrites the service's discriminated error codes to sentinels the
// caller can branch on. Other failures pass through unchanged.
func groupErr(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case codeGroupIDNotValid:
			return ErrGroupIDNotValid
		case codeGroupIDNotFound:
			return ErrGroupIDNotFound
		}
	}
	return err
}

// Get retrieves a group by ID.
func (c *GroupClient) Get(ctx context.Context, sess auth.Session, id string) (models.Group, error) {
	req, err := c.request(ctx, http.MethodGet, id, sess.Token, nil)
	if err != nil {
		return models.Group{}, err
	}

	var group models.Group
	if err := c.do(req, &group); err != nil {
		return models.Group{}, groupErr(err)
	}
	return group, nil
}

// ListForUser retrieves the groups the given user belongs to.
func (c *GroupClient) ListForUser(ctx context.Context, sess auth.Session, userID string) ([]models.Group, error) {
	req, err := c.request(ctx, http.MethodGet, "?userId="+url.QueryEscape(userID), sess.Token, nil)
	if err != nil {
		return nil, err
	}

	var envelope models.Groups
	if err := c.do(req, &envelope); err != nil {
		return nil, groupErr(err)
	}
	return envelope.Groups, nil
}

// Create stores a new group and returns its assigned ID.
func (c *GroupClient) Create(ctx context.Context, sess auth.Session, group models.Group) (string, error) {
	req, err := c.request(ctx, http.MethodPost, "", sess.Token, group)
	if err != nil {
		return "", err
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &body); err != nil {
		return "", groupErr(err)
	}
	return body.ID, nil
}

// Update replaces the stored group under the given ID.
func (c *GroupClient) Update(ctx context.Context, sess auth.Session, id string, group models.Group) error {
	req, err := c.request(ctx, http.MethodPut, id, sess.Token, group)
	if err != nil {
		return err
	}
	return groupErr(c.do(req, nil))
}

// Delete removes the group.
func (c *GroupClient) Delete(ctx context.Context, sess auth.Session, id string) error {
	req, err := c.request(ctx, http.MethodDelete, id, sess.Token, nil)
	if err != nil {
		return err
	}
	return groupErr(c.do(req, nil))
}
