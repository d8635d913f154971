package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

// OccasionClient talks to the occasion microservice.
type OccasionClient struct {
	base
}

// NewOccasionClient creates a client for the occasion service at the given
// URL.
func NewOccasionClient(serviceURL string, httpClient *http.Client) *OccasionClient {
	return &OccasionClient{base: newBase(serviceURL, httpClient)}
}

// Get retrieves an occasion by ID.
func (c *OccasionClient) Get(ctx context.Context, sess auth.Session, id string) (models.Occasion, error) {
	req, err := c.request(ctx, http.MethodGet, id, sess.Token, nil)
	if err != nil {
		return models.Occasion{}, err
	}

	var occasion models.Occasion
	if err := c.do(req, &occasion); err != nil {
		return models.Occasion{}, err
	}
	return occasion, nil
}

// ListForGroup retrieves every occasion belonging to the group.
func (c *OccasionClient) ListForGroup(ctx context.Context, sess auth.Session, groupID string) ([]models.Occasion, error) {
	req, err := c.request(ctx, http.MethodGet, "?groupId="+url.QueryEscape(groupID), sess.Token, nil)
	if err != nil {
		return nil, err
	}

	var occasions []models.Occasion
	if err := c.do(req, &occasions); err != nil {
		return nil, err
	}
	return occasions, nil
}

// Create stores a new occasion and returns its assigned ID (the service
// reports it as "_id").
func (c *OccasionClient) Create(ctx context.Context, sess auth.Session, occasion models.Occasion) (string, error) {
	req, err := c.request(ctx, http.MethodPost, "", sess.Token, occasion)
	if err != nil {
		return "", err
	}

	var body struct {
		ID string `json:"_id"`
	}
	if err := c.do(req, &body); err != nil {
		return "", err
	}
	return body.ID, nil
}

// Update replaces the stored occasion under its ID.
func (c *OccasionClient) Update(ctx context.Context, sess auth.Session, occasion models.Occasion) error {
	req, err := c.request(ctx, http.MethodPut, occasion.ID, sess.Token, occasion)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Delete removes the occasion.
func (c *OccasionClient) Delete(ctx context.Context, sess auth.Session, id string) error {
	req, err := c.request(ctx, http.MethodDelete, id, sess.Token, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Run triggers the occasion's server-side notification dispatch. The service
// answers with a success/error message pair rather than an HTTP error.
func (c *OccasionClient) Run(ctx context.Context, sess auth.Session, occasion models.Occasion) (models.RunResult, error) {
	req, err := c.request(ctx, http.MethodPost, "run/", sess.Token, occasion)
	if err != nil {
		return models.RunResult{}, err
	}

	var result models.RunResult
	if err := c.do(req, &result); err != nil {
		return models.RunResult{}, err
	}
	return result, nil
}
