package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
	"github.com/OpenLiberty/sample-acmegifts/internal/calculator"
	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

// ErrNoRunResponse is returned when the occasion service answers a run
// request with neither a success nor an error message. The text is
// user-facing.
var ErrNoRunResponse = errors.New("Notification request did not return a valid response.")

// OccasionService implements the occasion-facing workflows.
type OccasionService struct {
	occasions OccasionStore
	clock     calculator.Clock
}

// NewOccasionService creates an OccasionService. clock supplies "today" for
// date validation; pass calculator.SystemClock outside of tests.
func NewOccasionService(occasions OccasionStore, clock calculator.Clock) *OccasionService {
	return &OccasionService{occasions: occasions, clock: clock}
}

// Create validates the occasion date, seeds the contribution list with the
// organizer's pledge, and stores the occasion. The assigned ID is set on the
// returned value.
func (s *OccasionService) Create(ctx context.Context, sess auth.Session, occasion models.Occasion, organizerAmount float64) (models.Occasion, error) {
	slog.Info("Create occasion request",
		"group_id", occasion.GroupID,
		"organizer_id", occasion.OrganizerID,
		"date", occasion.Date,
	)

	if err := calculator.ValidateOccasionDate(occasion.Date, s.clock()); err != nil {
		slog.Warn("Create occasion rejected, invalid date", "date", occasion.Date)
		return models.Occasion{}, err
	}

	occasion.Contributions = []models.Contribution{
		{UserID: occasion.OrganizerID, Amount: organizerAmount},
	}

	id, err := s.occasions.Create(ctx, sess, occasion)
	if err != nil {
		slog.Error("Create occasion failed", "group_id", occasion.GroupID, "error", err)
		return models.Occasion{}, err
	}
	occasion.ID = id

	slog.Info("Occasion created", "occasion_id", id, "group_id", occasion.GroupID)
	return occasion, nil
}

// SetContribution fetches the occasion, re-validates its date, upserts the
// user's contribution, and stores the result. Exactly one entry per user
// remains afterwards.
func (s *OccasionService) SetContribution(ctx context.Context, sess auth.Session, occasionID, userID string, amount float64) (models.Occasion, error) {
	slog.Info("Set contribution request", "occasion_id", occasionID, "user_id", userID, "amount", amount)

	occasion, err := s.occasions.Get(ctx, sess, occasionID)
	if err != nil {
		slog.Error("Set contribution failed fetching occasion", "occasion_id", occasionID, "error", err)
		return models.Occasion{}, err
	}

	if err := calculator.ValidateOccasionDate(occasion.Date, s.clock()); err != nil {
		slog.Warn("Set contribution rejected, occasion date invalid", "occasion_id", occasionID, "date", occasion.Date)
		return models.Occasion{}, err
	}

	updated := calculator.UpsertContribution(occasion, userID, amount)
	if err := s.occasions.Update(ctx, sess, updated); err != nil {
		slog.Error("Set contribution failed updating occasion", "occasion_id", occasionID, "error", err)
		return models.Occasion{}, err
	}

	slog.Info("Contribution recorded", "occasion_id", occasionID, "user_id", userID)
	return updated, nil
}

// Update validates the changed occasion's date and stores it. Used by the
// organizer for edits beyond their own contribution.
func (s *OccasionService) Update(ctx context.Context, sess auth.Session, occasion models.Occasion) error {
	slog.Info("Update occasion request", "occasion_id", occasion.ID)

	if err := calculator.ValidateOccasionDate(occasion.Date, s.clock()); err != nil {
		slog.Warn("Update occasion rejected, invalid date", "occasion_id", occasion.ID, "date", occasion.Date)
		return err
	}

	if err := s.occasions.Update(ctx, sess, occasion); err != nil {
		slog.Error("Update occasion failed", "occasion_id", occasion.ID, "error", err)
		return err
	}

	slog.Info("Occasion updated", "occasion_id", occasion.ID)
	return nil
}

// Get retrieves a single occasion.
func (s *OccasionService) Get(ctx context.Context, sess auth.Session, id string) (models.Occasion, error) {
	return s.occasions.Get(ctx, sess, id)
}

// ListForGroup retrieves the group's occasions.
func (s *OccasionService) ListForGroup(ctx context.Context, sess auth.Session, groupID string) ([]models.Occasion, error) {
	return s.occasions.ListForGroup(ctx, sess, groupID)
}

// Delete removes the occasion.
func (s *OccasionService) Delete(ctx context.Context, sess auth.Session, id string) error {
	slog.Info("Delete occasion request", "occasion_id", id)

	if err := s.occasions.Delete(ctx, sess, id); err != nil {
		slog.Error("Delete occasion failed", "occasion_id", id, "error", err)
		return err
	}

	slog.Info("Occasion deleted", "occasion_id", id)
	return nil
}

// Run triggers the occasion's notification dispatch and interprets the
// service's success/error message pair. A response carrying neither message
// is reported as ErrNoRunResponse.
func (s *OccasionService) Run(ctx context.Context, sess auth.Session, occasion models.Occasion) (string, error) {
	slog.Info("Run occasion request", "occasion_id", occasion.ID)

	result, err := s.occasions.Run(ctx, sess, occasion)
	if err != nil {
		slog.Error("Run occasion failed", "occasion_id", occasion.ID, "error", err)
		return "", err
	}

	if result.Success == "" {
		if result.Error == "" {
			slog.Error("Run occasion returned neither success nor error", "occasion_id", occasion.ID)
			return "", ErrNoRunResponse
		}
		slog.Warn("Run occasion reported an error", "occasion_id", occasion.ID, "run_error", result.Error)
		return "", errors.New(result.Error)
	}

	slog.Info("Occasion ran", "occasion_id", occasion.ID, "run_success", result.Success)
	return result.Success, nil
}
