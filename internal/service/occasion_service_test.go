package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
	"github.com/OpenLiberty/sample-acmegifts/internal/calculator"
	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

// fixedClock pins "today" to 2026-09-01.
func fixedClock() calculator.Today {
	return calculator.Today{Year: 2026, Month: time.September, Day: 1, Weekday: time.Tuesday}
}

func TestOccasionCreate(t *testing.T) {
	store := newFakeOccasionStore()
	svc := NewOccasionService(store, fixedClock)

	occasion, err := svc.Create(context.Background(), sess, models.Occasion{
		Name:        "Birthday",
		Date:        "2026-10-15",
		GroupID:     "g1",
		OrganizerID: "u1",
		RecipientID: "u2",
	}, 25)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if occasion.ID == "" {
		t.Error("expected assigned occasion ID")
	}
	if len(occasion.Contributions) != 1 {
		t.Fatalf("contributions = %d, want organizer seed", len(occasion.Contributions))
	}
	if c := occasion.Contributions[0]; c.UserID != "u1" || c.Amount != 25 {
		t.Errorf("seed contribution = %+v, want u1/25", c)
	}
}

func TestOccasionCreateRejectsPastDate(t *testing.T) {
	svc := NewOccasionService(newFakeOccasionStore(), fixedClock)

	_, err := svc.Create(context.Background(), sess, models.Occasion{
		Date:        "2026-08-31",
		OrganizerID: "u1",
	}, 10)
	if !errors.Is(err, calculator.ErrInvalidDate) {
		t.Errorf("error = %v, want ErrInvalidDate", err)
	}
}

func TestSetContribution(t *testing.T) {
	store := newFakeOccasionStore(models.Occasion{
		ID:   "o1",
		Date: "2026-12-24",
		Contributions: []models.Contribution{
			{UserID: "u1", Amount: 10},
		},
	})
	svc := NewOccasionService(store, fixedClock)

	// New contributor appended.
	occasion, err := svc.SetContribution(context.Background(), sess, "o1", "u2", 4)
	if err != nil {
		t.Fatalf("SetContribution failed: %v", err)
	}
	if len(occasion.Contributions) != 2 {
		t.Fatalf("contributions = %d, want 2", len(occasion.Contributions))
	}

	// Re-submitting replaces, never duplicates.
	occasion, err = svc.SetContribution(context.Background(), sess, "o1", "u2", 9)
	if err != nil {
		t.Fatalf("SetContribution failed: %v", err)
	}
	if len(occasion.Contributions) != 2 {
		t.Fatalf("contributions = %d, want still 2", len(occasion.Contributions))
	}
	if occasion.Contributions[1].Amount != 9 {
		t.Errorf("amount = %v, want latest 9", occasion.Contributions[1].Amount)
	}

	// The stored occasion reflects the update.
	stored, _ := store.Get(context.Background(), sess, "o1")
	if len(stored.Contributions) != 2 || stored.Contributions[1].Amount != 9 {
		t.Errorf("stored contributions = %+v", stored.Contributions)
	}
}

func TestSetContributionRejectsStaleOccasion(t *testing.T) {
	store := newFakeOccasionStore(models.Occasion{ID: "o1", Date: "2025-01-01"})
	svc := NewOccasionService(store, fixedClock)

	_, err := svc.SetContribution(context.Background(), sess, "o1", "u1", 5)
	if !errors.Is(err, calculator.ErrInvalidDate) {
		t.Errorf("error = %v, want ErrInvalidDate", err)
	}
}

func TestOccasionUpdateValidatesDate(t *testing.T) {
	store := newFakeOccasionStore(models.Occasion{ID: "o1", Date: "2026-12-24"})
	svc := NewOccasionService(store, fixedClock)

	err := svc.Update(context.Background(), sess, models.Occasion{ID: "o1", Date: "2020-01-01"})
	if !errors.Is(err, calculator.ErrInvalidDate) {
		t.Errorf("error = %v, want ErrInvalidDate", err)
	}
}

// runResultStore overrides Run to return a fixed result.
type runResultStore struct {
	*fakeOccasionStore
	result models.RunResult
	err    error
}

func (s *runResultStore) Run(ctx context.Context, sess auth.Session, occasion models.Occasion) (models.RunResult, error) {
	return s.result, s.err
}

func TestOccasionRun(t *testing.T) {
	tests := []struct {
		name        string
		result      models.RunResult
		wantMessage string
		wantErr     bool
	}{
		{
			name:        "success message",
			result:      models.RunResult{Success: "Notifications sent."},
			wantMessage: "Notifications sent.",
		},
		{
			name:    "error message",
			result:  models.RunResult{Error: "The recipient has no contact information."},
			wantErr: true,
		},
		{
			name:    "neither message",
			result:  models.RunResult{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &runResultStore{fakeOccasionStore: newFakeOccasionStore(), result: tt.result}
			svc := NewOccasionService(store, fixedClock)

			message, err := svc.Run(context.Background(), sess, models.Occasion{ID: "o1"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if message != tt.wantMessage {
				t.Errorf("message = %q, want %q", message, tt.wantMessage)
			}
			if tt.name == "neither message" && !errors.Is(err, ErrNoRunResponse) {
				t.Errorf("error = %v, want ErrNoRunResponse", err)
			}
		})
	}
}
