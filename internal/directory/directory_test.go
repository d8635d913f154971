package directory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

func TestResolveAll(t *testing.T) {
	lookup := func(ctx context.Context, id string) (models.User, error) {
		if id == "u2" {
			return models.User{}, errors.New("user service unavailable")
		}
		return models.User{ID: id, UserName: "name-" + id}, nil
	}

	users, partial := ResolveAll(context.Background(), []string{"u1", "u2", "u3"}, lookup)

	if !partial {
		t.Error("expected partial = true with one failing lookup")
	}
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}
	seen := map[string]bool{}
	for _, u := range users {
		seen[u.ID] = true
	}
	if !seen["u1"] || !seen["u3"] || seen["u2"] {
		t.Errorf("unexpected resolved set: %v", seen)
	}
}

func TestResolveAllNoFailures(t *testing.T) {
	lookup := func(ctx context.Context, id string) (models.User, error) {
		return models.User{ID: id}, nil
	}

	users, partial := ResolveAll(context.Background(), []string{"u1", "u2"}, lookup)
	if partial {
		t.Error("expected partial = false")
	}
	if len(users) != 2 {
		t.Errorf("users = %d, want 2", len(users))
	}
}

func TestResolveAllEmpty(t *testing.T) {
	users, partial := ResolveAll(context.Background(), nil, func(ctx context.Context, id string) (models.User, error) {
		t.Error("lookup called for empty id list")
		return models.User{}, nil
	})
	if partial || len(users) != 0 {
		t.Errorf("users = %v partial = %v, want empty and false", users, partial)
	}
}

// fakeSource counts calls so cache hits are observable.
type fakeSource struct {
	calls atomic.Int64
	fail  map[string]bool
}

func (f *fakeSource) Get(ctx context.Context, sess auth.Session, id string) (models.User, error) {
	f.calls.Add(1)
	if f.fail[id] {
		return models.User{}, errors.New("user service unavailable")
	}
	return models.User{ID: id, UserName: "name-" + id}, nil
}

func (f *fakeSource) List(ctx context.Context, sess auth.Session) ([]models.User, error) {
	f.calls.Add(1)
	return []models.User{{ID: "u1"}, {ID: "u2"}}, nil
}

func TestDirectoryCachesUsers(t *testing.T) {
	source := &fakeSource{}
	d := New(source, time.Minute)
	sess := auth.Session{Token: "t"}

	for i := 0; i < 3; i++ {
		user, err := d.User(context.Background(), sess, "u1")
		if err != nil {
			t.Fatalf("User failed: %v", err)
		}
		if user.UserName != "name-u1" {
			t.Errorf("unexpected user: %+v", user)
		}
	}

	if got := source.calls.Load(); got != 1 {
		t.Errorf("backend calls = %d, want 1 (cache hits after first)", got)
	}
}

func TestDirectoryMembersPartialFailure(t *testing.T) {
	source := &fakeSource{fail: map[string]bool{"u2": true}}
	d := New(source, time.Minute)

	users, partial := d.Members(context.Background(), auth.Session{}, []string{"u1", "u2", "u3"})
	if !partial {
		t.Error("expected partial = true")
	}
	if len(users) != 2 {
		t.Errorf("users = %d, want 2", len(users))
	}
}

func TestDirectoryAllPrimesCache(t *testing.T) {
	source := &fakeSource{}
	d := New(source, time.Minute)
	sess := auth.Session{}

	if _, err := d.All(context.Background(), sess); err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if _, err := d.User(context.Background(), sess, "u1"); err != nil {
		t.Fatalf("User failed: %v", err)
	}

	// One List call, no Get call: u1 was primed by All.
	if got := source.calls.Load(); got != 1 {
		t.Errorf("backend calls = %d, want 1", got)
	}
}
