package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
	"github.com/OpenLiberty/sample-acmegifts/internal/membership"
	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

var sess = auth.Session{Token: "Bearer jwt", UserID: "u1", UserName: "maria"}

// fakeGroupStore keeps groups in memory.
type fakeGroupStore struct {
	groups map[string]models.Group
	nextID int
}

func newFakeGroupStore(groups ...models.Group) *fakeGroupStore {
	s := &fakeGroupStore{groups: map[string]models.Group{}}
	for _, g := range groups {
		s.groups[g.ID] = g
	}
	return s
}

func (s *fakeGroupStore) Get(ctx context.Context, sess auth.Session, id string) (models.Group, error) {
	g, ok := s.groups[id]
	if !ok {
		return models.Group{}, errors.New("group not found")
	}
	return g, nil
}

func (s *fakeGroupStore) ListForUser(ctx context.Context, sess auth.Session, userID string) ([]models.Group, error) {
	var out []models.Group
	for _, g := range s.groups {
		for _, m := range g.Members {
			if m == userID {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeGroupStore) Create(ctx context.Context, sess auth.Session, group models.Group) (string, error) {
	s.nextID++
	id := fmt.Sprintf("g%d", s.nextID)
	group.ID = id
	s.groups[id] = group
	return id, nil
}

func (s *fakeGroupStore) Update(ctx context.Context, sess auth.Session, id string, group models.Group) error {
	if _, ok := s.groups[id]; !ok {
		return errors.New("group not found")
	}
	s.groups[id] = group
	return nil
}

func (s *fakeGroupStore) Delete(ctx context.Context, sess auth.Session, id string) error {
	if _, ok := s.groups[id]; !ok {
		return errors.New("group not found")
	}
	delete(s.groups, id)
	return nil
}

// fakeOccasionStore keeps occasions in memory, with optional per-group
// list failures.
type fakeOccasionStore struct {
	occasions map[string]models.Occasion
	listErr   map[string]error
	nextID    int
}

func newFakeOccasionStore(occasions ...models.Occasion) *fakeOccasionStore {
	s := &fakeOccasionStore{occasions: map[string]models.Occasion{}, listErr: map[string]error{}}
	for _, o := range occasions {
		s.occasions[o.ID] = o
	}
	return s
}

func (s *fakeOccasionStore) Get(ctx context.Context, sess auth.Session, id string) (models.Occasion, error) {
	o, ok := s.occasions[id]
	if !ok {
		return models.Occasion{}, errors.New("occasion not found")
	}
	return o, nil
}

func (s *fakeOccasionStore) ListForGroup(ctx context.Context, sess auth.Session, groupID string) ([]models.Occasion, error) {
	if err := s.listErr[groupID]; err != nil {
		return nil, err
	}
	var out []models.Occasion
	for _, o := range s.occasions {
		if o.GroupID == groupID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *fakeOccasionStore) Create(ctx context.Context, sess auth.Session, occasion models.Occasion) (string, error) {
	s.nextID++
	id := fmt.Sprintf("o%d", s.nextID)
	occasion.ID = id
	s.occasions[id] = occasion
	return id, nil
}

func (s *fakeOccasionStore) Update(ctx context.Context, sess auth.Session, occasion models.Occasion) error {
	if _, ok := s.occasions[occasion.ID]; !ok {
		return errors.New("occasion not found")
	}
	s.occasions[occasion.ID] = occasion
	return nil
}

func (s *fakeOccasionStore) Delete(ctx context.Context, sess auth.Session, id string) error {
	delete(s.occasions, id)
	return nil
}

func (s *fakeOccasionStore) Run(ctx context.Context, sess auth.Session, occasion models.Occasion) (models.RunResult, error) {
	return models.RunResult{Success: "Notifications sent."}, nil
}

// fakeDirectory resolves users from a fixed map.
type fakeDirectory struct {
	users map[string]models.User
}

func (d *fakeDirectory) User(ctx context.Context, sess auth.Session, id string) (models.User, error) {
	u, ok := d.users[id]
	if !ok {
		return models.User{}, errors.New("user not found")
	}
	return u, nil
}

func (d *fakeDirectory) Members(ctx context.Context, sess auth.Session, ids []string) ([]models.User, bool) {
	var out []models.User
	partial := false
	for _, id := range ids {
		u, err := d.User(ctx, sess, id)
		if err != nil {
			partial = true
			continue
		}
		out = append(out, u)
	}
	return out, partial
}

func newGroupService(groups *fakeGroupStore, occasions *fakeOccasionStore, users map[string]models.User) *GroupService {
	if users == nil {
		users = map[string]models.User{}
	}
	return NewGroupService(groups, occasions, &fakeDirectory{users: users})
}

func TestGroupCreate(t *testing.T) {
	groups := newFakeGroupStore()
	svc := newGroupService(groups, newFakeOccasionStore(), nil)

	group, err := svc.Create(context.Background(), sess, "Family")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if group.ID == "" {
		t.Error("expected assigned group ID")
	}
	if len(group.Members) != 1 || group.Members[0] != "u1" {
		t.Errorf("members = %v, want creator seeded", group.Members)
	}
}

func TestGroupCreateValidation(t *testing.T) {
	tests := []struct {
		name      string
		groupName string
		wantErr   error
	}{
		{"blank name", "   ", ErrInvalidName},
		{"empty name", "", ErrInvalidName},
		{"over thirty characters", "a very long group name that goes on and on", ErrInvalidName},
	}

	svc := newGroupService(newFakeGroupStore(), newFakeOccasionStore(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), sess, tt.groupName); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGroupCreateDuplicateName(t *testing.T) {
	groups := newFakeGroupStore(models.Group{ID: "g1", Name: "Family", Members: []string{"u1"}})
	svc := newGroupService(groups, newFakeOccasionStore(), nil)

	if _, err := svc.Create(context.Background(), sess, "fAmIlY"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("error = %v, want ErrDuplicateName", err)
	}
}

func TestGroupCreateTrimsName(t *testing.T) {
	svc := newGroupService(newFakeGroupStore(), newFakeOccasionStore(), nil)

	group, err := svc.Create(context.Background(), sess, "  Family  ")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if group.Name != "Family" {
		t.Errorf("name = %q, want trimmed", group.Name)
	}
}

func TestGroupRename(t *testing.T) {
	groups := newFakeGroupStore(
		models.Group{ID: "g1", Name: "Family", Members: []string{"u1"}},
		models.Group{ID: "g2", Name: "Work", Members: []string{"u1"}},
	)
	svc := newGroupService(groups, newFakeOccasionStore(), nil)

	group, err := svc.Rename(context.Background(), sess, "g1", "Extended Family")
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if group.Name != "Extended Family" {
		t.Errorf("name = %q", group.Name)
	}

	// Renaming onto another group's name is rejected.
	if _, err := svc.Rename(context.Background(), sess, "g1", "work"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("error = %v, want ErrDuplicateName", err)
	}

	// Re-saving a group under its own name is fine.
	if _, err := svc.Rename(context.Background(), sess, "g1", "extended family"); err != nil {
		t.Errorf("same-group rename failed: %v", err)
	}
}

func TestGroupAddMember(t *testing.T) {
	groups := newFakeGroupStore(models.Group{ID: "g1", Name: "Family", Members: []string{"u1", "u2"}})
	svc := newGroupService(groups, newFakeOccasionStore(), nil)

	group, err := svc.AddMember(context.Background(), sess, "g1", "u3")
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if len(group.Members) != 3 || group.Members[2] != "u3" {
		t.Errorf("members = %v, want u3 appended", group.Members)
	}

	// Adding an existing member is rejected and the stored group is
	// untouched.
	if _, err := svc.AddMember(context.Background(), sess, "g1", "u2"); !errors.Is(err, membership.ErrAlreadyMember) {
		t.Errorf("error = %v, want ErrAlreadyMember", err)
	}
	stored, _ := groups.Get(context.Background(), sess, "g1")
	if len(stored.Members) != 3 {
		t.Errorf("stored members = %v, want unchanged", stored.Members)
	}
}

func TestGroupRemoveMember(t *testing.T) {
	groups := newFakeGroupStore(models.Group{ID: "g1", Name: "Family", Members: []string{"u1", "u2", "u3"}})
	svc := newGroupService(groups, newFakeOccasionStore(), nil)

	group, err := svc.RemoveMember(context.Background(), sess, "g1", "u2")
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if len(group.Members) != 2 {
		t.Errorf("members = %v, want 2", group.Members)
	}

	// Removing a non-member is a no-op.
	group, err = svc.RemoveMember(context.Background(), sess, "g1", "u9")
	if err != nil {
		t.Fatalf("RemoveMember no-op failed: %v", err)
	}
	if len(group.Members) != 2 {
		t.Errorf("members = %v, want unchanged", group.Members)
	}
}

func TestGroupSummary(t *testing.T) {
	groups := newFakeGroupStore(models.Group{ID: "g1", Name: "Family", Members: []string{"u1", "u2"}})
	occasions := newFakeOccasionStore(models.Occasion{ID: "o1", GroupID: "g1", Name: "Birthday"})
	users := map[string]models.User{
		"u1": {ID: "u1", UserName: "maria"},
		// u2 missing: lookup fails.
	}
	svc := newGroupService(groups, occasions, users)

	summary, err := svc.Summary(context.Background(), sess, "g1")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if !summary.PartialMembers {
		t.Error("expected PartialMembers with one failing lookup")
	}
	if len(summary.Members) != 1 || summary.Members[0].ID != "u1" {
		t.Errorf("members = %+v, want just u1", summary.Members)
	}
	if len(summary.Occasions) != 1 || summary.Occasions[0].ID != "o1" {
		t.Errorf("occasions = %+v, want o1", summary.Occasions)
	}
}

func TestContributionReport(t *testing.T) {
	groups := newFakeGroupStore(
		models.Group{ID: "g1", Name: "Family", Members: []string{"u1", "u2"}},
		models.Group{ID: "g2", Name: "Work", Members: []string{"u1"}},
	)
	occasions := newFakeOccasionStore(
		models.Occasion{ID: "o1", GroupID: "g1", Contributions: []models.Contribution{{UserID: "u1", Amount: 10}}},
		models.Occasion{ID: "o2", GroupID: "g1", Contributions: []models.Contribution{{UserID: "u1", Amount: 5}, {UserID: "u2", Amount: 3}}},
		models.Occasion{ID: "o3", GroupID: "g2", Contributions: []models.Contribution{{UserID: "u1", Amount: 7}}},
	)
	svc := newGroupService(groups, occasions, nil)

	report, err := svc.ContributionReport(context.Background(), sess, "u1")
	if err != nil {
		t.Fatalf("ContributionReport failed: %v", err)
	}

	if report.Total != 22 {
		t.Errorf("total = %v, want 22", report.Total)
	}
	if report.Partial {
		t.Error("unexpected partial flag")
	}
	if len(report.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(report.Groups))
	}
	if report.Groups[0].GroupID != "g1" || report.Groups[0].Amount != 15 {
		t.Errorf("g1 record = %+v, want 15", report.Groups[0])
	}
	if report.Groups[1].GroupID != "g2" || report.Groups[1].Amount != 7 {
		t.Errorf("g2 record = %+v, want 7", report.Groups[1])
	}
}

func TestContributionReportPartialFetch(t *testing.T) {
	groups := newFakeGroupStore(
		models.Group{ID: "g1", Name: "Family", Members: []string{"u1"}},
		models.Group{ID: "g2", Name: "Work", Members: []string{"u1"}},
	)
	occasions := newFakeOccasionStore(
		models.Occasion{ID: "o1", GroupID: "g1", Contributions: []models.Contribution{{UserID: "u1", Amount: 10}}},
	)
	occasions.listErr["g2"] = errors.New("occasion service unavailable")
	svc := newGroupService(groups, occasions, nil)

	report, err := svc.ContributionReport(context.Background(), sess, "u1")
	if err != nil {
		t.Fatalf("ContributionReport failed: %v", err)
	}

	if !report.Partial {
		t.Error("expected partial flag with one failing group")
	}
	if report.Total != 10 {
		t.Errorf("total = %v, want 10 (failing group counts as zero)", report.Total)
	}
	if len(report.Groups) != 2 {
		t.Errorf("groups = %d, want 2 (failing group still reported)", len(report.Groups))
	}
}
