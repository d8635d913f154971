// Package service composes the microservice clients with the pure domain
// logic into the workflows the gateway exposes: group lifecycle, membership
// edits, occasion lifecycle, contribution bookkeeping, and login/signup.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
	"github.com/OpenLiberty/sample-acmegifts/internal/calculator"
	"github.com/OpenLiberty/sample-acmegifts/internal/membership"
	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

// maxGroupNameLength caps group names, matching the group service's limit.
const maxGroupNameLength = 30

var (
	// ErrInvalidName is returned for empty, blank, or over-long group
	// names. The text is user-facing.
	ErrInvalidName = errors.New("Please enter a valid alphanumeric group name. Maximum size: 30 characters.")

	// ErrDuplicateName is returned when the user already owns a group with
	// the requested name (case-insensitive).
	ErrDuplicateName = errors.New("a group with that name already exists")
)

// GroupStore is the slice of the group client the service needs.
type GroupStore interface {
	Get(ctx context.Context, sess auth.Session, id string) (models.Group, error)
	ListForUser(ctx context.Context, sess auth.Session, userID string) ([]models.Group, error)
	Create(ctx context.Context, sess auth.Session, group models.Group) (string, error)
	Update(ctx context.Context, sess auth.Session, id string, group models.Group) error
	Delete(ctx context.Context, sess auth.Session, id string) error
}

// OccasionStore is the slice of the occasion client the service needs.
type OccasionStore interface {
	Get(ctx context.Context, sess auth.Session, id string) (models.Occasion, error)
	ListForGroup(ctx context.Context, sess auth.Session, groupID string) ([]models.Occasion, error)
	Create(ctx context.Context, sess auth.Session, occasion models.Occasion) (string, error)
	Update(ctx context.Context, sess auth.Session, occasion models.Occasion) error
	Delete(ctx context.Context, sess auth.Session, id string) error
	Run(ctx context.Context, sess auth.Session, occasion models.Occasion) (models.RunResult, error)
}

// MemberDirectory resolves member IDs to user records.
type MemberDirectory interface {
	User(ctx context.Context, sess auth.Session, id string) (models.User, error)
	Members(ctx context.Context, sess auth.Session, ids []string) ([]models.User, bool)
}

// GroupService implements the group-facing workflows.
type GroupService struct {
	groups    GroupStore
	occasions OccasionStore
	directory MemberDirectory
}

// NewGroupService creates a GroupService over the given collaborators.
func NewGroupService(groups GroupStore, occasions OccasionStore, directory MemberDirectory) *GroupService {
	return &GroupService{groups: groups, occasions: occasions, directory: directory}
}

// validName trims the candidate name and enforces the non-empty and length
// rules. The cleaned name is returned.
func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxGroupNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

// Create validates the name, rejects duplicates within the creator's group
// set, seeds the member list with the creator, and stores the group.
func (s *GroupService) Create(ctx context.Context, sess auth.Session, name string) (models.Group, error) {
	slog.Info("Create group request", "user_id", sess.UserID, "name", name)

	name, err := validName(name)
	if err != nil {
		return models.Group{}, err
	}

	existing, err := s.groups.ListForUser(ctx, sess, sess.UserID)
	if err != nil {
		slog.Error("Create group failed listing existing groups", "user_id", sess.UserID, "error", err)
		return models.Group{}, fmt.Errorf("failed to list existing groups: %w", err)
	}
	if membership.NameExists(name, existing) {
		slog.Warn("Create group rejected, duplicate name", "user_id", sess.UserID, "name", name)
		return models.Group{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	group := models.Group{Name: name, Members: []string{sess.UserID}}
	id, err := s.groups.Create(ctx, sess, group)
	if err != nil {
		slog.Error("Create group failed", "user_id", sess.UserID, "error", err)
		return models.Group{}, err
	}
	group.ID = id

	slog.Info("Group created", "group_id", id, "name", name)
	return group, nil
}

// List returns the groups the user is a member of.
func (s *GroupService) List(ctx context.Context, sess auth.Session, userID string) ([]models.Group, error) {
	groups, err := s.groups.ListForUser(ctx, sess, userID)
	if err != nil {
		slog.Error("List groups failed", "user_id", userID, "error", err)
		return nil, err
	}
	return groups, nil
}

// Rename validates the new name and updates the stored group. The rename is
// rejected when another of the user's groups already carries the name.
func (s *GroupService) Rename(ctx context.Context, sess auth.Session, groupID, name string) (models.Group, error) {
	slog.Info("Rename group request", "group_id", groupID, "name", name)

	name, err := validName(name)
	if err != nil {
		return models.Group{}, err
	}

	existing, err := s.groups.ListForUser(ctx, sess, sess.UserID)
	if err != nil {
		return models.Group{}, fmt.Errorf("failed to list existing groups: %w", err)
	}
	for _, g := range existing {
		if g.ID != groupID && strings.EqualFold(g.Name, name) {
			return models.Group{}, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}

	group, err := s.groups.Get(ctx, sess, groupID)
	if err != nil {
		slog.Error("Rename group failed fetching group", "group_id", groupID, "error", err)
		return models.Group{}, err
	}

	group.Name = name
	if err := s.groups.Update(ctx, sess, groupID, group); err != nil {
		slog.Error("Rename group failed", "group_id", groupID, "error", err)
		return models.Group{}, err
	}

	slog.Info("Group renamed", "group_id", groupID, "name", name)
	return group, nil
}

// AddMember appends the user to the group's member list. Fails with
// membership.ErrAlreadyMember when the user is already present.
func (s *GroupService) AddMember(ctx context.Context, sess auth.Session, groupID, userID string) (models.Group, error) {
	slog.Info("Add member request", "group_id", groupID, "member_id", userID)

	group, err := s.groups.Get(ctx, sess, groupID)
	if err != nil {
		slog.Error("Add member failed fetching group", "group_id", groupID, "error", err)
		return models.Group{}, err
	}

	updated, err := membership.Add(group, userID)
	if err != nil {
		slog.Warn("Add member rejected", "group_id", groupID, "member_id", userID, "error", err)
		return group, err
	}

	if err := s.groups.Update(ctx, sess, groupID, updated); err != nil {
		slog.Error("Add member failed updating group", "group_id", groupID, "error", err)
		return group, err
	}

	slog.Info("Member added", "group_id", groupID, "member_id", userID, "members_count", len(updated.Members))
	return updated, nil
}

// RemoveMember removes the user from the group's member list, a no-op when
// the user is not a member. The stored group is re-fetched afterwards so the
// caller sees the server's view.
func (s *GroupService) RemoveMember(ctx context.Context, sess auth.Session, groupID, userID string) (models.Group, error) {
	slog.Info("Remove member request", "group_id", groupID, "member_id", userID)

	group, err := s.groups.Get(ctx, sess, groupID)
	if err != nil {
		return models.Group{}, err
	}

	updated := membership.Remove(group, userID)
	if len(updated.Members) == len(group.Members) {
		// Not a member; nothing to store.
		return group, nil
	}

	if err := s.groups.Update(ctx, sess, groupID, updated); err != nil {
		slog.Error("Remove member failed updating group", "group_id", groupID, "error", err)
		return group, err
	}

	refreshed, err := s.groups.Get(ctx, sess, groupID)
	if err != nil {
		slog.Error("Remove member failed refreshing group", "group_id", groupID, "error", err)
		return updated, err
	}

	slog.Info("Member removed", "group_id", groupID, "member_id", userID)
	return refreshed, nil
}

// Delete removes the group.
func (s *GroupService) Delete(ctx context.Context, sess auth.Session, groupID string) error {
	slog.Info("Delete group request", "group_id", groupID)

	if err := s.groups.Delete(ctx, sess, groupID); err != nil {
		slog.Error("Delete group failed", "group_id", groupID, "error", err)
		return err
	}

	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// GroupSummary is the full view of one group: the group itself, its resolved
// members, and its occasions. PartialMembers is set when one or more member
// lookups failed; the summary is still usable.
type GroupSummary struct {
	Group          models.Group      `json:"group"`
	Members        []models.User     `json:"members"`
	PartialMembers bool              `json:"partialMembers"`
	Occasions      []models.Occasion `json:"occasions"`
}

// Summary assembles the group view. Member resolution failures degrade to a
// partial member list rather than failing the whole view.
func (s *GroupService) Summary(ctx context.Context, sess auth.Session, groupID string) (GroupSummary, error) {
	slog.Info("Group summary request", "group_id", groupID)

	group, err := s.groups.Get(ctx, sess, groupID)
	if err != nil {
		slog.Error("Group summary failed fetching group", "group_id", groupID, "error", err)
		return GroupSummary{}, err
	}

	members, partial := s.directory.Members(ctx, sess, group.Members)
	if partial {
		slog.Warn("Group summary resolved only part of the member list",
			"group_id", groupID,
			"resolved", len(members),
			"members_count", len(group.Members),
		)
	}

	occasions, err := s.occasions.ListForGroup(ctx, sess, groupID)
	if err != nil {
		slog.Error("Group summary failed fetching occasions", "group_id", groupID, "error", err)
		return GroupSummary{}, err
	}

	return GroupSummary{
		Group:          group,
		Members:        members,
		PartialMembers: partial,
		Occasions:      occasions,
	}, nil
}

// ContributionReport is one user's contribution totals: a per-group record
// for every group the user belongs to and the grand total across them.
// Partial is set when the occasions of one or more groups could not be
// fetched; those groups count as zero.
type ContributionReport struct {
	Groups  []models.GroupContribution `json:"groups"`
	Total   float64                    `json:"total"`
	Partial bool                       `json:"partial"`
}

// ContributionReport computes the user's per-group and total contributions
// across all groups they belong to.
func (s *GroupService) ContributionReport(ctx context.Context, sess auth.Session, userID string) (ContributionReport, error) {
	slog.Info("Contribution report request", "user_id", userID)

	groups, err := s.groups.ListForUser(ctx, sess, userID)
	if err != nil {
		slog.Error("Contribution report failed listing groups", "user_id", userID, "error", err)
		return ContributionReport{}, err
	}

	byGroup := make(map[string][]models.Occasion, len(groups))
	partial := false
	for _, g := range groups {
		occasions, err := s.occasions.ListForGroup(ctx, sess, g.ID)
		if err != nil {
			slog.Warn("Contribution report missing occasions for group", "group_id", g.ID, "error", err)
			partial = true
			byGroup[g.ID] = nil
			continue
		}
		byGroup[g.ID] = occasions
	}

	records, total := calculator.GroupContributions(byGroup, userID)

	slog.Info("Contribution report computed",
		"user_id", userID,
		"groups_count", len(records),
		"total", total,
		"partial", partial,
	)

	return ContributionReport{Groups: records, Total: total, Partial: partial}, nil
}
