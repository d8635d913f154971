// Package membership holds the pure group-membership rules: adding and
// removing members and checking group-name uniqueness. All functions return
// new Group values and never modify their inputs, so callers can retry or
// discard an edit without touching the copy they already hold.
package membership

import (
	"errors"
	"strings"

	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

// ErrAlreadyMember is returned when a candidate user is already present in
// the group's member list.
var ErrAlreadyMember = errors.New("user is already a member of this group")

// Add returns a copy of the group with userID appended to the member list.
// Existing member order is preserved. Fails with ErrAlreadyMember when the
// user is already present; the input group is returned unchanged in that
// case so callers can keep using it.
func Add(g models.Group, userID string) (models.Group, error) {
	for _, id := range g.Members {
		if id == userID {
			return g, ErrAlreadyMember
		}
	}

	members := make([]string, 0, len(g.Members)+1)
	members = append(members, g.Members...)
	members = append(members, userID)

	g.Members = members
	return g, nil
}

// Remove returns a copy of the group with the first occurrence of userID
// removed from the member list. When the user is not a member the group is
// returned as-is.
func Remove(g models.Group, userID string) models.Group {
	for i, id := range g.Members {
		if id == userID {
			members := make([]string, 0, len(g.Members)-1)
			members = append(members, g.Members[:i]...)
			members = append(members, g.Members[i+1:]...)
			g.Members = members
			return g
		}
	}
	return g
}

// NameExists reports whether any of the given groups already carries the
// candidate name, compared case-insensitively. Used before create and rename
// to reject duplicates.
func NameExists(name string, groups []models.Group) bool {
	for _, g := range groups {
		if strings.EqualFold(g.Name, name) {
			return true
		}
	}
	return false
}
