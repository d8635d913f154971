// Package calculator holds the pure domain logic of Acme Gifts: occasion
// date validation and contribution bookkeeping. Nothing in this package
// performs I/O; callers pass in already-fetched values and receive new
// values back, so concurrent use needs no synchronization.
package calculator

import (
	"sort"

	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

// UserContribution returns the amount the given user pledged toward the
// occasion, or 0 when the user has no contribution entry. At most one entry
// per user exists, so the first match wins.
func UserContribution(o models.Occasion, userID string) float64 {
	for _, c := range o.Contributions {
		if c.UserID == userID {
			return c.Amount
		}
	}
	return 0
}

// TotalContribution sums the user's contributions across all given
// occasions. Occasions without a matching entry contribute 0. Addition is
// commutative, so the result is independent of occasion order.
func TotalContribution(occasions []models.Occasion, userID string) float64 {
	var total float64
	for _, o := range occasions {
		total += UserContribution(o, userID)
	}
	return total
}

// GroupContributions computes one GroupContribution record per group for the
// given user, plus the grand total across all groups. Groups without any
// matching contribution still produce a record with amount 0. Records are
// sorted by group ID so the output is deterministic.
func GroupContributions(occasionsByGroup map[string][]models.Occasion, userID string) ([]models.GroupContribution, float64) {
	records := make([]models.GroupContribution, 0, len(occasionsByGroup))
	var grandTotal float64

	for groupID, occasions := range occasionsByGroup {
		total := TotalContribution(occasions, userID)
		records = append(records, models.GroupContribution{GroupID: groupID, Amount: total})
		grandTotal += total
	}

	sort.Slice(records, func(i, j int) bool { return records[i].GroupID < records[j].GroupID })

	return records, grandTotal
}

// UpsertContribution returns a copy of the occasion in which the user's
// contribution is set to amount. An existing entry is replaced in place,
// keeping its position; otherwise a new entry is appended. The input
// occasion is not modified, and the result holds exactly one entry for the
// user.
func UpsertContribution(o models.Occasion, userID string, amount float64) models.Occasion {
	contributions := make([]models.Contribution, len(o.Contributions))
	copy(contributions, o.Contributions)

	updated := false
	for i := range contributions {
		if contributions[i].UserID == userID {
			contributions[i].Amount = amount
			updated = true
			break
		}
	}
	if !updated {
		contributions = append(contributions, models.Contribution{UserID: userID, Amount: amount})
	}

	o.Contributions = contributions
	return o
}
