package models

// Occasion represents a gift event: a group marks a date on which a gift is
// given to a recipient, and members pledge contributions toward it.
type Occasion struct {
	// ID is the unique identifier for the occasion. The occasion service
	// names this field "_id" on the wire.
	ID string `json:"_id"`

	// Name is the display name of the occasion (e.g., "Maria's birthday").
	Name string `json:"name"`

	// Date is the event date in "YYYY-MM-DD" form. It must not be in the
	// past at creation or edit time.
	Date string `json:"date"`

	// GroupID is the group this occasion belongs to.
	GroupID string `json:"groupId"`

	// OrganizerID is the user who created the occasion. Only the organizer
	// may edit fields other than their own contribution.
	OrganizerID string `json:"organizerId"`

	// RecipientID is the user receiving the gift, typically a
	// non-contributing member of the group.
	RecipientID string `json:"recipientId"`

	// Contributions holds at most one entry per user ID. Re-submitting
	// updates the existing entry in place.
	Contributions []Contribution `json:"contributions"`
}

// Contribution records one member's pledged amount toward an occasion.
type Contribution struct {
	// UserID is the contributing user.
	UserID string `json:"userId"`

	// Amount is the pledged amount. Never negative.
	Amount float64 `json:"amount"`
}

// GroupContribution is a derived record: one user's summed contribution
// across all occasions of a single group. Recomputed on demand, not persisted.
type GroupContribution struct {
	// GroupID is the group the total was computed for.
	GroupID string `json:"groupId"`

	// Amount is the summed contribution of the user across the group's
	// occasions.
	Amount float64 `json:"contribution"`
}

// RunResult is the message pair the occasion service returns when an
// occasion's notification dispatch is triggered. Exactly one of the two
// fields is expected to be set.
type RunResult struct {
	Success string `json:"runSuccess"`
	Error   string `json:"runError"`
}
