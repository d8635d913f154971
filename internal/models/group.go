package models

// Group represents a named collection of users that organizes occasions
// together. The creator's ID is always seeded into Members at creation.
type Group struct {
	// ID is the unique identifier for the group, assigned by the server.
	ID string `json:"id"`

	// Name is the display name. Non-empty, at most 30 characters, and
	// unique (case-insensitive) within the owning user's set of groups.
	Name string `json:"name"`

	// Members is the ordered list of member user IDs. Each ID appears
	// at most once.
	Members []string `json:"members"`
}

// Groups is the list envelope the group microservice returns.
type Groups struct {
	Groups []Group `json:"groups"`
}
