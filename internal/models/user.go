package models

// User represents a registered user account.
//
// Users are created through signup, mutated through profile edits, and owned
// by the user microservice. The client caches them transiently at most.
type User struct {
	// ID is the unique identifier for the user, assigned by the server.
	ID string `json:"id"`

	// FirstName is the user's given name.
	FirstName string `json:"firstName"`

	// LastName is the user's family name.
	LastName string `json:"lastName"`

	// UserName is the login name, unique within the system.
	UserName string `json:"userName"`

	// WishListLink is an optional URL to the user's wish list.
	WishListLink string `json:"wishListLink"`

	// TwitterHandle is set for accounts created through Twitter login.
	TwitterHandle string `json:"twitterHandle"`

	// Password is write-only: sent on signup and profile edits, never
	// returned by the server.
	Password string `json:"password,omitempty"`

	// IsTwitterLogin marks accounts that authenticate through Twitter.
	IsTwitterLogin bool `json:"isTwitterLogin"`
}

// Users is the list envelope the user microservice returns.
type Users struct {
	Users []User `json:"users"`
}
