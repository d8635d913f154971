// Package models defines the core domain models for Acme Gifts.
//
// # Models
//
//   - User: a registered person, owned by the user microservice
//   - Group: a named collection of user IDs that organizes occasions together
//   - Occasion: a gift event with a target date, an organizer, a recipient,
//     and a list of member contributions
//   - Contribution: one member's pledged amount toward an occasion
//   - GroupContribution: a derived per-group contribution total, recomputed
//     on demand and never persisted
//
// # Design Principles
//
// 1. **No authoritative state**: every entity is owned by a backend
// microservice; values held here are working copies, and any invariant checked
// locally is advisory; the server may still reject with its own validation.
// 2. **Avoid circular references**: relationships are ID strings, not pointers.
// 3. **Wire compatibility**: JSON tags match the field names the backend
// services produce (the occasion service names its ID field "_id", the user
// and group services wrap list responses in "users"/"groups" envelopes).
package models
