// Package directory resolves group member IDs to user records. Lookups fan
// out concurrently and settle independently: one failing member never blocks
// or aborts the others, the caller just learns that the result is partial.
// Resolved users are cached transiently with a TTL; the user microservice
// stays the source of truth.
package directory

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/OpenLiberty/sample-acmegifts/internal/auth"
	"github.com/OpenLiberty/sample-acmegifts/internal/models"
)

// LookupFunc fetches a single user by ID.
type LookupFunc func(ctx context.Context, id string) (models.User, error)

// ResolveAll looks up every ID concurrently and collects the successes.
// partial is true when at least one lookup failed. Result order follows
// completion, not input order.
func ResolveAll(ctx context.Context, ids []string, lookup LookupFunc) (users []models.User, partial bool) {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			user, err := lookup(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				return
			}
			users = append(users, user)
		}(id)
	}
	wg.Wait()

	return users, failed > 0
}

// UserSource is the slice of the user client the directory needs.
type UserSource interface {
	Get(ctx context.Context, sess auth.Session, id string) (models.User, error)
	List(ctx context.Context, sess auth.Session) ([]models.User, error)
}

// Directory is a read-through user resolver with a transient TTL cache.
type Directory struct {
	users UserSource
	cache *gocache.Cache
}

// New creates a Directory over the given user source. Entries expire after
// ttl and are swept at twice that interval.
func New(users UserSource, ttl time.Duration) *Directory {
	return &Directory{
		users: users,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// User returns a single user, from cache when fresh.
func (d *Directory) User(ctx context.Context, sess auth.Session, id string) (models.User, error) {
	if cached, ok := d.cache.Get(id); ok {
		return cached.(models.User), nil
	}

	user, err := d.users.Get(ctx, sess, id)
	if err != nil {
		return models.User{}, err
	}

	d.cache.SetDefault(user.ID, user)
	return user, nil
}

// Members resolves a group's member IDs through the cache. partial is true
// when at least one member could not be retrieved.
func (d *Directory) Members(ctx context.Context, sess auth.Session, ids []string) (users []models.User, partial bool) {
	return ResolveAll(ctx, ids, func(ctx context.Context, id string) (models.User, error) {
		return d.User(ctx, sess, id)
	})
}

// All lists every registered user, refreshing the cache with the results.
func (d *Directory) All(ctx context.Context, sess auth.Session) ([]models.User, error) {
	users, err := d.users.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		d.cache.SetDefault(user.ID, user)
	}
	return users, nil
}
