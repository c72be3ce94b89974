// Package storage holds the key/value slots a signed-in browser (or CLI)
// persists between requests. Implementations: Cookie (signed cookie via
// gin-contrib/sessions), Redis, Memory (go-cache) and File (CLI).
package storage

import (
	"context"
	"errors"
)

// ErrStoreUnavailable wraps backend failures of a Store.
var ErrStoreUnavailable = errors.New("session storage unavailable")

// Store is a small string key/value space scoped to one browser or user.
// Writes are last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
