// Package kv is the durable key-value layer under the recovery cache: a
// string-keyed text store scoped to the local device (SQLite) or to a
// user-owned bucket (S3), plus an in-memory variant for tests.
package kv

import "context"

// Repository is a string-keyed text store.
type Repository interface {
	// Get returns the value for key. found is false when the key is absent;
	// that is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Updater is implemented by repositories that can run a read-modify-write on
// a single key atomically. fn receives the current value and returns the new
// one; returning an error aborts the update without writing.
type Updater interface {
	Update(ctx context.Context, key string, fn func(current string, found bool) (string, error)) error
}
