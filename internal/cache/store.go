// Package cache memoizes expensive backend fetches in a local key/value
// store with per-entry TTLs, and persists small pieces of session metadata
// (last built deck, per-deck study template) across restarts.
//
// Every failure of the underlying store degrades to a cache miss or a write
// no-op: caching is an optimization, never a source of user-visible errors.
// The only errors that escape this package are those returned by a
// caller-supplied fetcher in Fetch.
package cache

// Store is the persistent key/value substrate the cache writes through.
// Implementations must treat each Set as a complete overwrite of the key.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)

	// Set stores value under key, replacing any prior value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys returns all stored keys, across every namespace.
	Keys() ([]string, error)
}
