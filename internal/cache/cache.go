package cache

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Version is the cache schema version. Bump it when the stored shape
// changes: all previously written entries become unreadable under the new
// prefix and age out without a migration.
const Version = 2

// prefix namespaces every key this package writes. ClearAll only touches
// keys under the current prefix, so data from other schema versions (or
// other tenants of the same store) survives.
var prefix = "fcache:v" + strconv.Itoa(Version) + ":"

// DefaultTTL applies when a caller does not choose a TTL (6 hours, matching
// how often regenerated decks are worth refetching).
const DefaultTTL = 6 * time.Hour

// envelope is the stored shape of every cache entry.
type envelope struct {
	SavedAt int64           `json:"saved_at"` // unix milliseconds
	TTLMs   int64           `json:"ttl_ms"`   // 0 = never expires
	Data    json.RawMessage `json:"data"`
}

// Cache is a namespaced, versioned, TTL key/value cache over a Store.
type Cache struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
	group  singleflight.Group
}

// New creates a Cache over store. A nil logger discards log output.
func New(store Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// nsKey prefixes a caller key with the version namespace.
func nsKey(k string) string {
	return prefix + k
}

// Set serializes data and persists it under key with the given TTL.
// A ttl of 0 means the entry never expires. Persistence failures are
// swallowed: the cache is an optimization, not a system of record.
func (c *Cache) Set(key string, data any, ttl time.Duration) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.logger.Warn("cache set: marshal failed", "key", key, "error", err)
		return
	}
	c.setRaw(key, raw, ttl)
}

// setRaw persists already-serialized payload bytes.
func (c *Cache) setRaw(key string, data json.RawMessage, ttl time.Duration) {
	env := envelope{
		SavedAt: c.now().UnixMilli(),
		TTLMs:   ttl.Milliseconds(),
		Data:    data,
	}
	raw, err := json.Marshal(env)
	if err != nil {
		c.logger.Warn("cache set: marshal envelope failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(nsKey(key), raw); err != nil {
		c.logger.Debug("cache set failed", "key", key, "error", err)
	}
}

// Get returns the payload stored under key, or ok=false if the entry is
// missing, corrupt, or expired. It never returns an error.
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	env, state := c.read(key)
	if state != entryLive {
		return nil, false
	}
	return env.Data, true
}

// GetInto unmarshals the payload stored under key into v. A payload that no
// longer decodes into v counts as a miss.
func (c *Cache) GetInto(key string, v any) bool {
	raw, ok := c.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.logger.Debug("cache get: stale payload shape", "key", key, "error", err)
		return false
	}
	return true
}

type entryState int

const (
	entryAbsent entryState = iota
	entryLive
	entryExpired
)

// read fetches and classifies the entry under key.
func (c *Cache) read(key string) (envelope, entryState) {
	raw, ok, err := c.store.Get(nsKey(key))
	if err != nil {
		c.logger.Debug("cache get failed", "key", key, "error", err)
		return envelope{}, entryAbsent
	}
	if !ok {
		return envelope{}, entryAbsent
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Debug("cache get: corrupt entry", "key", key, "error", err)
		return envelope{}, entryAbsent
	}
	if env.SavedAt == 0 || env.TTLMs < 0 {
		return envelope{}, entryAbsent
	}
	if env.TTLMs > 0 && c.now().UnixMilli()-env.SavedAt >= env.TTLMs {
		return env, entryExpired
	}
	return env, entryLive
}

// Del removes the entry under key. Idempotent; failures are swallowed.
func (c *Cache) Del(key string) {
	if err := c.store.Delete(nsKey(key)); err != nil {
		c.logger.Debug("cache del failed", "key", key, "error", err)
	}
}

// ClearAll removes every entry under the current version prefix and leaves
// keys under any other prefix untouched.
func (c *Cache) ClearAll() {
	keys, err := c.store.Keys()
	if err != nil {
		c.logger.Debug("cache clear: list keys failed", "error", err)
		return
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if err := c.store.Delete(k); err != nil {
			c.logger.Debug("cache clear: delete failed", "key", k, "error", err)
		}
	}
}

// Clear removes the last-deck slot and then every entry under the current
// version prefix.
func (c *Cache) Clear() {
	c.Del(lastDeckKey)
	c.ClearAll()
}
