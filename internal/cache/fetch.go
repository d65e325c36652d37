package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Fetcher performs the actual network request on a cache miss.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Fetch is the fetch-through-cache entry point screens use instead of
// calling the backend directly.
//
// With force false and a live entry under key, the cached value is returned
// and the fetcher is not invoked. Otherwise the fetcher runs, its result is
// written to the cache with the given TTL, and the result is returned.
// Fetcher errors propagate to the caller unmodified and nothing is cached.
//
// Concurrent calls for the same key share a single in-flight fetch: late
// arrivals wait for the first caller's result instead of issuing their own
// request. Every waiter decodes its own copy of the fetched payload, so no
// two callers alias the same value.
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, force bool, fetcher Fetcher[T]) (T, error) {
	var zero T

	if !force {
		var cached T
		if c.GetInto(key, &cached) {
			return cached, nil
		}
	}

	raw, err, _ := c.group.Do(key, func() (any, error) {
		v, err := fetcher(ctx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		c.setRaw(key, b, ttl)
		return json.RawMessage(b), nil
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(raw.(json.RawMessage), &out); err != nil {
		return zero, err
	}
	return out, nil
}
