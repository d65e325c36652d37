package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchColdThenWarm(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	var calls int
	fetcher := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	got, err := Fetch(ctx, c, "hand", time.Minute, false, fetcher)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "a" {
		t.Errorf("cold fetch returned %v", got)
	}
	if calls != 1 {
		t.Fatalf("cold fetch should call the fetcher once, got %d", calls)
	}

	got, err = Fetch(ctx, c, "hand", time.Minute, false, fetcher)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("warm fetch returned %v", got)
	}
	if calls != 1 {
		t.Errorf("warm fetch must not call the fetcher again, got %d calls", calls)
	}
}

func TestFetchAfterExpiryRefetches(t *testing.T) {
	c, _, clock := newTestCache(t)
	ctx := context.Background()

	var calls int
	fetcher := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	if _, err := Fetch(ctx, c, "k", time.Minute, false, fetcher); err != nil {
		t.Fatal(err)
	}
	clock.Advance(2 * time.Minute)

	got, err := Fetch(ctx, c, "k", time.Minute, false, fetcher)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("expired entry should trigger a refetch, got %d calls", calls)
	}
	if got != 2 {
		t.Errorf("got stale value %d after expiry", got)
	}
}

func TestFetchForceBypassesLiveEntry(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	var calls int
	fetcher := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "first", nil
		}
		return "second", nil
	}

	if _, err := Fetch(ctx, c, "k", time.Minute, false, fetcher); err != nil {
		t.Fatal(err)
	}
	got, err := Fetch(ctx, c, "k", time.Minute, true, fetcher)
	if err != nil {
		t.Fatal(err)
	}
	if got != "second" {
		t.Errorf("force refresh returned %q, want %q", got, "second")
	}

	// The forced result replaces the cached entry.
	got, err = Fetch(ctx, c, "k", time.Minute, false, fetcher)
	if err != nil {
		t.Fatal(err)
	}
	if got != "second" || calls != 2 {
		t.Errorf("after force, cache should hold the new value: got %q, %d calls", got, calls)
	}
}

func TestFetchErrorPropagatesAndCachesNothing(t *testing.T) {
	c, store, _ := newTestCache(t)
	ctx := context.Background()

	wantErr := errors.New("backend unreachable")
	_, err := Fetch(ctx, c, "k", time.Minute, false, func(ctx context.Context) (string, error) {
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want the fetcher's error", err)
	}
	if store.Len() != 0 {
		t.Error("a failed fetch must not write a cache entry")
	}

	// A later successful fetch works normally.
	got, err := Fetch(ctx, c, "k", time.Minute, false, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Errorf("got %q, %v after recovery", got, err)
	}
}

func TestFetchConcurrentCallsCoalesce(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	var calls atomic.Int64
	release := make(chan struct{})
	fetcher := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "value", nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Fetch(ctx, c, "shared", time.Minute, false, fetcher)
		}(i)
	}

	// Let every goroutine reach the singleflight barrier before releasing
	// the one in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("concurrent callers should share one fetch, got %d", got)
	}
	for i := 0; i < n; i++ {
		if errs[i] != nil || results[i] != "value" {
			t.Errorf("caller %d: got %q, %v", i, results[i], errs[i])
		}
	}
}
