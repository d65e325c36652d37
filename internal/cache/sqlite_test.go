package cache

import (
	"path/filepath"
	"sort"
	"testing"
)

func openTestDB(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteSetGetDelete(t *testing.T) {
	store := openTestDB(t)

	if _, ok, err := store.Get("k"); err != nil || ok {
		t.Fatalf("fresh db: ok=%v err=%v", ok, err)
	}

	if err := store.Set("k", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	got, ok, err := store.Get("k")
	if err != nil || !ok || string(got) != "v1" {
		t.Fatalf("got %q ok=%v err=%v", got, ok, err)
	}

	// Upsert replaces the value in place.
	if err := store.Set("k", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	got, _, _ = store.Get("k")
	if string(got) != "v2" {
		t.Errorf("got %q after overwrite, want v2", got)
	}

	if err := store.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get("k"); ok {
		t.Error("deleted key should be absent")
	}
	if err := store.Delete("k"); err != nil {
		t.Errorf("deleting an absent key should be a no-op, got %v", err)
	}
}

func TestSQLiteKeys(t *testing.T) {
	store := openTestDB(t)

	want := []string{"a", "b", "c"}
	for _, k := range want {
		if err := store.Set(k, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(keys)
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], k)
		}
	}
}

func TestSQLiteReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set("k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	got, ok, err := store.Get("k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("reopened db: got %q ok=%v err=%v", got, ok, err)
	}
}

func TestSQLiteBackedCache(t *testing.T) {
	store := openTestDB(t)
	c := New(store, nil)

	c.Set("k", map[string]int{"n": 7}, 0)

	var got map[string]int
	if !c.GetInto("k", &got) || got["n"] != 7 {
		t.Errorf("got %v through a sqlite-backed cache", got)
	}
}

func TestDefaultPathHonorsEnv(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "custom.db")
	t.Setenv("FLASHDECK_DB", want)

	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDefaultPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FLASHDECK_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "flashdeck", "cache.db")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
