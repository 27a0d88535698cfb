package idempotency

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDoneUnknownKey(t *testing.T) {
	store := openTestStore(t)

	done, err := store.Done(context.Background(), "report/send/2023-06")
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if done {
		t.Error("Expected unknown key to not be done")
	}
}

func TestMarkThenDone(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Mark(ctx, "report/send/2023-06", "monthly report"); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	done, err := store.Done(ctx, "report/send/2023-06")
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if !done {
		t.Error("Expected marked key to be done")
	}
}

func TestMarkIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Mark(ctx, "k1", "first"); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	// Second mark must not error
	if err := store.Mark(ctx, "k1", "second"); err != nil {
		t.Fatalf("Second Mark: %v", err)
	}

	entries, err := store.List(ctx, "k1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(entries))
	}
	// First write wins
	if entries[0].Note != "first" {
		t.Errorf("Expected original note, got %q", entries[0].Note)
	}
}

func TestForget(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Mark(ctx, "k1", ""); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if err := store.Forget(ctx, "k1"); err != nil {
		t.Fatalf("Forget: %v", err)
	}

	done, err := store.Done(ctx, "k1")
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if done {
		t.Error("Expected forgotten key to not be done")
	}
}

func TestListPrefix(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	keys := []string{"drive/upload/a", "drive/upload/b", "gmail/send/c"}
	for _, k := range keys {
		if err := store.Mark(ctx, k, ""); err != nil {
			t.Fatalf("Mark(%s): %v", k, err)
		}
	}

	entries, err := store.List(ctx, "drive/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries for drive/ prefix, got %d", len(entries))
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 entries total, got %d", len(all))
	}
}

func TestListPrefixMatchesWildcardsLiterally(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	keys := []string{"gmail/send/100%", "gmail/send/plain", "gmail/send_batch/x"}
	for _, k := range keys {
		if err := store.Mark(ctx, k, ""); err != nil {
			t.Fatalf("Mark(%s): %v", k, err)
		}
	}

	entries, err := store.List(ctx, "gmail/send/100%")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "gmail/send/100%" {
		t.Errorf("Percent in prefix must match literally, got %v", entries)
	}

	// An underscore must not act as a single-character wildcard
	entries, err = store.List(ctx, "gmail/send_")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "gmail/send_batch/x" {
		t.Errorf("Underscore in prefix must match literally, got %v", entries)
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Done(ctx, ""); err == nil {
		t.Error("Expected error for empty key in Done")
	}
	if err := store.Mark(ctx, "", ""); err == nil {
		t.Error("Expected error for empty key in Mark")
	}
	if err := store.Forget(ctx, ""); err == nil {
		t.Error("Expected error for empty key in Forget")
	}
}
