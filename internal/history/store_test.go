package history_test

import (
	"context"
	"path/filepath"
	"testing"

	"szurutool/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSeenBeforeAndAfterRecord(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	const source = "https://danbooru.donmai.us/posts/1"

	seen, err := store.Seen(ctx, source)
	if err != nil {
		t.Fatalf("Seen returned error: %v", err)
	}
	if seen {
		t.Fatal("fresh store should not have seen the source")
	}

	if err := store.Record(ctx, source, 42); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	seen, err = store.Seen(ctx, source)
	if err != nil {
		t.Fatalf("Seen returned error: %v", err)
	}
	if !seen {
		t.Fatal("recorded source should be seen")
	}
}

func TestRecordTwiceKeepsNewest(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	const source = "https://gelbooru.com/index.php?id=5"

	if err := store.Record(ctx, source, 1); err != nil {
		t.Fatalf("first Record returned error: %v", err)
	}
	if err := store.Record(ctx, source, 2); err != nil {
		t.Fatalf("second Record returned error: %v", err)
	}
	seen, err := store.Seen(ctx, source)
	if err != nil || !seen {
		t.Fatalf("Seen = %v, %v", seen, err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := history.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
