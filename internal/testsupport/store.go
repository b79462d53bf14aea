package testsupport

import (
	"context"
	"testing"

	"outloud/internal/config"
	"outloud/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewTextItem creates a pasted-text item for tests using the provided store.
func NewTextItem(t testing.TB, store *queue.Store, title, contentHash string) *queue.Item {
	t.Helper()

	item, err := store.NewItem(context.Background(), queue.NewItemParams{
		Title:       title,
		SourceKind:  queue.SourceText,
		ContentHash: contentHash,
		Voice:       "af_heart",
		Speed:       1.0,
	})
	if err != nil {
		t.Fatalf("store.NewItem: %v", err)
	}
	return item
}
