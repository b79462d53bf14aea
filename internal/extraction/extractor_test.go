package extraction

import (
	"context"
	"path/filepath"
	"testing"

	"outloud/internal/extract"
	"outloud/internal/queue"
	"outloud/internal/services"
	"outloud/internal/stage"
	"outloud/internal/testsupport"
)

type stubEngine struct {
	result extract.Result
	err    error
	calls  int
}

func (s *stubEngine) FromPDF(context.Context, string) (extract.Result, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubEngine) FromURL(context.Context, string) (extract.Result, error) {
	s.calls++
	return s.result, s.err
}

func TestExecuteWritesRawArtifact(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item, err := store.NewItem(ctx, queue.NewItemParams{
		SourceKind:  queue.SourcePDF,
		SourceRef:   "/uploads/paper.pdf",
		ContentHash: "abcd1234abcd1234",
		Voice:       "af_heart",
	})
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}

	engine := &stubEngine{result: extract.Result{Title: "A Paper", Text: "Extracted body text."}}
	extractor := NewExtractorWithEngine(cfg, store, nil, engine)

	if err := extractor.Execute(ctx, item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if item.Stage != queue.StageExtracted {
		t.Fatalf("stage = %s, want extracted", item.Stage)
	}
	if item.Title != "A Paper" {
		t.Fatalf("title = %q", item.Title)
	}
	if item.RawTextRef != item.RawTextName() {
		t.Fatalf("raw_text_ref = %q", item.RawTextRef)
	}
}

func TestExecuteSkipsWhenArtifactExists(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item, err := store.NewItem(ctx, queue.NewItemParams{
		SourceKind:  queue.SourcePDF,
		SourceRef:   "/uploads/paper.pdf",
		ContentHash: "abcd1234abcd5678",
		Voice:       "af_heart",
	})
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if _, err := stage.WriteArtifact(cfg.Paths.TextsDir, item.RawTextName(), "already extracted"); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}

	engine := &stubEngine{result: extract.Result{Title: "Unused", Text: "unused"}}
	extractor := NewExtractorWithEngine(cfg, store, nil, engine)

	if err := extractor.Execute(ctx, item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if engine.calls != 0 {
		t.Fatalf("engine called %d times, want 0", engine.calls)
	}
	if item.Stage != queue.StageExtracted || item.RawTextRef != item.RawTextName() {
		t.Fatalf("unexpected item state: stage=%s ref=%q", item.Stage, item.RawTextRef)
	}
}

func TestExecuteMissingPastedTextIsDomainError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewTextItem(t, store, "Pasted", "1111222233334444")

	extractor := NewExtractorWithEngine(cfg, store, nil, &stubEngine{})
	err := extractor.Execute(context.Background(), item)
	if err == nil {
		t.Fatal("expected error for missing pasted text artifact")
	}
	if !services.IsDomain(err) {
		t.Fatalf("expected domain error, got %v", err)
	}
}

func TestExecutePastedTextFastPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	item := testsupport.NewTextItem(t, store, "Pasted", "5555666677778888")

	testsupport.WriteText(t, filepath.Join(cfg.Paths.TextsDir, item.RawTextName()), "One. Two. Three.")

	extractor := NewExtractorWithEngine(cfg, store, nil, &stubEngine{})
	if err := extractor.Execute(ctx, item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if item.Stage != queue.StageExtracted {
		t.Fatalf("stage = %s, want extracted", item.Stage)
	}
}
