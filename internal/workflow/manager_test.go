package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"outloud/internal/queue"
	"outloud/internal/services"
	"outloud/internal/stage"
	"outloud/internal/testsupport"
)

// stubHandler advances an item to done unless told to fail.
type stubHandler struct {
	name  string
	done  queue.Stage
	err   error
	calls int
}

func (s *stubHandler) Prepare(_ context.Context, item *queue.Item) error {
	item.ErrorMessage = ""
	return nil
}

func (s *stubHandler) Execute(_ context.Context, item *queue.Item) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	item.Stage = s.done
	return nil
}

func (s *stubHandler) HealthCheck(context.Context) stage.Health {
	return stage.Healthy(s.name)
}

func newStubManager(t *testing.T, extract, clean, generate stage.Handler) (*Manager, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	mgr, err := NewManagerWithHandlers(cfg, store, nil, extract, clean, generate)
	if err != nil {
		t.Fatalf("NewManagerWithHandlers: %v", err)
	}
	return mgr, store
}

func TestProcessItemDrivesThroughAllStages(t *testing.T) {
	extract := &stubHandler{name: "extraction", done: queue.StageExtracted}
	clean := &stubHandler{name: "cleaning", done: queue.StageCleaned}
	generate := &stubHandler{name: "generation", done: queue.StageReady}
	mgr, store := newStubManager(t, extract, clean, generate)

	item := testsupport.NewTextItem(t, store, "Doc", "0011223344556677")
	if err := mgr.processItem(context.Background(), item); err != nil {
		t.Fatalf("processItem: %v", err)
	}

	fetched, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.Stage != queue.StageReady {
		t.Fatalf("stage = %s, want ready", fetched.Stage)
	}
	if extract.calls != 1 || clean.calls != 1 || generate.calls != 1 {
		t.Fatalf("stage calls = %d/%d/%d, want 1 each", extract.calls, clean.calls, generate.calls)
	}
}

func TestProcessItemDomainErrorMarksItem(t *testing.T) {
	failure := services.Wrap(services.ErrValidation, "extraction", "check text", "document yields no usable text", nil)
	extract := &stubHandler{name: "extraction", err: failure}
	mgr, store := newStubManager(t, extract,
		&stubHandler{name: "cleaning", done: queue.StageCleaned},
		&stubHandler{name: "generation", done: queue.StageReady})

	item := testsupport.NewTextItem(t, store, "Doc", "1122334455667788")
	if err := mgr.processItem(context.Background(), item); err != nil {
		t.Fatalf("domain failures must not propagate, got %v", err)
	}

	fetched, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.Stage != queue.StageError {
		t.Fatalf("stage = %s, want error", fetched.Stage)
	}
	if fetched.ErrorMessage == "" {
		t.Fatal("expected error message to be recorded")
	}
}

func TestProcessItemTransientErrorPropagatesWithoutFailingItem(t *testing.T) {
	failure := services.Wrap(services.ErrTransient, "generation", "synthesize", "tts connection reset", nil)
	mgr, store := newStubManager(t,
		&stubHandler{name: "extraction", err: failure},
		&stubHandler{name: "cleaning", done: queue.StageCleaned},
		&stubHandler{name: "generation", done: queue.StageReady})

	item := testsupport.NewTextItem(t, store, "Doc", "2233445566778899")
	err := mgr.processItem(context.Background(), item)
	if err == nil || !services.IsTransient(err) {
		t.Fatalf("expected transient error to propagate, got %v", err)
	}

	fetched, getErr := store.GetByID(context.Background(), item.ID)
	if getErr != nil {
		t.Fatalf("GetByID: %v", getErr)
	}
	if fetched.Stage == queue.StageError {
		t.Fatal("transient failures must not mark items errored")
	}
}

func TestRunLoopRecoversStuckItemsAndProcesses(t *testing.T) {
	extract := &stubHandler{name: "extraction", done: queue.StageExtracted}
	clean := &stubHandler{name: "cleaning", done: queue.StageCleaned}
	generate := &stubHandler{name: "generation", done: queue.StageReady}
	mgr, store := newStubManager(t, extract, clean, generate)

	ctx := context.Background()
	item := testsupport.NewTextItem(t, store, "Doc", "33445566778899aa")
	// Simulate a crash mid-cleanup.
	if err := store.UpdateStage(ctx, item.ID, queue.StageCleaning, nil); err != nil {
		t.Fatalf("UpdateStage: %v", err)
	}

	if err := mgr.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mgr.Stop()
	mgr.Notify()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		fetched, err := store.GetByID(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if fetched.Stage == queue.StageReady {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("item never reached ready")
}

func TestRunLoopFatalErrorStopsWorker(t *testing.T) {
	fatal := errors.New("index out of range")
	mgr, store := newStubManager(t,
		&stubHandler{name: "extraction", err: fatal},
		&stubHandler{name: "cleaning", done: queue.StageCleaned},
		&stubHandler{name: "generation", done: queue.StageReady})

	ctx := context.Background()
	testsupport.NewTextItem(t, store, "Doc", "445566778899aabb")

	if err := mgr.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer mgr.Stop()
	mgr.Notify()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := mgr.LastError(); err != nil {
			if !errors.Is(err, fatal) {
				t.Fatalf("last error = %v, want the fatal error", err)
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("fatal error never surfaced")
}

func TestHealthReportsStages(t *testing.T) {
	mgr, store := newStubManager(t,
		&stubHandler{name: "extraction", done: queue.StageExtracted},
		&stubHandler{name: "cleaning", done: queue.StageCleaned},
		&stubHandler{name: "generation", done: queue.StageReady})

	testsupport.NewTextItem(t, store, "Doc", "5566778899aabbcc")
	status, err := mgr.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if status.Queue.Total != 1 || status.Queue.Queued != 1 {
		t.Fatalf("queue summary = %+v", status.Queue)
	}
	if len(status.Stages) != 3 {
		t.Fatalf("stage healths = %d, want 3", len(status.Stages))
	}
	for _, h := range status.Stages {
		if !h.Ready {
			t.Fatalf("stage %s unexpectedly unhealthy: %s", h.Name, h.Detail)
		}
	}
}
