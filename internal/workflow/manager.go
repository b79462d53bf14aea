package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"outloud/internal/cleaning"
	"outloud/internal/config"
	"outloud/internal/extraction"
	"outloud/internal/generation"
	"outloud/internal/queue"
	"outloud/internal/stage"
)

// pipelineStage binds a set of start stages to the handler that advances
// them and the in-flight stage recorded while it runs.
type pipelineStage struct {
	name       string
	processing queue.Stage
	handler    stage.Handler
}

// Manager drives the single pipeline worker: it discovers pending items,
// executes the stage matching each item's position, and owns crash recovery
// and the error taxonomy for the run loop.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	stages       map[queue.Stage]pipelineStage
	notify       chan struct{}
	pollInterval time.Duration
	retryBackoff time.Duration

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
}

// NewManager constructs the manager with the real stage executors.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*Manager, error) {
	return NewManagerWithHandlers(cfg, store, logger,
		extraction.NewExtractor(cfg, store, logger),
		cleaning.NewCleaner(cfg, store, logger),
		generation.NewGenerator(cfg, store, logger),
	)
}

// NewManagerWithHandlers allows injecting stage handlers (used in tests).
func NewManagerWithHandlers(cfg *config.Config, store *queue.Store, logger *slog.Logger, extract, clean, generate stage.Handler) (*Manager, error) {
	stages := map[queue.Stage]pipelineStage{
		queue.StageQueued:     {name: "extraction", processing: queue.StageExtracting, handler: extract},
		queue.StageExtracting: {name: "extraction", processing: queue.StageExtracting, handler: extract},
		queue.StageExtracted:  {name: "cleaning", processing: queue.StageCleaning, handler: clean},
		queue.StageCleaning:   {name: "cleaning", processing: queue.StageCleaning, handler: clean},
		queue.StageCleaned:    {name: "generation", processing: queue.StageGenerating, handler: generate},
		queue.StageGenerating: {name: "generation", processing: queue.StageGenerating, handler: generate},
	}
	for startStage, entry := range stages {
		if entry.handler == nil {
			return nil, fmt.Errorf("stage %s has no handler", startStage)
		}
		if !queue.IsProcessingStage(entry.processing) {
			return nil, fmt.Errorf("stage %s maps to non-processing stage %s", startStage, entry.processing)
		}
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		stages:       stages,
		notify:       make(chan struct{}, 1),
		pollInterval: cfg.Workflow.PollInterval(),
		retryBackoff: cfg.Workflow.RetryInterval(),
	}, nil
}

// Notify wakes the worker loop. Any number of notifications before the next
// suspend collapse into a single wake.
func (m *Manager) Notify() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("workflow already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	go m.runLoop(runCtx)
	return nil
}

// Stop terminates background processing and waits for the worker to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// LastError returns the most recent run-loop level failure, if any.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}
