package workflow

import (
	"context"

	"outloud/internal/queue"
	"outloud/internal/stage"
)

// Status is a point-in-time view of the pipeline for the CLI.
type Status struct {
	Running bool
	Queue   queue.HealthSummary
	Stages  []stage.Health
}

// Health gathers queue counts and per-stage readiness.
func (m *Manager) Health(ctx context.Context) (Status, error) {
	summary, err := m.store.Health(ctx)
	if err != nil {
		return Status{}, err
	}

	seen := make(map[string]bool)
	var stages []stage.Health
	for _, startStage := range []queue.Stage{queue.StageQueued, queue.StageExtracted, queue.StageCleaned} {
		entry, ok := m.stages[startStage]
		if !ok || seen[entry.name] {
			continue
		}
		seen[entry.name] = true
		stages = append(stages, entry.handler.HealthCheck(ctx))
	}

	m.mu.RLock()
	running := m.running
	m.mu.RUnlock()

	return Status{Running: running, Queue: summary, Stages: stages}, nil
}
