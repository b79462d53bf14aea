package workflow

import (
	"context"
	"errors"
	"time"

	"outloud/internal/logging"
	"outloud/internal/services"
)

func (m *Manager) runLoop(ctx context.Context) {
	defer m.wg.Done()
	logger := m.logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String("component", "workflow"))

	// Items abandoned mid-stage by a crash re-enter at queued; their
	// surviving artifacts make the redo cheap.
	if reset, err := m.store.ResetStuckProcessing(ctx); err != nil {
		logger.Error("failed to reset in-flight items", logging.Error(err))
	} else if reset > 0 {
		logger.Info("recovered in-flight items from previous run", logging.Int64("count", reset))
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		items, err := m.store.ListPending(ctx)
		if err != nil {
			logger.Error("failed to list pending items", logging.Error(err))
			m.setLastError(err)
			if !m.backoff(ctx) {
				return
			}
			continue
		}
		if len(items) == 0 {
			m.waitForWork(ctx)
			continue
		}

		for _, item := range items {
			if ctx.Err() != nil {
				return
			}
			if err := m.processItem(ctx, item); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				if services.IsTransient(err) {
					logger.Warn("transient failure; backing off",
						logging.Int64("item_id", item.ID),
						logging.Error(err))
					m.setLastError(err)
					if !m.backoff(ctx) {
						return
					}
					break
				}
				// Unexpected errors terminate the worker rather than being
				// swallowed; the supervising process restarts it.
				logger.Error("fatal workflow failure", logging.Int64("item_id", item.ID), logging.Error(err))
				m.setLastError(err)
				return
			}
		}
	}
}

// waitForWork suspends until a notification arrives or the poll interval
// elapses. The timeout keeps the loop self-healing if a wake is ever missed.
func (m *Manager) waitForWork(ctx context.Context) {
	timer := time.NewTimer(m.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-m.notify:
	case <-timer.C:
	}
}

func (m *Manager) backoff(ctx context.Context) bool {
	timer := time.NewTimer(m.retryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
