package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"outloud/internal/logging"
	"outloud/internal/queue"
	"outloud/internal/services"
)

// processItem drives one item through consecutive stages, re-reading its
// persisted state between stages so a fully synchronous run can go from
// queued to ready in a single pass. Domain failures mark the item errored
// and return nil; transient and fatal errors propagate to the run loop.
func (m *Manager) processItem(ctx context.Context, item *queue.Item) error {
	for {
		entry, ok := m.stages[item.Stage]
		if !ok {
			// Terminal or externally managed stage; nothing to drive.
			return nil
		}

		requestID := uuid.NewString()
		stageCtx := services.WithRequestID(services.WithStage(services.WithItemID(ctx, item.ID), entry.name), requestID)
		stageLogger := m.stageLogger(stageCtx)

		if err := m.runStage(stageCtx, stageLogger, entry, item); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			if services.IsDomain(err) {
				m.failItem(ctx, stageLogger, entry.name, item, err)
				return nil
			}
			return err
		}

		refreshed, err := m.store.GetByID(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("re-read item %d: %w", item.ID, err)
		}
		if refreshed == nil {
			// Removed out from under the worker; stop driving it.
			return nil
		}
		item = refreshed
	}
}

func (m *Manager) runStage(ctx context.Context, logger *slog.Logger, entry pipelineStage, item *queue.Item) error {
	start := time.Now()

	item.Stage = entry.processing
	if err := entry.handler.Prepare(ctx, item); err != nil {
		return err
	}
	if err := m.store.Update(ctx, item); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}
	logger.Info("stage started", logging.String("title", strings.TrimSpace(item.Title)))

	if err := entry.handler.Execute(ctx, item); err != nil {
		return err
	}
	if err := m.store.Update(ctx, item); err != nil {
		return fmt.Errorf("persist stage result: %w", err)
	}
	logger.Info("stage completed",
		logging.String("next_stage", string(item.Stage)),
		logging.Duration("stage_duration", time.Since(start)))
	return nil
}

func (m *Manager) failItem(ctx context.Context, logger *slog.Logger, stageName string, item *queue.Item, stageErr error) {
	message := strings.TrimSpace(stageErr.Error())
	if message == "" {
		message = fmt.Sprintf("%s failed", stageName)
	}
	logger.Error("stage failed; item marked errored", logging.Error(stageErr))
	if err := m.store.SetError(ctx, item.ID, message); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("shutdown before failure could be persisted")
		} else {
			logger.Error("failed to persist item failure", logging.Error(err))
		}
	}
}

func (m *Manager) stageLogger(ctx context.Context) *slog.Logger {
	base := m.logger
	if base == nil {
		base = logging.NewNop()
	}
	return logging.WithContext(ctx, base)
}
