package cleaning

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"outloud/internal/cleanup"
	"outloud/internal/config"
	"outloud/internal/logging"
	"outloud/internal/queue"
	"outloud/internal/stage"
)

// Service is the LLM cleanup collaborator.
type Service interface {
	Available(ctx context.Context) bool
	CleanGrouped(ctx context.Context, text string, progress cleanup.ProgressFunc) (string, error)
}

// Cleaner is the stage handler that rewrites raw text into narration-ready
// prose. Cleanup is optional: an unreachable service skips the rewrite and
// the item proceeds with raw text.
type Cleaner struct {
	store   *queue.Store
	cfg     *config.Config
	logger  *slog.Logger
	service Service
}

// NewCleaner constructs the cleanup stage handler.
func NewCleaner(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Cleaner {
	return NewCleanerWithService(cfg, store, logger, cleanup.NewClient(cfg, logger))
}

// NewCleanerWithService allows injecting the cleanup collaborator (used in tests).
func NewCleanerWithService(cfg *config.Config, store *queue.Store, logger *slog.Logger, service Service) *Cleaner {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "cleaning"))
	}
	return &Cleaner{store: store, cfg: cfg, logger: stageLogger, service: service}
}

func (c *Cleaner) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, c.logger)
	item.Progress = "Cleaning text"
	item.ErrorMessage = ""
	logger.Info("starting cleanup", logging.String("title", item.Title))
	return nil
}

func (c *Cleaner) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, c.logger)

	cleanedName := item.CleanedTextName()
	cleanedPath := filepath.Join(c.cfg.Paths.TextsDir, cleanedName)
	if _, err := os.Stat(cleanedPath); err == nil {
		logger.Info("cleaned text artifact already present", logging.String("artifact", cleanedName))
		item.CleanedTextRef = cleanedName
		item.WasCleaned = true
		item.Stage = queue.StageCleaned
		item.Progress = ""
		return nil
	}

	if !c.service.Available(ctx) {
		logger.Warn("cleanup service unreachable; narrating raw text")
		item.WasCleaned = false
		item.Stage = queue.StageCleaned
		item.Progress = ""
		return nil
	}

	text, _, err := stage.SourceText(c.cfg, item)
	if err != nil {
		return err
	}

	cleaned, err := c.service.CleanGrouped(ctx, text, func(note string) {
		item.Progress = note
		if err := c.store.SetProgress(ctx, item.ID, note); err != nil {
			logger.Warn("failed to record cleanup progress", logging.Error(err))
		}
	})
	if err != nil {
		// A failing group aborts the whole attempt; partially cleaned
		// documents are never persisted.
		return err
	}

	if _, err := stage.WriteArtifact(c.cfg.Paths.TextsDir, cleanedName, cleaned); err != nil {
		return err
	}
	item.CleanedTextRef = cleanedName
	item.WasCleaned = true
	item.Stage = queue.StageCleaned
	item.Progress = ""
	logger.Info("cleanup finished", logging.Int("chars", len(cleaned)))
	return nil
}

func (c *Cleaner) HealthCheck(ctx context.Context) stage.Health {
	// The stage stays healthy when Ollama is down because cleanup is
	// skippable; the detail flags the degraded mode.
	if !c.service.Available(ctx) {
		return stage.Health{Name: "cleaning", Ready: true, Detail: "cleanup service unreachable; items will skip cleanup"}
	}
	return stage.Healthy("cleaning")
}
