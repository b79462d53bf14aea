package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"outloud/internal/config"
	"outloud/internal/extract"
	"outloud/internal/logging"
	"outloud/internal/queue"
	"outloud/internal/services"
	"outloud/internal/stage"
)

// Engine extracts readable text from a document source.
type Engine interface {
	FromPDF(ctx context.Context, path string) (extract.Result, error)
	FromURL(ctx context.Context, url string) (extract.Result, error)
}

// Extractor is the stage handler that turns a source document into the raw
// text artifact.
type Extractor struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
	engine Engine
}

// NewExtractor constructs the extraction stage handler.
func NewExtractor(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Extractor {
	return NewExtractorWithEngine(cfg, store, logger, extract.New(cfg))
}

// NewExtractorWithEngine allows injecting the extraction engine (used in tests).
func NewExtractorWithEngine(cfg *config.Config, store *queue.Store, logger *slog.Logger, engine Engine) *Extractor {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "extraction"))
	}
	return &Extractor{store: store, cfg: cfg, logger: stageLogger, engine: engine}
}

func (e *Extractor) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, e.logger)
	item.Progress = "Extracting text"
	item.ErrorMessage = ""
	logger.Info("starting extraction",
		logging.String("source_kind", string(item.SourceKind)),
		logging.String("source_ref", item.SourceRef))
	return nil
}

func (e *Extractor) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, e.logger)

	// Idempotent re-entry: a surviving raw artifact means a prior run got
	// this far before crashing.
	rawName := item.RawTextName()
	rawPath := filepath.Join(e.cfg.Paths.TextsDir, rawName)
	if _, err := os.Stat(rawPath); err == nil {
		logger.Info("raw text artifact already present", logging.String("artifact", rawName))
		item.RawTextRef = rawName
		item.Stage = queue.StageExtracted
		item.Progress = ""
		return nil
	}

	var (
		result extract.Result
		err    error
	)
	switch item.SourceKind {
	case queue.SourcePDF:
		result, err = e.engine.FromPDF(ctx, item.SourceRef)
	case queue.SourceURL:
		result, err = e.engine.FromURL(ctx, item.SourceRef)
	case queue.SourceText:
		// Pasted text is written as the raw artifact at ingest time, so
		// reaching this point means the artifact was removed out of band.
		return services.Wrap(services.ErrValidation, "extraction", "load text",
			fmt.Sprintf("pasted text artifact %s is missing; re-add the item", rawName), nil)
	default:
		return services.Wrap(services.ErrValidation, "extraction", "dispatch source",
			fmt.Sprintf("unknown source kind %q", string(item.SourceKind)), nil)
	}
	if err != nil {
		return err
	}

	if _, err := stage.WriteArtifact(e.cfg.Paths.TextsDir, rawName, result.Text); err != nil {
		return err
	}
	if item.Title == "" {
		item.Title = result.Title
	}
	item.RawTextRef = rawName
	item.Stage = queue.StageExtracted
	item.Progress = ""
	logger.Info("extraction finished",
		logging.String("title", item.Title),
		logging.Int("chars", len(result.Text)))
	return nil
}

func (e *Extractor) HealthCheck(ctx context.Context) stage.Health {
	// Extraction has no external service; readable directories are the only
	// dependency.
	if err := os.MkdirAll(e.cfg.Paths.TextsDir, 0o755); err != nil {
		return stage.Unhealthy("extraction", fmt.Sprintf("texts directory unavailable: %v", err))
	}
	return stage.Healthy("extraction")
}
