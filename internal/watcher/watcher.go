package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"outloud/internal/config"
	"outloud/internal/contentid"
	"outloud/internal/extract"
	"outloud/internal/logging"
	"outloud/internal/queue"
)

// Watcher enqueues PDF files dropped into the uploads directory. A startup
// scan catches files that arrived while the daemon was down; fsnotify covers
// the rest.
type Watcher struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
	notify func()
}

// New constructs a watcher. notify wakes the workflow manager after an
// enqueue and may be nil.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, notify func()) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{
		cfg:    cfg,
		store:  store,
		logger: logger.With(logging.String("component", "watcher")),
		notify: notify,
	}
}

// Run scans the uploads directory and then watches it until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	dir := w.cfg.Paths.UploadsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads directory: %w", err)
	}

	if err := w.ScanOnce(ctx); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create uploads watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch uploads directory: %w", err)
	}
	w.logger.Info("watching uploads directory", logging.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename) {
				w.ingest(ctx, event.Name)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("uploads watch error", logging.Error(err))
		}
	}
}

// ScanOnce enqueues every untracked PDF currently in the uploads directory.
func (w *Watcher) ScanOnce(ctx context.Context) error {
	entries, err := os.ReadDir(w.cfg.Paths.UploadsDir)
	if err != nil {
		return fmt.Errorf("scan uploads directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.ingest(ctx, filepath.Join(w.cfg.Paths.UploadsDir, entry.Name()))
	}
	return nil
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return
	}
	hash, err := contentid.HashFile(path)
	if err != nil {
		w.logger.Warn("failed to hash upload", logging.String("path", path), logging.Error(err))
		return
	}

	existing, err := w.store.GetByHash(ctx, hash)
	if err != nil {
		w.logger.Warn("upload dedup lookup failed", logging.String("path", path), logging.Error(err))
		return
	}
	if existing != nil {
		w.logger.Debug("upload already tracked",
			logging.String("path", path),
			logging.Int64("item_id", existing.ID))
		return
	}

	item, err := w.store.NewItem(ctx, queue.NewItemParams{
		Title:       extract.TitleFromFilename(filepath.Base(path)),
		SourceKind:  queue.SourcePDF,
		SourceRef:   path,
		ContentHash: hash,
		Voice:       w.cfg.TTS.DefaultVoice,
		Speed:       w.cfg.TTS.DefaultSpeed,
	})
	if err != nil {
		w.logger.Warn("failed to enqueue upload", logging.String("path", path), logging.Error(err))
		return
	}
	w.logger.Info("enqueued upload",
		logging.Int64("item_id", item.ID),
		logging.String("title", item.Title))
	if w.notify != nil {
		w.notify()
	}
}
