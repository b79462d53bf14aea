package stage

import (
	"fmt"
	"os"
	"path/filepath"

	"outloud/internal/config"
	"outloud/internal/queue"
	"outloud/internal/services"
)

// SourceText loads the narration source for an item: the cleaned text
// artifact when one exists, otherwise the raw extraction. The second return
// reports whether the cleaned variant was used.
func SourceText(cfg *config.Config, item *queue.Item) (string, bool, error) {
	if item.CleanedTextRef != "" {
		text, err := readArtifact(filepath.Join(cfg.Paths.TextsDir, item.CleanedTextRef))
		if err == nil {
			return text, true, nil
		}
		if !os.IsNotExist(err) {
			return "", false, services.Wrap(services.ErrTransient, "stage", "load text",
				fmt.Sprintf("failed to read cleaned text %s", item.CleanedTextRef), err)
		}
	}
	if item.RawTextRef == "" {
		return "", false, services.Wrap(services.ErrValidation, "stage", "load text",
			"item has no extracted text; rerun extraction", nil)
	}
	text, err := readArtifact(filepath.Join(cfg.Paths.TextsDir, item.RawTextRef))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, services.Wrap(services.ErrValidation, "stage", "load text",
				fmt.Sprintf("raw text artifact %s is missing; rerun extraction", item.RawTextRef), err)
		}
		return "", false, services.Wrap(services.ErrTransient, "stage", "load text",
			fmt.Sprintf("failed to read raw text %s", item.RawTextRef), err)
	}
	return text, false, nil
}

// WriteArtifact writes content to dir/name atomically and returns name.
func WriteArtifact(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, "stage", "write artifact", "failed to create artifact directory", err)
	}
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return "", services.Wrap(services.ErrTransient, "stage", "write artifact",
			fmt.Sprintf("failed to write %s", name), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", services.Wrap(services.ErrTransient, "stage", "write artifact",
			fmt.Sprintf("failed to finalize %s", name), err)
	}
	return name, nil
}

func readArtifact(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
