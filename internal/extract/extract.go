package extract

import (
	"fmt"
	"net/http"
	"strings"

	"outloud/internal/config"
	"outloud/internal/services"
)

// Result is the outcome of extracting one document.
type Result struct {
	Title string
	Text  string
}

// Extractor turns PDFs, web pages, and pasted text into narration-ready
// plain text plus a display title.
type Extractor struct {
	cfg        *config.Config
	httpClient *http.Client
}

// New builds an Extractor from configuration.
func New(cfg *config.Config) *Extractor {
	return &Extractor{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Extraction.FetchTimeoutDuration(),
		},
	}
}

// FromText prepares pasted text. The title hint wins when provided;
// otherwise a title is pulled from the text itself.
func (e *Extractor) FromText(raw, titleHint string) (Result, error) {
	text := strings.TrimSpace(raw)
	if err := e.checkUsable(text, "pasted text"); err != nil {
		return Result{}, err
	}
	title := strings.TrimSpace(titleHint)
	if title == "" {
		title = TitleFromText(text)
	}
	if title == "" {
		title = "Pasted text"
	}
	return Result{Title: title, Text: text}, nil
}

// checkUsable enforces the minimum-length floor shared by all sources.
func (e *Extractor) checkUsable(text, source string) error {
	minLen := e.cfg.Extraction.MinTextLength
	if len(text) < minLen {
		return services.Wrap(services.ErrValidation, "extraction", "check text",
			fmt.Sprintf("%s yielded %d characters, need at least %d", source, len(text), minLen), nil)
	}
	return nil
}
