package cleanup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"outloud/internal/config"
	"outloud/internal/logging"
	"outloud/internal/services"
)

const defaultGroupChars = 2000

// Client talks to a local Ollama instance to rewrite extracted text into
// narration-ready prose.
type Client struct {
	baseURL    string
	model      string
	groupChars int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a cleanup client from configuration. The returned client
// is safe for use by a single worker goroutine.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	groupChars := cfg.Cleanup.GroupChars
	if groupChars <= 0 {
		groupChars = defaultGroupChars
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.Cleanup.OllamaURL, "/"),
		model:      cfg.Cleanup.Model,
		groupChars: groupChars,
		httpClient: &http.Client{Timeout: cfg.Cleanup.Timeout()},
		logger:     logger,
	}
}

// Available reports whether the Ollama service answers its tags endpoint.
// The probe uses a short deadline independent of the generation timeout so a
// down service is detected quickly.
func (c *Client) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Clean sends one block of text through the model and returns the rewritten
// prose. Transport and server failures are retried a few times before being
// reported as transient; a 4xx rejection fails the item immediately.
func (c *Client) Clean(ctx context.Context, text string) (string, error) {
	payload := generateRequest{
		Model:  c.model,
		Prompt: cleanupPrompt + text,
		Stream: false,
		Options: generateOptions{
			// Low temperature keeps the model from paraphrasing.
			Temperature: 0.1,
			NumPredict:  len(text) + 500,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "cleanup", "encode request", "failed to encode generate request", err)
	}

	var result generateResponse
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
				message := fmt.Sprintf("generate returned status %d", resp.StatusCode)
				if detail := strings.TrimSpace(string(raw)); detail != "" {
					message += ": " + detail
				}
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					// The model rejected this text; resending it cannot help.
					return retry.Unrecoverable(services.Wrap(services.ErrExternalTool, "cleanup", "generate", message, nil))
				}
				return errors.New(message)
			}
			return json.NewDecoder(resp.Body).Decode(&result)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if services.IsDomain(err) {
			return "", err
		}
		return "", services.Wrap(services.ErrTransient, "cleanup", "generate", "ollama generate failed", err)
	}

	cleaned := strings.TrimSpace(result.Response)
	if cleaned == "" {
		return "", services.Wrap(services.ErrExternalTool, "cleanup", "generate", "ollama returned empty response", nil)
	}
	return cleaned, nil
}

// ProgressFunc receives a short human-readable note as grouped cleanup
// advances, such as "Cleaning chunk 2/5".
type ProgressFunc func(note string)

// CleanGrouped splits text into paragraph groups, cleans each group, and
// joins the results with blank lines. The first failing group aborts the
// whole run so a partially cleaned document is never produced.
func (c *Client) CleanGrouped(ctx context.Context, text string, progress ProgressFunc) (string, error) {
	groups := groupParagraphs(text, c.groupChars)
	cleaned := make([]string, 0, len(groups))
	for i, group := range groups {
		if progress != nil {
			progress(fmt.Sprintf("Cleaning chunk %d/%d", i+1, len(groups)))
		}
		c.logger.Debug("cleaning text group", "group", i+1, "total", len(groups), "chars", len(group))
		part, err := c.Clean(ctx, group)
		if err != nil {
			return "", err
		}
		cleaned = append(cleaned, part)
	}
	return strings.Join(cleaned, "\n\n"), nil
}

// groupParagraphs packs blank-line separated paragraphs into groups of at
// most maxChars bytes. Paragraphs longer than maxChars become their own
// group rather than being cut mid-sentence.
func groupParagraphs(text string, maxChars int) []string {
	paragraphs := strings.Split(text, "\n\n")
	var groups []string
	var current string
	for _, para := range paragraphs {
		if len(current)+len(para) < maxChars {
			if current == "" {
				current = para
			} else {
				current += "\n\n" + para
			}
			continue
		}
		if current != "" {
			groups = append(groups, current)
		}
		current = para
	}
	if current != "" {
		groups = append(groups, current)
	}
	if len(groups) == 0 {
		return []string{text}
	}
	return groups
}
