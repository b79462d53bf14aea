package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"outloud/internal/services"
)

const (
	apiSynthesize = "/synthesize"
	apiDurations  = "/durations"
	apiVoices     = "/voices"
	apiHealth     = "/health"
)

// Client talks to the Kokoro synthesis service over HTTP. It implements
// both Engine and DurationPredictor.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient configures a client for the synthesis service. The baseURL
// should include the protocol and port (e.g. "http://localhost:8880").
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type synthesizeRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

type synthesizeResponse struct {
	Samples    []float32 `json:"samples"`
	SampleRate int       `json:"sample_rate"`
}

type durationsResponse struct {
	Tokens    []Token   `json:"tokens"`
	Durations []float64 `json:"durations"`
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Synthesize renders one chunk through the service.
func (c *Client) Synthesize(ctx context.Context, text, voice string, speed float64) ([]float32, int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, 0, services.Wrap(services.ErrValidation, "", "synthesize", "text is empty", nil)
	}

	var payload synthesizeResponse
	if err := c.post(ctx, apiSynthesize, synthesizeRequest{Text: text, Voice: voice, Speed: speed}, &payload); err != nil {
		return nil, 0, err
	}
	if len(payload.Samples) == 0 {
		return nil, 0, services.Wrap(services.ErrExternalTool, "", "synthesize", "service returned empty audio", nil)
	}
	rate := payload.SampleRate
	if rate == 0 {
		rate = SampleRate
	}
	return payload.Samples, rate, nil
}

// Durations fetches tokenization and per-frame duration predictions for a
// chunk from the timestamped model.
func (c *Client) Durations(ctx context.Context, text, voice string, speed float64) ([]Token, []float64, error) {
	var payload durationsResponse
	if err := c.post(ctx, apiDurations, synthesizeRequest{Text: text, Voice: voice, Speed: speed}, &payload); err != nil {
		return nil, nil, err
	}
	return payload.Tokens, payload.Durations, nil
}

// Voices lists the synthesis voices the service offers.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiVoices, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create voices request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list voices from %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.responseError(resp, "voices")
	}
	var payload voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode voices response: %w", err)
	}
	return payload.Voices, nil
}

// Health verifies the synthesis service is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiHealth, http.NoBody)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check for %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("synthesis service unhealthy: %s", resp.Status)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.responseError(resp, strings.TrimPrefix(path, "/"))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// responseError classifies a non-200 response. The model reports phoneme
// overflow as a client error mentioning its input budget ("510"); server
// errors are retried by the worker loop.
func (c *Client) responseError(resp *http.Response, operation string) error {
	detail := ""
	var payload errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		detail = payload.Detail
	} else {
		raw, _ := io.ReadAll(resp.Body)
		detail = string(raw)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		if strings.Contains(detail, "510") {
			return fmt.Errorf("%w: %s", ErrPhonemeOverflow, detail)
		}
		return services.Wrap(services.ErrExternalTool, "", operation,
			fmt.Sprintf("synthesis service rejected request (%s): %s", resp.Status, detail), nil)
	}
	return services.Wrap(services.ErrTransient, "", operation,
		fmt.Sprintf("synthesis service error (%s): %s", resp.Status, detail), nil)
}
