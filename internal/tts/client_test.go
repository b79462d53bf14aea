package tts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"outloud/internal/services"
	"outloud/internal/tts"
)

func TestClientSynthesizeDecodesSamples(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/synthesize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Text  string  `json:"text"`
			Voice string  `json:"voice"`
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Voice != "af_heart" || req.Speed != 1.25 {
			t.Errorf("unexpected request %+v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"samples":     []float32{0.1, -0.2, 0.3},
			"sample_rate": 24000,
		})
	}))
	defer server.Close()

	client := tts.NewClient(server.URL, 5*time.Second)
	samples, rate, err := client.Synthesize(context.Background(), "hello", "af_heart", 1.25)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(samples) != 3 || rate != 24000 {
		t.Fatalf("unexpected response: %d samples at %d", len(samples), rate)
	}
}

func TestClientSynthesizeMapsOverflow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"detail": "index 510 is out of bounds for axis 0 with size 510",
		})
	}))
	defer server.Close()

	client := tts.NewClient(server.URL, 5*time.Second)
	_, _, err := client.Synthesize(context.Background(), "too long", "af_heart", 1.0)
	if !errors.Is(err, tts.ErrPhonemeOverflow) {
		t.Fatalf("expected ErrPhonemeOverflow, got %v", err)
	}
}

func TestClientSynthesizeClassifiesServerErrorsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := tts.NewClient(server.URL, 5*time.Second)
	_, _, err := client.Synthesize(context.Background(), "text", "af_heart", 1.0)
	if !services.IsTransient(err) {
		t.Fatalf("expected transient classification, got %v", err)
	}
}

func TestClientSynthesizeClassifiesRejectionsAsDomain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "unknown voice"})
	}))
	defer server.Close()

	client := tts.NewClient(server.URL, 5*time.Second)
	_, _, err := client.Synthesize(context.Background(), "text", "xx_nope", 1.0)
	if !services.IsDomain(err) {
		t.Fatalf("expected domain classification, got %v", err)
	}
	if errors.Is(err, tts.ErrPhonemeOverflow) {
		t.Fatal("rejection without overflow marker must not map to overflow")
	}
}

func TestClientDurations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/durations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tokens": []map[string]any{
				{"text": "Hello", "phonemes": "həlˈoʊ", "whitespace": true},
				{"text": "world", "phonemes": "wˈɜɹld", "whitespace": false},
			},
			"durations": []float64{5, 3, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4},
		})
	}))
	defer server.Close()

	client := tts.NewClient(server.URL, 5*time.Second)
	tokens, durations, err := client.Durations(context.Background(), "Hello world", "af_heart", 1.0)
	if err != nil {
		t.Fatalf("Durations failed: %v", err)
	}
	if len(tokens) != 2 || tokens[0].Text != "Hello" || !tokens[0].Whitespace {
		t.Fatalf("unexpected tokens: %#v", tokens)
	}
	if len(durations) != 12 {
		t.Fatalf("unexpected durations: %#v", durations)
	}
}

func TestClientVoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"voices": []map[string]string{
				{"id": "af_heart", "name": "Heart", "language": "American English", "gender": "Female"},
			},
		})
	}))
	defer server.Close()

	client := tts.NewClient(server.URL, 5*time.Second)
	voices, err := client.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices failed: %v", err)
	}
	if len(voices) != 1 || voices[0].ID != "af_heart" {
		t.Fatalf("unexpected voices: %#v", voices)
	}
}
