package cleanup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"outloud/internal/services"
	"outloud/internal/testsupport"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := testsupport.NewConfig(t, testsupport.WithOllamaURL(server.URL))
	return NewClient(cfg, nil), server
}

func TestAvailable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	if !client.Available(context.Background()) {
		t.Fatal("expected service to report available")
	}
}

func TestAvailableServiceDown(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	if client.Available(context.Background()) {
		t.Fatal("expected closed service to report unavailable")
	}
}

func TestCleanSendsPromptAndModel(t *testing.T) {
	var got generateRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "  Cleaned text.  "})
	}))

	cleaned, err := client.Clean(context.Background(), "Raw [1] text.")
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if cleaned != "Cleaned text." {
		t.Fatalf("cleaned = %q, want trimmed response", cleaned)
	}
	if !strings.HasSuffix(got.Prompt, "Raw [1] text.") {
		t.Errorf("prompt does not end with input text: %q", got.Prompt)
	}
	if !strings.Contains(got.Prompt, "Text to clean:") {
		t.Errorf("prompt missing instruction preamble")
	}
	if got.Stream {
		t.Error("expected stream=false")
	}
	if got.Options.Temperature != 0.1 {
		t.Errorf("temperature = %v, want 0.1", got.Options.Temperature)
	}
	if want := len("Raw [1] text.") + 500; got.Options.NumPredict != want {
		t.Errorf("num_predict = %d, want %d", got.Options.NumPredict, want)
	}
}

func TestCleanServerErrorIsTransient(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusInternalServerError)
	}))

	_, err := client.Clean(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if !services.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestCleanRejectionIsDomainError(t *testing.T) {
	var attempts int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "prompt too long for model", http.StatusBadRequest)
	}))

	_, err := client.Clean(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error")
	}
	// A 4xx is deterministic: it must fail the item, not back off the
	// worker, and a retry would only repeat the rejection.
	if !services.IsDomain(err) {
		t.Fatalf("expected domain error, got %v", err)
	}
	if services.IsTransient(err) {
		t.Fatalf("rejection must not be transient: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt for a rejection, got %d", attempts)
	}
}

func TestCleanEmptyResponseIsDomainError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Response: "   "})
	}))

	_, err := client.Clean(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if !services.IsDomain(err) {
		t.Fatalf("expected domain error, got %v", err)
	}
}

func TestCleanGroupedJoinsGroups(t *testing.T) {
	var prompts []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		prompts = append(prompts, req.Prompt)
		json.NewEncoder(w).Encode(generateResponse{Response: "cleaned"})
	}))
	client.groupChars = 40

	para := strings.Repeat("x", 30)
	text := para + "\n\n" + para + "\n\n" + para
	var notes []string
	cleaned, err := client.CleanGrouped(context.Background(), text, func(note string) {
		notes = append(notes, note)
	})
	if err != nil {
		t.Fatalf("CleanGrouped: %v", err)
	}
	if len(prompts) != 3 {
		t.Fatalf("expected 3 generate calls, got %d", len(prompts))
	}
	if cleaned != "cleaned\n\ncleaned\n\ncleaned" {
		t.Fatalf("cleaned = %q", cleaned)
	}
	if len(notes) != 3 || notes[0] != "Cleaning chunk 1/3" || notes[2] != "Cleaning chunk 3/3" {
		t.Fatalf("progress notes = %v", notes)
	}
}

func TestGroupParagraphs(t *testing.T) {
	short := "aaa"
	long := strings.Repeat("b", 100)
	groups := groupParagraphs(short+"\n\n"+short+"\n\n"+long+"\n\n"+short, 50)
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3: %q", len(groups), groups)
	}
	if groups[0] != short+"\n\n"+short {
		t.Errorf("first group = %q", groups[0])
	}
	if groups[1] != long {
		t.Errorf("oversized paragraph should stand alone, got %q", groups[1])
	}
}

func TestGroupParagraphsNeverEmpty(t *testing.T) {
	groups := groupParagraphs("", 100)
	if len(groups) != 1 {
		t.Fatalf("groups = %v, want single fallback group", groups)
	}
}
