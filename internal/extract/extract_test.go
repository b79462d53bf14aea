package extract_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"outloud/internal/extract"
	"outloud/internal/services"
	"outloud/internal/testsupport"
)

func TestFromTextUsesHintThenFirstLine(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Extraction.MinTextLength = 10
	extractor := extract.New(cfg)

	body := "A Perfectly Reasonable Title\n\nThe rest of the document follows here."

	withHint, err := extractor.FromText(body, "Custom Title")
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	if withHint.Title != "Custom Title" {
		t.Fatalf("expected hint to win, got %q", withHint.Title)
	}

	withoutHint, err := extractor.FromText(body, "")
	if err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	if withoutHint.Title != "A Perfectly Reasonable Title" {
		t.Fatalf("expected first-line title, got %q", withoutHint.Title)
	}
}

func TestFromTextRejectsShortInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	extractor := extract.New(cfg)

	_, err := extractor.FromText("too short", "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFromURLExtractsProseAndTitle(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head>
<title>Fallback Title</title>
<meta property="og:title" content="The Real Article Title">
<script>ignore();</script>
</head><body>
<nav>Home About Contact</nav>
<article>
<h1>The Real Article Title</h1>
<p>This is the first paragraph of the article and it is long enough to matter.</p>
<p>This is the second paragraph with more body text to clear the length floor.</p>
</article>
<footer>Copyright nobody</footer>
</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Extraction.MinTextLength = 50
	extractor := extract.New(cfg)

	result, err := extractor.FromURL(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FromURL failed: %v", err)
	}
	if result.Title != "The Real Article Title" {
		t.Fatalf("expected og:title, got %q", result.Title)
	}
	if !strings.Contains(result.Text, "first paragraph") || !strings.Contains(result.Text, "second paragraph") {
		t.Fatalf("expected article prose, got %q", result.Text)
	}
	if strings.Contains(result.Text, "ignore()") || strings.Contains(result.Text, "Home About Contact") {
		t.Fatalf("expected script and nav stripped, got %q", result.Text)
	}
}

func TestFromURLMapsFetchFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	extractor := extract.New(cfg)

	_, err := extractor.FromURL(context.Background(), server.URL)
	if !services.IsDomain(err) {
		t.Fatalf("expected domain error for HTTP failure, got %v", err)
	}
}

func TestCleanForNarration(t *testing.T) {
	input := "# Introduction\n\nSee [the docs](https://example.com/docs) and " +
		"https://example.com for details [1], [2,3].\n\nContact author@example.com. " +
		"Inline $x^2$ math and `code()` vanish.\n\n- bullet one\n- bullet two\n\n" +
		"Figure 3: a chart\n\nNormal prose survives."

	got := extract.CleanForNarration(input)

	for _, banned := range []string{"https://", "example.com", "[1]", "$x^2$", "code()", "Figure 3", "- bullet"} {
		if strings.Contains(got, banned) {
			t.Fatalf("expected %q stripped, got %q", banned, got)
		}
	}
	for _, kept := range []string{"Introduction.", "the docs", "bullet one", "Normal prose survives."} {
		if !strings.Contains(got, kept) {
			t.Fatalf("expected %q kept, got %q", kept, got)
		}
	}
}

func TestTitleHelpers(t *testing.T) {
	if got := extract.TitleFromFilename("/tmp/deep_learning-survey.pdf"); got != "Deep Learning Survey" {
		t.Fatalf("unexpected filename title %q", got)
	}
	if got := extract.TitleFromURL("https://www.example.com/post/42"); got != "example.com" {
		t.Fatalf("unexpected url title %q", got)
	}
	if got := extract.TitleFromText("x\nshort\nA line that is long enough to be a title\nrest"); got != "A line that is long enough to be a title" {
		t.Fatalf("unexpected text title %q", got)
	}
}
