package extract

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headingPrefix  = regexp.MustCompile(`^#+\s*`)
	emphasisMarks  = regexp.MustCompile(`\*+`)
	separatorRuns  = regexp.MustCompile(`[_-]+`)
	titleCaser     = cases.Title(language.English)
	maxTitleLength = 200
)

// TitleFromText picks a display title from the first few lines of extracted
// text. Returns empty when nothing plausible is found.
func TitleFromText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= 10 || len(line) >= maxTitleLength {
			continue
		}
		title := headingPrefix.ReplaceAllString(line, "")
		title = emphasisMarks.ReplaceAllString(title, "")
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}
	return ""
}

// TitleFromFilename derives a title from an uploaded file's name.
func TitleFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = separatorRuns.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)
	if base == "" {
		return "Untitled"
	}
	return titleCaser.String(base)
}

// TitleFromURL derives a fallback title from the page's host.
func TitleFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
