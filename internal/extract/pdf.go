package extract

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"outloud/internal/services"
)

var contentPageNumber = regexp.MustCompile(`(\d+)`)

// FromPDF extracts narration text from a PDF file. Page content streams are
// pulled with pdfcpu and their text-string operands recovered in order.
func (e *Extractor) FromPDF(ctx context.Context, path string) (Result, error) {
	if _, err := os.Stat(path); err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "extraction", "open pdf", path, err)
	}

	tmpDir, err := os.MkdirTemp("", "outloud-pdf-*")
	if err != nil {
		return Result{}, services.Wrap(nil, "extraction", "extract pdf", "create temp dir", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := api.ExtractContentFile(path, tmpDir, nil, nil); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "extraction", "extract pdf",
			"pdfcpu could not read "+filepath.Base(path), err)
	}

	pages, err := contentFilesInPageOrder(tmpDir)
	if err != nil {
		return Result{}, services.Wrap(nil, "extraction", "extract pdf", "read extracted content", err)
	}

	var builder strings.Builder
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		data, err := os.ReadFile(page)
		if err != nil {
			return Result{}, services.Wrap(nil, "extraction", "extract pdf", "read page content", err)
		}
		builder.WriteString(textFromContentStream(data))
		builder.WriteString("\n\n")
	}

	text := CleanForNarration(builder.String())
	if err := e.checkUsable(text, filepath.Base(path)); err != nil {
		return Result{}, err
	}

	title := TitleFromText(text)
	if title == "" {
		title = TitleFromFilename(path)
	}
	return Result{Title: title, Text: text}, nil
}

// contentFilesInPageOrder lists pdfcpu's extracted content files sorted by
// the page number embedded in their filenames.
func contentFilesInPageOrder(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Slice(paths, func(i, j int) bool {
		return contentPageIndex(paths[i]) < contentPageIndex(paths[j])
	})
	return paths, nil
}

func contentPageIndex(path string) int {
	matches := contentPageNumber.FindAllString(filepath.Base(path), -1)
	if len(matches) == 0 {
		return 0
	}
	n, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return 0
	}
	return n
}

// textFromContentStream recovers the literal string operands of a PDF
// content stream, which carry the page's visible text for non-hex-encoded
// fonts. Hex strings and binary operands are skipped.
func textFromContentStream(data []byte) string {
	var out strings.Builder
	needSpace := false

	for i := 0; i < len(data); i++ {
		if data[i] != '(' {
			// Newline-ish positioning operators separate text runs.
			if data[i] == 'T' && i+1 < len(data) && (data[i+1] == 'd' || data[i+1] == '*') {
				needSpace = true
			}
			continue
		}
		literal, next := parseLiteralString(data, i)
		i = next
		if strings.TrimSpace(literal) == "" {
			continue
		}
		if needSpace && out.Len() > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(literal)
		needSpace = true
	}
	return out.String()
}

// parseLiteralString decodes one PDF literal string starting at the opening
// parenthesis, honoring escapes and balanced nested parentheses. It returns
// the decoded text and the index of the closing parenthesis.
func parseLiteralString(data []byte, start int) (string, int) {
	var out strings.Builder
	depth := 0
	i := start
	for ; i < len(data); i++ {
		ch := data[i]
		switch ch {
		case '\\':
			if i+1 >= len(data) {
				return out.String(), i
			}
			i++
			switch data[i] {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r', 'b', 'f':
				// Ignored control escapes.
			case '(', ')', '\\':
				out.WriteByte(data[i])
			default:
				// Octal escapes and line continuations are dropped.
			}
		case '(':
			depth++
			if depth > 1 {
				out.WriteByte(ch)
			}
		case ')':
			depth--
			if depth == 0 {
				return out.String(), i
			}
			out.WriteByte(ch)
		default:
			out.WriteByte(ch)
		}
	}
	return out.String(), i
}
