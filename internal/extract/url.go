package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"outloud/internal/services"
)

// Elements whose text never belongs in a narration.
var skippedElements = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "nav": {}, "header": {},
	"footer": {}, "aside": {}, "form": {}, "button": {}, "svg": {}, "iframe": {},
}

// Elements that end a block of prose.
var blockElements = map[string]struct{}{
	"p": {}, "div": {}, "article": {}, "section": {}, "li": {}, "blockquote": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {}, "br": {}, "tr": {},
}

// FromURL fetches a web page and extracts its readable text. The page title
// comes from og:title or <title>, falling back to the host name.
func (e *Extractor) FromURL(ctx context.Context, rawURL string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "extraction", "fetch url", rawURL, err)
	}
	req.Header.Set("User-Agent", "outloud/1.0")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "extraction", "fetch url",
			"could not fetch "+rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, services.Wrap(services.ErrExternalTool, "extraction", "fetch url",
			fmt.Sprintf("%s returned %s", rawURL, resp.Status), nil)
	}

	limit := int64(e.cfg.Extraction.MaxUploadBytes)
	if limit <= 0 {
		limit = 16 << 20
	}
	doc, err := html.Parse(io.LimitReader(resp.Body, limit))
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "extraction", "parse html", rawURL, err)
	}

	title, text := readPage(doc)
	text = CleanForNarration(text)
	if err := e.checkUsable(text, rawURL); err != nil {
		return Result{}, err
	}
	if title == "" {
		title = TitleFromURL(rawURL)
	}
	return Result{Title: title, Text: text}, nil
}

// readPage walks the parsed document collecting prose text and the best
// available title.
func readPage(doc *html.Node) (string, string) {
	var (
		builder   strings.Builder
		pageTitle string
		ogTitle   string
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skippedElements[n.Data]; skip {
				return
			}
			switch n.Data {
			case "title":
				if n.FirstChild != nil && pageTitle == "" {
					pageTitle = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			case "meta":
				if attrValue(n, "property") == "og:title" {
					if v := strings.TrimSpace(attrValue(n, "content")); v != "" {
						ogTitle = v
					}
				}
			}
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				builder.WriteString(trimmed)
				builder.WriteByte(' ')
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if n.Type == html.ElementNode {
			if _, block := blockElements[n.Data]; block {
				builder.WriteString("\n")
			}
		}
	}
	walk(doc)

	title := ogTitle
	if title == "" {
		title = pageTitle
	}
	return title, builder.String()
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
