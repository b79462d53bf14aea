package extract

import (
	"regexp"
	"strings"
)

// Patterns stripped from extracted text before narration. Citations, URLs,
// and layout markup read terribly out loud.
var (
	htmlTags        = regexp.MustCompile(`<[^>]+>`)
	latexBlocks     = regexp.MustCompile(`\$\$[\s\S]*?\$\$`)
	latexInline     = regexp.MustCompile(`\$[^$]+\$`)
	imageRefs       = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	markdownLinks   = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	referenceMarks  = regexp.MustCompile(`\[\d+(?:,\s*\d+)*\]`)
	bareURLs        = regexp.MustCompile(`https?://\S+`)
	emailAddresses  = regexp.MustCompile(`\S+@\S+\.\S+`)
	doiMarks        = regexp.MustCompile(`(?i)doi:?\s*\S+`)
	isbnMarks       = regexp.MustCompile(`ISBN[:\s]*[\d-]+`)
	headingLines    = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	bulletPrefixes  = regexp.MustCompile(`(?m)^\s*[-*•]\s+`)
	numberPrefixes  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	horizontalRules = regexp.MustCompile(`(?m)^[-*]{3,}$`)
	codeBlocks      = regexp.MustCompile("```[\\s\\S]*?```")
	inlineCode      = regexp.MustCompile("`[^`]+`")
	figureCaptions  = regexp.MustCompile(`(?m)^(Figure|Table) \d+:.*$`)
	spaceRuns       = regexp.MustCompile(`[ \t]+`)
	blankLineRuns   = regexp.MustCompile(`\n{3,}`)
)

// CleanForNarration strips markup and citation debris from extracted text
// so the narration reads as prose. Headings become standalone sentences to
// give the voice a natural pause.
func CleanForNarration(text string) string {
	text = htmlTags.ReplaceAllString(text, "")
	text = latexBlocks.ReplaceAllString(text, "")
	text = latexInline.ReplaceAllString(text, "")
	text = imageRefs.ReplaceAllString(text, "")
	text = markdownLinks.ReplaceAllString(text, "$1")
	text = referenceMarks.ReplaceAllString(text, "")
	text = bareURLs.ReplaceAllString(text, "")
	text = emailAddresses.ReplaceAllString(text, "")
	text = doiMarks.ReplaceAllString(text, "")
	text = isbnMarks.ReplaceAllString(text, "")
	text = codeBlocks.ReplaceAllString(text, "")
	text = inlineCode.ReplaceAllString(text, "")
	text = figureCaptions.ReplaceAllString(text, "")
	text = horizontalRules.ReplaceAllString(text, "")
	text = headingLines.ReplaceAllString(text, "\n$1.\n")
	text = bulletPrefixes.ReplaceAllString(text, "")
	text = numberPrefixes.ReplaceAllString(text, "")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
