package textchunk

import (
	"regexp"
	"strings"
)

// DefaultMaxChars keeps chunks conservative for the synthesis phoneme limit.
const DefaultMaxChars = 250

var clausePattern = regexp.MustCompile(`[,;:]\s+`)

// Split packs sentences into chunks of at most maxChars characters. A
// sentence that exceeds the bound on its own is split at clause punctuation,
// then hard-cut as a last resort. The result is never empty: text with no
// sentences comes back as a single chunk.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	sentences := SplitSentences(text)

	var chunks []string
	current := ""
	for _, sentence := range sentences {
		if len(current)+len(sentence)+1 <= maxChars {
			current += sentence + " "
			continue
		}
		if current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
		}
		if len(sentence) > maxChars {
			chunks = append(chunks, splitOversized(sentence, maxChars)...)
			current = ""
		} else {
			current = sentence + " "
		}
	}
	if tail := strings.TrimSpace(current); tail != "" {
		chunks = append(chunks, tail)
	}

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

// splitOversized breaks a single too-long sentence at clause punctuation,
// falling back to rune-safe hard cuts for clause-free runs.
func splitOversized(sentence string, maxChars int) []string {
	var out []string
	for _, part := range clausePattern.Split(sentence, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if len(part) <= maxChars {
			out = append(out, part)
			continue
		}
		runes := []rune(part)
		for start := 0; start < len(runes); start += maxChars {
			end := start + maxChars
			if end > len(runes) {
				end = len(runes)
			}
			if cut := strings.TrimSpace(string(runes[start:end])); cut != "" {
				out = append(out, cut)
			}
		}
	}
	return out
}
