package textchunk

import "strings"

// Titles and common abbreviations whose trailing period never ends a
// sentence. Matched case-sensitively against the token before the period.
var abbreviations = map[string]struct{}{
	"Mr": {}, "Mrs": {}, "Dr": {}, "Ms": {}, "Prof": {}, "Sr": {}, "Jr": {},
	"vs": {}, "etc": {}, "No": {}, "St": {},
}

// SplitSentences splits text into sentences. A sentence ends at '.', '!' or
// '?' followed by whitespace and an uppercase letter, an opening quote, or
// end of text. Periods inside abbreviations, initials, decimals, and the
// interior of an ellipsis are not boundaries; an ellipsis ends a sentence
// at its final period.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '.' && ch != '!' && ch != '?' {
			continue
		}
		if ch == '.' && shouldSkipPeriod(text, i) {
			continue
		}
		if !isSentenceBoundary(text, i) {
			continue
		}
		if sentence := strings.TrimSpace(text[start : i+1]); sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}

	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func shouldSkipPeriod(text string, idx int) bool {
	// Ellipsis: only its final period may end the sentence.
	if idx+1 < len(text) && text[idx+1] == '.' {
		return true
	}

	// Decimal numbers
	if idx > 0 && idx+1 < len(text) && isDigit(text[idx-1]) && isDigit(text[idx+1]) {
		return true
	}

	token := tokenBeforePeriod(text, idx)
	if token == "" {
		return false
	}

	// Initials and dotted abbreviations like "e.g." or "i.e."
	if len(token) == 1 && isAlpha(token[0]) {
		return true
	}

	_, ok := abbreviations[token]
	return ok
}

func tokenBeforePeriod(text string, idx int) string {
	i := idx - 1
	for i >= 0 && (isAlpha(text[i]) || isDigit(text[i])) {
		i--
	}
	return text[i+1 : idx]
}

func isSentenceBoundary(text string, punctIdx int) bool {
	i := punctIdx + 1
	if i >= len(text) {
		return true
	}
	if !isSpace(text[i]) {
		return false
	}
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	if i >= len(text) {
		return true
	}
	next := text[i]
	return (next >= 'A' && next <= 'Z') || next == '"' || next == '\''
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
