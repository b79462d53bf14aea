package timestamps

import (
	"strings"

	"outloud/internal/textchunk"
)

// SentenceStamps groups word timing under the sentence the words belong to,
// which is the shape players consume for karaoke-style highlighting.
type SentenceStamps struct {
	Text  string      `json:"text"`
	Words []WordStamp `json:"words"`
}

// GroupSentences assigns word stamps to the sentences of the narrated text.
// Words are matched by case-insensitive containment in the sentence, with
// bare punctuation always accepted.
//
// Containment cannot disambiguate repeated words, so a word may be assigned
// to an earlier sentence that happens to contain it. Kept as-is; downstream
// consumers rely on this grouping's exact behavior.
func GroupSentences(text string, words []WordStamp) []SentenceStamps {
	if len(words) == 0 {
		return nil
	}

	sentences := textchunk.SplitSentences(text)
	var result []SentenceStamps
	idx := 0

	for _, sentence := range sentences {
		sentenceLower := strings.ToLower(sentence)
		group := SentenceStamps{Text: sentence}

		for idx < len(words) {
			word := words[idx].Word
			if !strings.Contains(sentenceLower, strings.ToLower(word)) && !strings.Contains(".!?,;:", word) {
				break
			}
			group.Words = append(group.Words, words[idx])
			idx++

			if strings.Contains(".!?", word) && idx < len(words) {
				break
			}
		}

		if len(group.Words) > 0 {
			result = append(result, group)
		}
	}

	return result
}
