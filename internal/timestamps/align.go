package timestamps

import (
	"math"
	"unicode/utf8"

	"outloud/internal/tts"
)

// frameDivisor converts duration-model frame counts into seconds at the
// model's native hop. Paired with the speed factor it yields predicted
// seconds, which Rescale then pins to actual audio length.
const frameDivisor = 80.0

// WordStamp is one word's timing inside a narration.
type WordStamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Align walks the duration model's per-frame predictions and assigns each
// word token a start and end time. Tokens without phonemes consume only
// their trailing-space frames. Timestamps are predicted, not measured;
// callers rescale them against the actual audio duration.
func Align(tokens []tts.Token, predDur []float64, speed float64) []WordStamp {
	if len(tokens) == 0 || len(predDur) < 3 {
		return nil
	}
	if speed <= 0 {
		speed = 1.0
	}

	var stamps []WordStamp
	left := 2 * math.Max(0, predDur[0]-3)
	right := left
	i := 1

	for _, token := range tokens {
		if i >= len(predDur)-1 {
			break
		}
		if token.Phonemes == "" {
			if token.Whitespace {
				i++
				if i < len(predDur) {
					left = right + predDur[i]
					right = left + predDur[i]
					i++
				}
			}
			continue
		}

		j := i + utf8.RuneCountInString(token.Phonemes)
		if j >= len(predDur) {
			break
		}

		start := left / frameDivisor / speed
		tokenDur := 0.0
		for _, d := range predDur[i:j] {
			tokenDur += d
		}
		spaceDur := 0.0
		if token.Whitespace {
			spaceDur = predDur[j]
		}
		left = right + 2*tokenDur + spaceDur
		end := left / frameDivisor / speed
		right = left + spaceDur
		i = j
		if token.Whitespace {
			i++
		}

		stamps = append(stamps, WordStamp{Word: token.Text, Start: start, End: end})
	}

	return stamps
}

// Rescale linearly stretches predicted stamps so the final word ends exactly
// at the measured audio duration.
func Rescale(stamps []WordStamp, actualDuration float64) {
	if len(stamps) == 0 {
		return
	}
	predicted := stamps[len(stamps)-1].End
	if predicted <= 0 {
		return
	}
	scale := actualDuration / predicted
	for k := range stamps {
		stamps[k].Start *= scale
		stamps[k].End *= scale
	}
}

// Offset shifts stamps forward by the given number of seconds. Used to place
// a chunk's stamps on the combined narration's timeline.
func Offset(stamps []WordStamp, seconds float64) {
	for k := range stamps {
		stamps[k].Start += seconds
		stamps[k].End += seconds
	}
}
