package tts

import (
	"context"
	"errors"
)

// SampleRate is the fixed output rate of the synthesis model.
const SampleRate = 24000

// ErrPhonemeOverflow indicates a chunk phonemized past the model's input
// budget. Callers recover by splitting the chunk and retrying the halves.
var ErrPhonemeOverflow = errors.New("phoneme budget exceeded")

// Voice describes one synthesis voice offered by the service.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Gender   string `json:"gender"`
}

// Token is one word-level unit from the duration model's phonemizer.
// Phonemes is empty for punctuation-only tokens; Whitespace records whether
// the token was followed by a space in the source text.
type Token struct {
	Text       string `json:"text"`
	Phonemes   string `json:"phonemes"`
	Whitespace bool   `json:"whitespace"`
}

// Engine produces waveforms for bounded text chunks.
type Engine interface {
	// Synthesize renders one chunk and returns mono samples plus the sample
	// rate. Returns ErrPhonemeOverflow when the chunk is too long for the
	// model.
	Synthesize(ctx context.Context, text, voice string, speed float64) ([]float32, int, error)

	// Voices lists the voices the service can synthesize with.
	Voices(ctx context.Context) ([]Voice, error)

	// Health reports whether the service is reachable.
	Health(ctx context.Context) error
}

// DurationPredictor estimates per-frame durations for a chunk using the
// secondary timestamped model. Used only for word timing, never for audio.
type DurationPredictor interface {
	Durations(ctx context.Context, text, voice string, speed float64) ([]Token, []float64, error)
}
