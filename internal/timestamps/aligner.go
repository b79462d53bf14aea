package timestamps

import (
	"context"
	"errors"
	"fmt"

	"outloud/internal/tts"
)

// ErrUnavailable indicates timing could not be produced for a chunk. Audio
// generation proceeds without stamps; timestamps never block narration.
var ErrUnavailable = errors.New("alignment unavailable")

// Aligner produces word timing for synthesized chunks by querying the
// secondary duration model.
type Aligner struct {
	predictor tts.DurationPredictor
}

// NewAligner builds an Aligner on top of a duration predictor.
func NewAligner(predictor tts.DurationPredictor) *Aligner {
	return &Aligner{predictor: predictor}
}

// AlignChunk returns word stamps for one synthesized chunk, rescaled so the
// last word ends exactly when the chunk's audio does. Every failure path
// maps to ErrUnavailable so callers can distinguish "no timing" from a
// synthesis problem.
func (a *Aligner) AlignChunk(ctx context.Context, text, voice string, speed float64, sampleCount int) ([]WordStamp, error) {
	if a == nil || a.predictor == nil {
		return nil, ErrUnavailable
	}

	tokens, durations, err := a.predictor.Durations(ctx, text, voice, speed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// The duration model skips chunks it cannot tokenize within its input
	// budget and reports them with an empty prediction.
	if len(durations) == 0 {
		return nil, ErrUnavailable
	}

	stamps := Align(tokens, durations, speed)
	if len(stamps) == 0 {
		return nil, ErrUnavailable
	}

	Rescale(stamps, float64(sampleCount)/float64(tts.SampleRate))
	return stamps, nil
}
