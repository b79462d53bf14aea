package tts

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"outloud/internal/logging"
	"outloud/internal/services"
)

// maxSplitDepth bounds the recursive halving applied when a chunk overflows
// the model's phoneme budget. Three levels cut a chunk into at most eight
// pieces, which is always enough for chunks produced by textchunk.
const maxSplitDepth = 3

// Synthesizer renders chunks through an Engine, recovering from phoneme
// overflow by splitting the chunk at whitespace and synthesizing the halves
// in order.
type Synthesizer struct {
	engine Engine
	logger *slog.Logger
}

// NewSynthesizer wraps an engine with overflow recovery.
func NewSynthesizer(engine Engine, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Synthesizer{engine: engine, logger: logger}
}

// SynthesizeChunk renders one chunk, splitting and retrying on overflow.
// Samples from split pieces are concatenated left to right, so output order
// always matches text order. Only overflow triggers a split; any other
// error propagates immediately.
func (s *Synthesizer) SynthesizeChunk(ctx context.Context, chunk, voice string, speed float64) ([]float32, int, error) {
	return s.synthesize(ctx, chunk, voice, speed, maxSplitDepth)
}

func (s *Synthesizer) synthesize(ctx context.Context, chunk, voice string, speed float64, depth int) ([]float32, int, error) {
	samples, rate, err := s.engine.Synthesize(ctx, chunk, voice, speed)
	if err == nil {
		return samples, rate, nil
	}
	if !errors.Is(err, ErrPhonemeOverflow) {
		return nil, 0, err
	}
	if depth <= 0 {
		return nil, 0, exhaustedOverflow(err)
	}

	left, right := halveAtWhitespace(chunk)
	if left == "" || right == "" {
		return nil, 0, exhaustedOverflow(err)
	}
	s.logger.Debug("splitting overflowed chunk",
		logging.Int("chunk_chars", len(chunk)),
		logging.Int("depth_remaining", depth-1))

	leftSamples, rate, err := s.synthesize(ctx, left, voice, speed, depth-1)
	if err != nil {
		return nil, 0, err
	}
	rightSamples, _, err := s.synthesize(ctx, right, voice, speed, depth-1)
	if err != nil {
		return nil, 0, err
	}
	return append(leftSamples, rightSamples...), rate, nil
}

// exhaustedOverflow marks an overflow the split budget could not resolve.
// The chunk cannot be narrated, so the item fails rather than the worker.
func exhaustedOverflow(err error) error {
	return services.Wrap(services.ErrExternalTool, "", "synthesize",
		"chunk still overflows the phoneme budget after splitting", err)
}

// halveAtWhitespace splits a chunk near its midpoint, preferring the last
// space before the midpoint so words stay intact.
func halveAtWhitespace(chunk string) (string, string) {
	mid := len(chunk) / 2
	if space := strings.LastIndex(chunk[:mid], " "); space > 0 {
		mid = space
	}
	return strings.TrimSpace(chunk[:mid]), strings.TrimSpace(chunk[mid:])
}
