package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"outloud/internal/audio"
	"outloud/internal/config"
	"outloud/internal/logging"
	"outloud/internal/queue"
	"outloud/internal/services"
	"outloud/internal/stage"
	"outloud/internal/textchunk"
	"outloud/internal/timestamps"
	"outloud/internal/tts"
)

// MP3Encoder writes samples to an MP3 file.
type MP3Encoder interface {
	EncodeMP3(ctx context.Context, samples []float32, sampleRate int, outputPath string) error
}

// Generator is the synthesis stage handler: chunk the narration text,
// synthesize each chunk, align word timing best effort, and encode the
// combined audio.
type Generator struct {
	store       *queue.Store
	cfg         *config.Config
	logger      *slog.Logger
	engine      tts.Engine
	synthesizer *tts.Synthesizer
	aligner     *timestamps.Aligner
	encoder     MP3Encoder
}

// NewGenerator constructs the generation stage handler with the HTTP TTS
// client and ffmpeg encoder.
func NewGenerator(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Generator {
	client := tts.NewClient(cfg.TTS.ServiceURL, cfg.TTS.Timeout())
	var aligner *timestamps.Aligner
	if cfg.TTS.Timestamps {
		aligner = timestamps.NewAligner(client)
	}
	encoder := audio.NewEncoder(cfg.FFmpegBinary(), cfg.TTS.MP3Bitrate)
	return NewGeneratorWithDependencies(cfg, store, logger, client, aligner, encoder)
}

// NewGeneratorWithDependencies allows injecting collaborators (used in tests).
func NewGeneratorWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, engine tts.Engine, aligner *timestamps.Aligner, encoder MP3Encoder) *Generator {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "generation"))
	}
	return &Generator{
		store:       store,
		cfg:         cfg,
		logger:      stageLogger,
		engine:      engine,
		synthesizer: tts.NewSynthesizer(engine, stageLogger),
		aligner:     aligner,
		encoder:     encoder,
	}
}

func (g *Generator) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, g.logger)
	item.Progress = "Generating audio"
	item.ErrorMessage = ""
	logger.Info("starting audio generation",
		logging.String("voice", item.Voice),
		logging.Float64("speed", item.Speed))
	return nil
}

func (g *Generator) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, g.logger)

	audioName := item.AudioName()
	audioPath := filepath.Join(g.cfg.Paths.AudioDir, audioName)
	if _, err := os.Stat(audioPath); err == nil {
		logger.Info("audio artifact already present", logging.String("artifact", audioName))
		item.AudioRef = audioName
		stampsName := item.TimestampsName()
		if _, err := os.Stat(filepath.Join(g.cfg.Paths.AudioDir, stampsName)); err == nil {
			item.TimestampsRef = stampsName
		}
		item.Stage = queue.StageReady
		item.Progress = ""
		return nil
	}

	text, usedCleaned, err := stage.SourceText(g.cfg, item)
	if err != nil {
		return err
	}
	logger.Info("loaded narration text",
		logging.Int("chars", len(text)),
		logging.Bool("cleaned", usedCleaned))

	maxChars := g.cfg.TTS.MaxChunkChars
	chunks := textchunk.Split(text, maxChars)

	var (
		samples    []float32
		sampleRate int
		sentences  []timestamps.SentenceStamps
	)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrTransient, "generation", "synthesize", "generation interrupted", err)
		}

		chunkSamples, rate, err := g.synthesizer.SynthesizeChunk(ctx, chunk, item.Voice, item.Speed)
		if err != nil {
			return err
		}
		if sampleRate == 0 {
			sampleRate = rate
		}

		if g.aligner != nil {
			stamps, err := g.aligner.AlignChunk(ctx, chunk, item.Voice, item.Speed, len(chunkSamples))
			if err != nil {
				// Timing is best effort; a chunk that fails to align
				// contributes no stamps and the rest keep theirs.
				logger.Warn("word alignment unavailable", logging.Int("chunk", i+1), logging.Error(err))
			} else {
				timestamps.Offset(stamps, float64(len(samples))/float64(rate))
				sentences = append(sentences, timestamps.GroupSentences(chunk, stamps)...)
			}
		}

		samples = append(samples, chunkSamples...)

		progress := fmt.Sprintf("%d/%d chunks", i+1, len(chunks))
		item.Progress = progress
		if err := g.store.SetProgress(ctx, item.ID, progress); err != nil {
			logger.Warn("failed to record synthesis progress", logging.Error(err))
		}
	}

	if len(samples) == 0 {
		return services.Wrap(services.ErrExternalTool, "generation", "synthesize", "synthesis produced no audio", nil)
	}

	if err := g.encoder.EncodeMP3(ctx, samples, sampleRate, audioPath); err != nil {
		return err
	}
	item.AudioRef = audioName

	if g.aligner != nil && len(sentences) > 0 {
		if name, err := g.writeTimestamps(item, sentences); err != nil {
			logger.Warn("failed to persist timestamps", logging.Error(err))
		} else {
			item.TimestampsRef = name
		}
	}

	item.Stage = queue.StageReady
	item.Progress = ""
	logger.Info("audio generation finished",
		logging.String("artifact", audioName),
		logging.Int("chunks", len(chunks)),
		logging.Float64("duration_seconds", float64(len(samples))/float64(sampleRate)))
	return nil
}

func (g *Generator) writeTimestamps(item *queue.Item, sentences []timestamps.SentenceStamps) (string, error) {
	payload, err := json.MarshalIndent(sentences, "", "  ")
	if err != nil {
		return "", err
	}
	return stage.WriteArtifact(g.cfg.Paths.AudioDir, item.TimestampsName(), string(payload))
}

func (g *Generator) HealthCheck(ctx context.Context) stage.Health {
	if err := g.engine.Health(ctx); err != nil {
		return stage.Unhealthy("generation", fmt.Sprintf("tts service unreachable: %v", err))
	}
	return stage.Healthy("generation")
}
