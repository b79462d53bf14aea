package testsupport

import (
	"path/filepath"
	"testing"

	"outloud/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = base
	cfgVal.Paths.TextsDir = filepath.Join(base, "texts")
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.UploadsDir = filepath.Join(base, "uploads")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTTSServiceURL overrides the synthesis service endpoint on the test config.
func WithTTSServiceURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TTS.ServiceURL = url
	}
}

// WithOllamaURL overrides the cleanup service endpoint on the test config.
func WithOllamaURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cleanup.OllamaURL = url
	}
}

// WithMaxChunkChars overrides the synthesis chunk bound on the test config.
func WithMaxChunkChars(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TTS.MaxChunkChars = n
	}
}
