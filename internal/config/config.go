package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for the on-disk data layout.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	TextsDir   string `toml:"texts_dir"`
	AudioDir   string `toml:"audio_dir"`
	UploadsDir string `toml:"uploads_dir"`
	LogDir     string `toml:"log_dir"`
}

// TTS contains configuration for the speech synthesis service.
type TTS struct {
	ServiceURL     string  `toml:"service_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	MaxChunkChars  int     `toml:"max_chunk_chars"`
	DefaultVoice   string  `toml:"default_voice"`
	DefaultSpeed   float64 `toml:"default_speed"`
	MP3Bitrate     string  `toml:"mp3_bitrate"`
	Timestamps     bool    `toml:"timestamps"`
}

// Cleanup contains configuration for the LLM text cleanup service.
type Cleanup struct {
	OllamaURL      string `toml:"ollama_url"`
	Model          string `toml:"model"`
	GroupChars     int    `toml:"group_chars"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Extraction contains configuration for document text extraction.
type Extraction struct {
	MinTextLength  int `toml:"min_text_length"`
	FetchTimeout   int `toml:"fetch_timeout"`
	MaxUploadBytes int `toml:"max_upload_bytes"`
}

// Workflow contains configuration for worker timing and intervals.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for outloud.
//
// Configuration sections by subsystem:
//   - Paths: data, text, audio, upload, and log directories
//   - TTS: synthesis service endpoint, chunking limit, voice defaults
//   - Cleanup: Ollama endpoint and paragraph grouping for LLM cleanup
//   - Extraction: minimum usable text length and fetch limits
//   - Workflow: worker polling intervals
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	TTS        TTS        `toml:"tts"`
	Cleanup    Cleanup    `toml:"cleanup"`
	Extraction Extraction `toml:"extraction"`
	Workflow   Workflow   `toml:"workflow"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/outloud/config.toml")
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("outloud.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.TextsDir, c.Paths.AudioDir, c.Paths.UploadsDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for MP3 encoding.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// Timeout returns the synthesis request timeout.
func (t TTS) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// Timeout returns the cleanup request timeout.
func (c Cleanup) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// FetchTimeoutDuration returns the URL fetch timeout.
func (e Extraction) FetchTimeoutDuration() time.Duration {
	return time.Duration(e.FetchTimeout) * time.Second
}

// PollInterval returns how long the worker sleeps between queue scans when
// no wake signal arrives.
func (w Workflow) PollInterval() time.Duration {
	return time.Duration(w.QueuePollInterval) * time.Second
}

// RetryInterval returns the backoff applied after a transient failure.
func (w Workflow) RetryInterval() time.Duration {
	return time.Duration(w.ErrorRetryInterval) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
