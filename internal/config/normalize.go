package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTTS()
	c.normalizeCleanup()
	c.normalizeExtraction()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}

	// The remaining directories default to subdirectories of data_dir so a
	// single override relocates the whole layout.
	derived := map[*string]string{
		&c.Paths.TextsDir:   "texts",
		&c.Paths.AudioDir:   "audio",
		&c.Paths.UploadsDir: "uploads",
		&c.Paths.LogDir:     "logs",
	}
	for field, sub := range derived {
		if strings.TrimSpace(*field) == "" {
			*field = filepath.Join(c.Paths.DataDir, sub)
			continue
		}
		if *field, err = expandPath(*field); err != nil {
			return fmt.Errorf("paths.%s_dir: %w", sub, err)
		}
	}
	return nil
}

func (c *Config) normalizeTTS() {
	c.TTS.ServiceURL = strings.TrimRight(strings.TrimSpace(c.TTS.ServiceURL), "/")
	if c.TTS.ServiceURL == "" {
		c.TTS.ServiceURL = defaultTTSServiceURL
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeoutSeconds
	}
	if c.TTS.MaxChunkChars <= 0 {
		c.TTS.MaxChunkChars = defaultMaxChunkChars
	}
	c.TTS.DefaultVoice = strings.TrimSpace(c.TTS.DefaultVoice)
	if c.TTS.DefaultVoice == "" {
		c.TTS.DefaultVoice = defaultVoice
	}
	if c.TTS.DefaultSpeed <= 0 {
		c.TTS.DefaultSpeed = defaultSpeed
	}
	c.TTS.MP3Bitrate = strings.TrimSpace(c.TTS.MP3Bitrate)
	if c.TTS.MP3Bitrate == "" {
		c.TTS.MP3Bitrate = defaultMP3Bitrate
	}
}

func (c *Config) normalizeCleanup() {
	c.Cleanup.OllamaURL = strings.TrimRight(strings.TrimSpace(c.Cleanup.OllamaURL), "/")
	if c.Cleanup.OllamaURL == "" {
		c.Cleanup.OllamaURL = defaultOllamaURL
	}
	c.Cleanup.Model = strings.TrimSpace(c.Cleanup.Model)
	if c.Cleanup.Model == "" {
		c.Cleanup.Model = defaultCleanupModel
	}
	if c.Cleanup.GroupChars <= 0 {
		c.Cleanup.GroupChars = defaultCleanupGroupChars
	}
	if c.Cleanup.TimeoutSeconds <= 0 {
		c.Cleanup.TimeoutSeconds = defaultCleanupTimeout
	}
}

func (c *Config) normalizeExtraction() {
	if c.Extraction.MinTextLength <= 0 {
		c.Extraction.MinTextLength = defaultMinTextLength
	}
	if c.Extraction.FetchTimeout <= 0 {
		c.Extraction.FetchTimeout = defaultFetchTimeout
	}
	if c.Extraction.MaxUploadBytes <= 0 {
		c.Extraction.MaxUploadBytes = defaultMaxUploadBytes
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
