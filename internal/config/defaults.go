package config

const (
	defaultDataDir            = "~/.outloud"
	defaultTTSServiceURL      = "http://localhost:8880"
	defaultTTSTimeoutSeconds  = 300
	defaultMaxChunkChars      = 250
	defaultVoice              = "af_heart"
	defaultSpeed              = 1.0
	defaultMP3Bitrate         = "192k"
	defaultOllamaURL          = "http://localhost:11434"
	defaultCleanupModel       = "llama3.2:1b"
	defaultCleanupGroupChars  = 2000
	defaultCleanupTimeout     = 300
	defaultMinTextLength      = 100
	defaultFetchTimeout       = 60
	defaultMaxUploadBytes     = 50 << 20
	defaultQueuePollInterval  = 30
	defaultErrorRetryInterval = 5
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		TTS: TTS{
			ServiceURL:     defaultTTSServiceURL,
			TimeoutSeconds: defaultTTSTimeoutSeconds,
			MaxChunkChars:  defaultMaxChunkChars,
			DefaultVoice:   defaultVoice,
			DefaultSpeed:   defaultSpeed,
			MP3Bitrate:     defaultMP3Bitrate,
			Timestamps:     true,
		},
		Cleanup: Cleanup{
			OllamaURL:      defaultOllamaURL,
			Model:          defaultCleanupModel,
			GroupChars:     defaultCleanupGroupChars,
			TimeoutSeconds: defaultCleanupTimeout,
		},
		Extraction: Extraction{
			MinTextLength:  defaultMinTextLength,
			FetchTimeout:   defaultFetchTimeout,
			MaxUploadBytes: defaultMaxUploadBytes,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
