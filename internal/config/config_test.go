package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"outloud/internal/config"
)

func TestLoadDefaultsAndDerivedPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".outloud")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.TextsDir != filepath.Join(wantData, "texts") {
		t.Fatalf("unexpected texts dir: %q", cfg.Paths.TextsDir)
	}
	if cfg.Paths.AudioDir != filepath.Join(wantData, "audio") {
		t.Fatalf("unexpected audio dir: %q", cfg.Paths.AudioDir)
	}
	if cfg.TTS.DefaultVoice != "af_heart" {
		t.Fatalf("unexpected default voice: %q", cfg.TTS.DefaultVoice)
	}
	if cfg.TTS.MaxChunkChars != 250 {
		t.Fatalf("unexpected max chunk chars: %d", cfg.TTS.MaxChunkChars)
	}
	if cfg.Workflow.QueuePollInterval != 30 {
		t.Fatalf("unexpected poll interval: %d", cfg.Workflow.QueuePollInterval)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outloud.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "store") + `"`,
		"",
		"[tts]",
		`service_url = "http://localhost:9999/"`,
		"max_chunk_chars = 300",
		"",
		"[logging]",
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Paths.DataDir != filepath.Join(dir, "store") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.TTS.ServiceURL != "http://localhost:9999" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.TTS.ServiceURL)
	}
	if cfg.TTS.MaxChunkChars != 300 {
		t.Fatalf("unexpected max chunk chars: %d", cfg.TTS.MaxChunkChars)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad service url", func(c *config.Config) { c.TTS.ServiceURL = "not a url" }},
		{"tiny chunk limit", func(c *config.Config) { c.TTS.MaxChunkChars = 10 }},
		{"speed out of range", func(c *config.Config) { c.TTS.DefaultSpeed = 9 }},
		{"tiny cleanup group", func(c *config.Config) { c.Cleanup.GroupChars = 10 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestEnsureDirectoriesCreatesLayout(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.TextsDir = filepath.Join(base, "data", "texts")
	cfg.Paths.AudioDir = filepath.Join(base, "data", "audio")
	cfg.Paths.UploadsDir = filepath.Join(base, "data", "uploads")
	cfg.Paths.LogDir = filepath.Join(base, "data", "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.TextsDir, cfg.Paths.AudioDir, cfg.Paths.UploadsDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist", dir)
		}
	}
}
