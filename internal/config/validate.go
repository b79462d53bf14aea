package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateCleanup(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTTS() error {
	if _, err := url.ParseRequestURI(c.TTS.ServiceURL); err != nil {
		return fmt.Errorf("tts.service_url %q is not a valid URL: %w", c.TTS.ServiceURL, err)
	}
	if c.TTS.MaxChunkChars < 50 {
		return errors.New("tts.max_chunk_chars must be at least 50")
	}
	if c.TTS.DefaultSpeed < 0.5 || c.TTS.DefaultSpeed > 2.0 {
		return errors.New("tts.default_speed must be between 0.5 and 2.0")
	}
	return nil
}

func (c *Config) validateCleanup() error {
	if _, err := url.ParseRequestURI(c.Cleanup.OllamaURL); err != nil {
		return fmt.Errorf("cleanup.ollama_url %q is not a valid URL: %w", c.Cleanup.OllamaURL, err)
	}
	if c.Cleanup.GroupChars < 200 {
		return errors.New("cleanup.group_chars must be at least 200")
	}
	return nil
}

func (c *Config) validateExtraction() error {
	if c.Extraction.MinTextLength < 1 {
		return errors.New("extraction.min_text_length must be positive")
	}
	return nil
}
