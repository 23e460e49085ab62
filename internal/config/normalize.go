package config

import (
	"fmt"
	"os"
	"strings"

	"bleeper/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizeRedaction(); err != nil {
		return err
	}
	c.normalizeTranscription()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeRedaction() error {
	entries := make([]string, 0, len(c.Redaction.Lexicon))
	seen := make(map[string]struct{}, len(c.Redaction.Lexicon))
	for _, entry := range c.Redaction.Lexicon {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		entries = append(entries, entry)
	}
	c.Redaction.Lexicon = entries

	var err error
	if c.Redaction.LexiconFile, err = expandPath(strings.TrimSpace(c.Redaction.LexiconFile)); err != nil {
		return fmt.Errorf("redaction.lexicon_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultWhisperModel
	}
	c.Transcription.VADMethod = strings.ToLower(strings.TrimSpace(c.Transcription.VADMethod))
	if c.Transcription.VADMethod == "" {
		c.Transcription.VADMethod = defaultVADMethod
	}
	c.Transcription.HFToken = strings.TrimSpace(c.Transcription.HFToken)
	if c.Transcription.HFToken == "" {
		for _, key := range []string{"HF_TOKEN", "HUGGING_FACE_HUB_TOKEN"} {
			if value := strings.TrimSpace(os.Getenv(key)); value != "" {
				c.Transcription.HFToken = value
				break
			}
		}
	}
	c.Transcription.Languages = language.NormalizeList(c.Transcription.Languages)
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Dir) == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
