package config

import (
	"errors"
	"fmt"
	"os"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRedaction(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRedaction() error {
	r := c.Redaction
	if len(r.Lexicon) == 0 && r.LexiconFile == "" {
		return errors.New("redaction.lexicon or redaction.lexicon_file must provide at least one entry")
	}
	if r.LexiconFile != "" {
		info, err := os.Stat(r.LexiconFile)
		if err != nil {
			return fmt.Errorf("redaction.lexicon_file: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("redaction.lexicon_file: %s is a directory", r.LexiconFile)
		}
	}
	if r.PadMS < 0 {
		return errors.New("redaction.pad_ms must be >= 0")
	}
	if r.TargetSampleRate <= 0 {
		return errors.New("redaction.target_sample_rate must be positive")
	}
	if r.ToneFrequencyHz <= 0 {
		return errors.New("redaction.tone_frequency_hz must be positive")
	}
	if r.AmplitudeFraction <= 0 || r.AmplitudeFraction > 1 {
		return errors.New("redaction.amplitude_fraction must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.VADMethod {
	case "silero":
	case "pyannote":
		if c.Transcription.HFToken == "" {
			return errors.New("transcription.hf_token must be set when transcription.vad_method is pyannote (or export HF_TOKEN)")
		}
	default:
		return fmt.Errorf("transcription.vad_method: unsupported value %q", c.Transcription.VADMethod)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
