package redact

import (
	"errors"
	"fmt"

	"bleeper/internal/config"
	"bleeper/internal/lexicon"
	"bleeper/internal/media/dsp"
)

// Options controls a redaction run.
type Options struct {
	Lexicon          *lexicon.Lexicon
	PadMS            int
	TargetSampleRate int
	Tone             dsp.Tone
	// Languages are forwarded to the transcriber as hints.
	Languages []string
}

// OptionsFromConfig builds Options from cfg, merging the configured lexicon
// with the entries of redaction.lexicon_file when one is set.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		return Options{}, errors.New("config is required")
	}
	entries := append([]string(nil), cfg.Redaction.Lexicon...)
	if cfg.Redaction.LexiconFile != "" {
		extra, err := lexicon.Load(cfg.Redaction.LexiconFile)
		if err != nil {
			return Options{}, err
		}
		entries = append(entries, extra...)
	}
	return Options{
		Lexicon:          lexicon.New(entries),
		PadMS:            cfg.Redaction.PadMS,
		TargetSampleRate: cfg.Redaction.TargetSampleRate,
		Tone: dsp.Tone{
			FrequencyHz: cfg.Redaction.ToneFrequencyHz,
			Amplitude:   cfg.Redaction.AmplitudeFraction,
		},
		Languages: append([]string(nil), cfg.Transcription.Languages...),
	}, nil
}

// Validate reports whether the options describe a runnable pipeline.
func (o Options) Validate() error {
	if o.Lexicon.Len() == 0 {
		return errors.New("lexicon is empty")
	}
	if o.PadMS < 0 {
		return fmt.Errorf("pad must be >= 0ms, got %d", o.PadMS)
	}
	if o.TargetSampleRate <= 0 {
		return fmt.Errorf("target sample rate must be positive, got %d", o.TargetSampleRate)
	}
	return o.Tone.Validate()
}
