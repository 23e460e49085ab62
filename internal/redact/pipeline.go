package redact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"bleeper/internal/logging"
	"bleeper/internal/media/wav"
	"bleeper/internal/services"
	"bleeper/internal/textnorm"
	"bleeper/internal/transcript"
)

// Transcriber produces word tokens for an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, languages []string) ([]transcript.WordToken, error)
}

// ErrOutputBusy reports that another run holds the output lock.
var ErrOutputBusy = errors.New("output is being written by another run")

// Result summarizes a completed run.
type Result struct {
	Outcome
	RunID    string
	Input    string
	Output   string
	Duration time.Duration
	Elapsed  time.Duration
}

// Pipeline runs redactions with a fixed transcriber and options.
type Pipeline struct {
	transcriber Transcriber
	opts        Options
	logger      *slog.Logger
	now         func() time.Time
}

// New validates opts and returns a Pipeline.
func New(transcriber Transcriber, opts Options, logger *slog.Logger) (*Pipeline, error) {
	if transcriber == nil {
		return nil, services.Wrap(services.ErrConfiguration, "redact", "init", "transcriber is required", nil)
	}
	if err := opts.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "redact", "init", "invalid options", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		transcriber: transcriber,
		opts:        opts,
		logger:      logging.NewComponentLogger(logger, "redact"),
		now:         time.Now,
	}, nil
}

// Run redacts input into output. The output file is written atomically and
// only after every earlier step succeeded.
func (p *Pipeline) Run(ctx context.Context, input, output string) (Result, error) {
	started := p.now()
	runID := uuid.NewString()
	ctx = services.WithRequestID(ctx, runID)
	ctx = services.WithInput(ctx, input)
	result := Result{RunID: runID, Input: input, Output: output}

	if err := checkPaths(input, output); err != nil {
		return result, err
	}

	buf, err := p.decode(ctx, input)
	if err != nil {
		return result, err
	}
	result.Duration = buf.Duration()

	words, err := p.transcribe(ctx, input)
	if err != nil {
		return result, err
	}

	masked, outcome := Process(buf, words, p.opts)
	result.Outcome = outcome
	p.logOutcome(ctx, outcome)

	if err := p.write(ctx, output, masked); err != nil {
		return result, err
	}
	result.Elapsed = p.now().Sub(started)

	logger := logging.WithContext(ctx, p.logger)
	logger.Info("redaction complete",
		logging.String(logging.FieldEventType, "redaction_complete"),
		logging.String("output", output),
		logging.Int("matches", len(outcome.Matches)),
		logging.Int("spans", len(outcome.Spans)),
		logging.Int("redacted_samples", outcome.Redacted),
		logging.Bool("clean", outcome.Clean()),
		logging.Duration("elapsed", result.Elapsed))
	return result, nil
}

func checkPaths(input, output string) error {
	if strings.TrimSpace(input) == "" {
		return services.Wrap(services.ErrValidation, "redact", "run", "input path required", nil)
	}
	if strings.TrimSpace(output) == "" {
		return services.Wrap(services.ErrValidation, "redact", "run", "output path required", nil)
	}
	info, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "redact", "run", fmt.Sprintf("input %s not found", input), err)
		}
		return fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "redact", "run", fmt.Sprintf("input %s is a directory", input), nil)
	}
	return nil
}

func (p *Pipeline) decode(ctx context.Context, input string) (wav.Buffer, error) {
	ctx = services.WithStage(ctx, "decode")
	logger := logging.WithContext(ctx, p.logger)
	buf, err := wav.ReadFile(input)
	if err != nil {
		logger.Error("decode failed",
			logging.String(logging.FieldEventType, "decode_failed"),
			logging.String(logging.FieldErrorHint, "convert the clip to 16-bit PCM WAV"),
			logging.Error(err))
		return wav.Buffer{}, err
	}
	logger.Debug("decoded input",
		logging.Int("sample_rate", buf.SampleRate),
		logging.Int("samples", buf.Len()),
		logging.Duration("duration", buf.Duration()))
	return buf, nil
}

// Words transcribes input and reports, per token, its normalized form and
// whether it matches the lexicon.
func (p *Pipeline) Words(ctx context.Context, input string) ([]WordReport, error) {
	ctx = services.WithInput(ctx, input)
	words, err := p.transcribe(ctx, input)
	if err != nil {
		return nil, err
	}
	reports := make([]WordReport, 0, len(words))
	for _, w := range words {
		normalized := textnorm.Normalize(w.Text)
		reports = append(reports, WordReport{
			Token:      w,
			Normalized: normalized,
			Match:      p.opts.Lexicon.Matches(normalized),
		})
	}
	return reports, nil
}

// WordReport pairs a transcribed token with its matching decision.
type WordReport struct {
	Token      transcript.WordToken
	Normalized string
	Match      bool
}

func (p *Pipeline) transcribe(ctx context.Context, input string) ([]transcript.WordToken, error) {
	ctx = services.WithStage(ctx, "transcribe")
	logger := logging.WithContext(ctx, p.logger)
	started := p.now()
	words, err := p.transcriber.Transcribe(ctx, input, p.opts.Languages)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if !errors.Is(err, services.ErrTranscription) {
			err = services.Wrap(services.ErrTranscription, "transcribe", "run", "speech-to-text failed", err)
		}
		logging.ErrorWithContext(logger, "transcription failed", "transcription_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'bleeper check' to verify the WhisperX toolchain"))
		return nil, err
	}
	logger.Info("transcription complete",
		logging.String(logging.FieldEventType, "transcription_complete"),
		logging.Int("words", len(words)),
		logging.Duration("elapsed", p.now().Sub(started)))
	return words, nil
}

func (p *Pipeline) logOutcome(ctx context.Context, outcome Outcome) {
	logger := logging.WithContext(services.WithStage(ctx, "match"), p.logger)
	for _, m := range outcome.Matches {
		logger.Debug("blocklist match",
			logging.String("word", m.Word),
			logging.Float64("start_s", m.Start),
			logging.Float64("end_s", m.End))
	}
	if outcome.Invalid > 0 {
		logging.WarnWithContext(logger, "dropped words with inverted timings", "invalid_span",
			logging.Alert("unredacted_words"),
			logging.Int("invalid", outcome.Invalid),
			logging.String(logging.FieldErrorHint, "the transcriber returned end < start for some words"),
			logging.String(logging.FieldImpact, "those words were not redacted"))
	}
	if outcome.Dropped > 0 {
		logger.Info("dropped spans outside the clip",
			logging.Int("dropped", outcome.Dropped))
	}
}

func (p *Pipeline) write(ctx context.Context, output string, buf wav.Buffer) error {
	ctx = services.WithStage(ctx, "encode")
	logger := logging.WithContext(ctx, p.logger)

	lockPath := output + ".lock"
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return services.Wrap(services.ErrValidation, "encode", "lock", filepath.Base(output), ErrOutputBusy)
	}
	// The lock file is never removed so every run locks the same inode.
	defer func() { _ = lock.Unlock() }()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := wav.WriteFile(output, buf); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Debug("wrote output",
		logging.String("output", output),
		logging.Int("samples", buf.Len()),
		logging.Int("sample_rate", buf.SampleRate))
	return nil
}
