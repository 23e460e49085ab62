package whisperx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	langpkg "bleeper/internal/language"
	"bleeper/internal/services"
	"bleeper/internal/transcript"
)

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = UVXCommand
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging and cache keys.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// CUDAEnabled returns whether CUDA is enabled.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDAEnabled
}

// VADMethod returns the voice activity detector passed to WhisperX.
func (s *Service) VADMethod() string {
	if s.cfg.VADMethod != "" {
		return s.cfg.VADMethod
	}
	return VADMethodSilero
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe runs WhisperX on audioPath and returns its words in order.
// A single language hint is forwarded as --language; with zero or several
// hints WhisperX detects the language itself.
func (s *Service) Transcribe(ctx context.Context, audioPath string, languages []string) ([]transcript.WordToken, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "whisperx", "audio path required", nil)
	}
	workDir, err := os.MkdirTemp("", "bleeper-whisperx-*")
	if err != nil {
		return nil, fmt.Errorf("whisperx: create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	args := s.buildArgs(audioPath, workDir, languages)
	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "whisperx", "WhisperX run failed", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	words, err := LoadWords(filepath.Join(workDir, baseName+".json"))
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "whisperx", "read WhisperX output", err)
	}
	return words, nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir string, languages []string) []string {
	args := make([]string, 0, 40)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", s.Model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--chunk_size", ChunkSize,
		"--vad_onset", VADOnset,
		"--vad_offset", VADOffset,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
	)

	vadMethod := s.VADMethod()
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if hints := langpkg.NormalizeList(languages); len(hints) == 1 {
		args = append(args, "--language", hints[0])
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}

	return args
}

// Word represents a single word with timing from WhisperX output. Start and
// End are nil when alignment could not place the word.
type Word struct {
	Word  string           `json:"word"`
	Start *decimal.Decimal `json:"start"`
	End   *decimal.Decimal `json:"end"`
	Score *float64         `json:"score,omitempty"`
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string          `json:"text"`
	Start decimal.Decimal `json:"start"`
	End   decimal.Decimal `json:"end"`
	Words []Word          `json:"words"`
}

// whisperXPayload is the JSON structure from WhisperX output.
type whisperXPayload struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	return ParseSegments(data)
}

// ParseSegments decodes WhisperX JSON output.
func ParseSegments(data []byte) ([]Segment, error) {
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	if payload.Segments == nil {
		return nil, errors.New("parse whisperx json: missing segments")
	}
	return payload.Segments, nil
}

// LoadWords loads a WhisperX JSON file and flattens it into word tokens.
func LoadWords(jsonPath string) ([]transcript.WordToken, error) {
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return nil, err
	}
	return Tokens(segments), nil
}

var thousand = decimal.NewFromInt(1000)

// Tokens flattens segments into word tokens. Words without text or without
// both timestamps are skipped. Times are rounded to whole milliseconds.
func Tokens(segments []Segment) []transcript.WordToken {
	tokens := make([]transcript.WordToken, 0, len(segments)*8)
	for _, seg := range segments {
		for _, w := range seg.Words {
			text := strings.TrimSpace(w.Word)
			if text == "" || w.Start == nil || w.End == nil {
				continue
			}
			tokens = append(tokens, transcript.WordToken{
				Text:  text,
				Start: seconds(*w.Start),
				End:   seconds(*w.End),
			})
		}
	}
	return tokens
}

func seconds(d decimal.Decimal) float64 {
	ms := d.Mul(thousand).Round(0).IntPart()
	return float64(ms) / 1000
}
