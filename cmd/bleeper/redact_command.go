package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bleeper/internal/language"
	"bleeper/internal/preflight"
	"bleeper/internal/redact"
)

type redactSummary struct {
	RunID           string        `json:"run_id"`
	Input           string        `json:"input"`
	Output          string        `json:"output"`
	Words           int           `json:"words"`
	Matches         []matchRow    `json:"matches"`
	Spans           int           `json:"spans"`
	Dropped         int           `json:"dropped_spans"`
	Invalid         int           `json:"invalid_spans"`
	RedactedSamples int           `json:"redacted_samples"`
	SampleRate      int           `json:"sample_rate"`
	Samples         int           `json:"samples"`
	Clean           bool          `json:"clean"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}

type matchRow struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func newRedactCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var languages []string
	var padMS int
	var noCache bool
	var skipChecks bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "redact <input.wav>",
		Short: "Replace blocklisted words in a WAV file with a tone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(args[0])
			output := strings.TrimSpace(outputPath)
			if output == "" {
				output = defaultOutputPath(input)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !skipChecks {
				if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg, output)); len(failed) > 0 {
					return preflightError(failed)
				}
			}

			override := func(opts *redact.Options) {
				if cmd.Flags().Changed("pad-ms") {
					opts.PadMS = padMS
				}
				if cmd.Flags().Changed("language") {
					opts.Languages = language.NormalizeList(languages)
				}
			}
			pipeline, closer, err := ctx.buildPipeline(!noCache, override)
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			result, err := pipeline.Run(cmd.Context(), input, output)
			if err != nil {
				if errors.Is(err, redact.ErrOutputBusy) {
					return fmt.Errorf("processing failed: %s: %w", output, err)
				}
				return fmt.Errorf("processing failed: %w", err)
			}

			summary := summarize(result)
			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			printRedactSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output WAV path (default <input>.clean.wav)")
	cmd.Flags().StringSliceVarP(&languages, "language", "l", nil, "Language hints for transcription (overrides transcription.languages)")
	cmd.Flags().IntVar(&padMS, "pad-ms", 0, "Padding in milliseconds added around each match (overrides redaction.pad_ms)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the transcript cache")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip dependency and directory preflight checks")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

// defaultOutputPath places the result next to the input as <stem>.clean.wav.
func defaultOutputPath(input string) string {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	return stem + ".clean.wav"
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed: %s (run `bleeper check` for details)", strings.Join(parts, "; "))
}

func summarize(result redact.Result) redactSummary {
	matches := make([]matchRow, 0, len(result.Matches))
	for _, m := range result.Matches {
		matches = append(matches, matchRow{Word: m.Word, Start: m.Start, End: m.End})
	}
	return redactSummary{
		RunID:           result.RunID,
		Input:           result.Input,
		Output:          result.Output,
		Words:           result.Words,
		Matches:         matches,
		Spans:           len(result.Spans),
		Dropped:         result.Dropped,
		Invalid:         result.Invalid,
		RedactedSamples: result.Redacted,
		SampleRate:      result.SampleRate,
		Samples:         result.Samples,
		Clean:           result.Clean(),
		Elapsed:         result.Elapsed,
	}
}

func printRedactSummary(out io.Writer, s redactSummary) {
	if s.Clean {
		fmt.Fprintf(out, "No profanity found in %s (%d words checked)\n", s.Input, s.Words)
		fmt.Fprintf(out, "Wrote %s\n", s.Output)
		return
	}

	rows := make([][]string, 0, len(s.Matches))
	for i, m := range s.Matches {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			m.Word,
			formatSeconds(m.Start),
			formatSeconds(m.End),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Word", "Start", "End"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
	))

	redacted := 0.0
	if s.SampleRate > 0 {
		redacted = float64(s.RedactedSamples) / float64(s.SampleRate)
	}
	fmt.Fprintf(out, "Redacted %d %s in %d %s (%.2fs of audio)\n",
		len(s.Matches), plural(len(s.Matches), "match", "matches"),
		s.Spans, plural(s.Spans, "span", "spans"), redacted)
	if s.Invalid > 0 || s.Dropped > 0 {
		fmt.Fprintf(out, "Skipped %d invalid and %d out-of-range spans\n", s.Invalid, s.Dropped)
	}
	fmt.Fprintf(out, "Wrote %s\n", s.Output)
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
