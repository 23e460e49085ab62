package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bleeper/internal/language"
	"bleeper/internal/redact"
)

type wordRow struct {
	Text       string  `json:"text"`
	Normalized string  `json:"normalized"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Match      bool    `json:"match"`
}

func newWordsCommand(ctx *commandContext) *cobra.Command {
	var languages []string
	var noCache bool
	var jsonOutput bool
	var matchesOnly bool

	cmd := &cobra.Command{
		Use:   "words <input.wav>",
		Short: "Transcribe a WAV file and list recognized words with timings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(args[0])
			override := func(opts *redact.Options) {
				if cmd.Flags().Changed("language") {
					opts.Languages = language.NormalizeList(languages)
				}
			}
			pipeline, closer, err := ctx.buildPipeline(!noCache, override)
			if err != nil {
				return err
			}
			defer func() { _ = closer() }()

			reports, err := pipeline.Words(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("transcribe %s: %w", input, err)
			}

			rows := make([]wordRow, 0, len(reports))
			for _, r := range reports {
				if matchesOnly && !r.Match {
					continue
				}
				rows = append(rows, wordRow{
					Text:       r.Token.Text,
					Normalized: r.Normalized,
					Start:      r.Token.Start,
					End:        r.Token.End,
					Match:      r.Match,
				})
			}

			if jsonOutput {
				return writeJSON(cmd, rows)
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No words recognized")
				return nil
			}
			table := make([][]string, 0, len(rows))
			for i, r := range rows {
				table = append(table, []string{
					strconv.Itoa(i + 1),
					formatSeconds(r.Start),
					formatSeconds(r.End),
					r.Text,
					r.Normalized,
					yesNo(r.Match),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Start", "End", "Word", "Normalized", "Blocked"},
				table,
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&languages, "language", "l", nil, "Language hints for transcription (overrides transcription.languages)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the transcript cache")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print words as JSON")
	cmd.Flags().BoolVar(&matchesOnly, "matches", false, "Only list blocklisted words")
	return cmd
}
