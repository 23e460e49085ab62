package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bleeper/internal/language"
	"bleeper/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify external tools, lexicon and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Transcription", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Model", statusInfo, cfg.Transcription.Model, colorize))
			fmt.Fprintln(out, renderStatusLine("Languages", statusInfo, languageSummary(cfg.Transcription.Languages), colorize))
			fmt.Fprintln(out, renderStatusLine("CUDA", statusInfo, yesNo(cfg.Transcription.CUDAEnabled), colorize))
			fmt.Fprintln(out)

			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cmd.Context(), cfg, strings.TrimSpace(outputPath))
			for _, r := range results {
				kind := statusOK
				switch {
				case !r.Passed && r.Optional:
					kind = statusWarn
				case !r.Passed:
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return errors.New("one or more required checks failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Also check that this output path's directory is writable")
	return cmd
}

func languageSummary(codes []string) string {
	if len(codes) == 0 {
		return "auto-detect"
	}
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, fmt.Sprintf("%s (%s)", language.DisplayName(code), code))
	}
	return strings.Join(names, ", ")
}
