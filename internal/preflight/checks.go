package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"bleeper/internal/config"
	"bleeper/internal/deps"
	"bleeper/internal/lexicon"
	"bleeper/internal/services/whisperx"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckLexicon confirms the blocklist loads and is not empty.
func CheckLexicon(cfg *config.Config) Result {
	const name = "Blocklist"

	entries := append([]string(nil), cfg.Redaction.Lexicon...)
	if cfg.Redaction.LexiconFile != "" {
		extra, err := lexicon.Load(cfg.Redaction.LexiconFile)
		if err != nil {
			return Result{Name: name, Detail: err.Error()}
		}
		entries = append(entries, extra...)
	}
	lex := lexicon.New(entries)
	if lex.Len() == 0 {
		return Result{Name: name, Detail: "no usable entries"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d entries", lex.Len())}
}

// CheckVAD reports whether the configured voice activity detector can run.
func CheckVAD(cfg *config.Config) Result {
	const name = "WhisperX VAD"

	switch cfg.Transcription.VADMethod {
	case whisperx.VADMethodPyannote:
		if cfg.Transcription.HFToken == "" {
			return Result{Name: name, Detail: "pyannote requires a Hugging Face token (HF_TOKEN)"}
		}
		return Result{Name: name, Passed: true, Detail: "pyannote (token set)"}
	default:
		return Result{Name: name, Passed: true, Detail: cfg.Transcription.VADMethod}
	}
}

// CheckSystemDeps evaluates the binaries transcription needs.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "uvx",
			Command:     cfg.UVXBinary(),
			Description: "Required to launch WhisperX",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Required by WhisperX to load audio",
			VersionArgs: []string{"-version"},
		},
		{
			Name:        "nvidia-smi",
			Command:     "nvidia-smi",
			Description: "Reports GPU availability for CUDA transcription",
			Optional:    !cfg.Transcription.CUDAEnabled,
		},
	}
	return deps.CheckBinaries(ctx, requirements)
}
