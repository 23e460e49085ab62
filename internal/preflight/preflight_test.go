package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bleeper/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckLexicon(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if res := CheckLexicon(cfg); !res.Passed || res.Detail != "6 entries" {
		t.Fatalf("expected default lexicon to pass, got %+v", res)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithLexicon("  ", "!!"))
	if res := CheckLexicon(cfg); res.Passed {
		t.Fatalf("expected unusable lexicon to fail, got %+v", res)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithLexicon("idiot"))
	cfg.Redaction.LexiconFile = filepath.Join(testsupport.BaseDir(cfg), "missing.txt")
	if res := CheckLexicon(cfg); res.Passed {
		t.Fatalf("expected missing lexicon file to fail, got %+v", res)
	}
}

func TestCheckVAD(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if res := CheckVAD(cfg); !res.Passed {
		t.Fatalf("expected silero to pass, got %+v", res)
	}
	cfg.Transcription.VADMethod = "pyannote"
	if res := CheckVAD(cfg); res.Passed {
		t.Fatalf("expected pyannote without token to fail, got %+v", res)
	}
	cfg.Transcription.HFToken = "hf"
	if res := CheckVAD(cfg); !res.Passed {
		t.Fatalf("expected pyannote with token to pass, got %+v", res)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, ""); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_StubbedBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("uvx", "ffmpeg"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	output := filepath.Join(testsupport.BaseDir(cfg), "out.wav")

	results := RunAll(context.Background(), cfg, output)
	names := make(map[string]Result, len(results))
	for _, r := range results {
		names[r.Name] = r
	}
	for _, want := range []string{"uvx", "FFmpeg", "Blocklist", "WhisperX VAD", "Cache directory", "Log directory", "Output directory"} {
		r, ok := names[want]
		if !ok {
			t.Fatalf("missing check %q in %+v", want, results)
		}
		if !r.Passed {
			t.Fatalf("expected %q to pass, got %+v", want, r)
		}
	}
	if !strings.HasSuffix(names["uvx"].Detail, "uvx") {
		t.Fatalf("expected resolved uvx path, got %q", names["uvx"].Detail)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected no required failures, got %+v", failed)
	}
}

func TestRunAll_ReportsMissingOutputDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("uvx", "ffmpeg"), testsupport.WithCacheDisabled())
	cfg.Logging.Dir = ""
	output := filepath.Join(testsupport.BaseDir(cfg), "missing", "out.wav")

	failed := Failed(RunAll(context.Background(), cfg, output))
	if len(failed) != 1 || failed[0].Name != "Output directory" {
		t.Fatalf("expected only the output directory to fail, got %+v", failed)
	}
}
