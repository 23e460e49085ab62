package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"bleeper/internal/config"
	"bleeper/internal/redact"
	"bleeper/internal/testsupport"
	"bleeper/internal/transcript"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")

	opts = append([]testsupport.ConfigOption{testsupport.WithStubbedBinaries("uvx", "ffmpeg")}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"

	configPath := filepath.Join(homeDir, ".config", "bleeper", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

type fakeTranscriber struct {
	mu        sync.Mutex
	words     []transcript.WordToken
	err       error
	calls     int
	languages []string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, languages []string) ([]transcript.WordToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.languages = append([]string(nil), languages...)
	if f.err != nil {
		return nil, f.err
	}
	return append([]transcript.WordToken(nil), f.words...), nil
}

// useTranscriber swaps the transcriber factory for the duration of the test.
func useTranscriber(t *testing.T, fake *fakeTranscriber) {
	t.Helper()
	prev := newTranscriber
	newTranscriber = func(*config.Config, bool, *slog.Logger) (redact.Transcriber, func() error, error) {
		return fake, func() error { return nil }, nil
	}
	t.Cleanup(func() { newTranscriber = prev })
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
