package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Redaction contains the knobs of the redaction pipeline itself.
type Redaction struct {
	// Lexicon lists blocklist entries. Entries are normalized before matching,
	// so diacritics, letter variants and case do not matter.
	Lexicon []string `toml:"lexicon"`
	// LexiconFile optionally points at a newline separated blocklist that is
	// merged with Lexicon.
	LexiconFile       string  `toml:"lexicon_file"`
	PadMS             int     `toml:"pad_ms"`
	TargetSampleRate  int     `toml:"target_sample_rate"`
	ToneFrequencyHz   float64 `toml:"tone_frequency_hz"`
	AmplitudeFraction float64 `toml:"amplitude_fraction"`
}

// Transcription contains WhisperX settings.
type Transcription struct {
	Model       string   `toml:"model"`
	Languages   []string `toml:"languages"`
	CUDAEnabled bool     `toml:"cuda_enabled"`
	VADMethod   string   `toml:"vad_method"`
	HFToken     string   `toml:"hf_token"`
}

// Cache contains configuration for the transcript cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// Dir, when set, receives a bleeper.log copy of every log line.
	Dir string `toml:"dir"`
}

// Config encapsulates all configuration values for bleeper.
//
// Configuration sections by subsystem:
//   - Redaction: blocklist, padding, working sample rate, masking tone
//   - Transcription: WhisperX model, language hints, device, VAD
//   - Cache: transcript cache location
//   - Logging: log format, level, and optional log directory
type Config struct {
	Redaction     Redaction     `toml:"redaction"`
	Transcription Transcription `toml:"transcription"`
	Cache         Cache         `toml:"cache"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("bleeper.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache and log directories when they are in use.
func (c *Config) EnsureDirectories() error {
	dirs := make([]string, 0, 2)
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Dir) != "" {
		dirs = append(dirs, c.Cache.Dir)
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		dirs = append(dirs, c.Logging.Dir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CacheDBPath returns the SQLite file backing the transcript cache.
func (c *Config) CacheDBPath() string {
	return filepath.Join(c.Cache.Dir, "transcripts.db")
}

// UVXBinary returns the uv tool runner used to launch WhisperX.
func (c *Config) UVXBinary() string {
	return "uvx"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "bleeper")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/bleeper"
	}
	return filepath.Join(home, ".cache", "bleeper")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
