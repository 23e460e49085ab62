package transcriptcache

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"lukechampine.com/blake3"

	"bleeper/internal/fileutil"
	"bleeper/internal/language"
	"bleeper/internal/logging"
	"bleeper/internal/transcript"
)

// Transcriber produces word tokens for an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, languages []string) ([]transcript.WordToken, error)
}

// Settings are the transcriber options that can change its output.
type Settings struct {
	Model     string
	VADMethod string
	CUDA      bool
}

// Cache is a Transcriber that consults the store before delegating.
type Cache struct {
	store    *Store
	inner    Transcriber
	settings Settings
	logger   *slog.Logger
}

// New wraps inner with store. settings describe how inner transcribes and
// are part of every key.
func New(store *Store, inner Transcriber, settings Settings, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{
		store:    store,
		inner:    inner,
		settings: settings,
		logger:   logging.NewComponentLogger(logger, "transcriptcache"),
	}
}

// Key derives the cache key for an audio digest, transcriber settings and
// language hints. Hint order does not matter.
func Key(audioHash string, settings Settings, languages []string) string {
	hints := language.NormalizeList(languages)
	slices.Sort(hints)
	material := strings.Join([]string{
		audioHash,
		settings.Model,
		strings.ToLower(strings.TrimSpace(settings.VADMethod)),
		strconv.FormatBool(settings.CUDA),
		strings.Join(hints, ","),
	}, "\x00")
	sum := blake3.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}

// Transcribe returns cached words when available and otherwise runs the
// wrapped transcriber and stores its result. Cache failures are logged and
// never fail the call.
func (c *Cache) Transcribe(ctx context.Context, audioPath string, languages []string) ([]transcript.WordToken, error) {
	audioHash, err := fileutil.HashFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("hash audio: %w", err)
	}
	key := Key(audioHash, c.settings, languages)

	words, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		logging.WarnWithContext(c.logger, "transcript cache lookup failed", "transcript_cache_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'bleeper cache clear' if the database is corrupt"),
			logging.String(logging.FieldImpact, "audio will be transcribed again"))
	case ok:
		attrs := logging.DecisionAttrs("transcript_cache", "hit", "audio and transcription settings unchanged")
		attrs = append(attrs, logging.String("cache_key", key[:12]), logging.Int("words", len(words)))
		c.logger.Info("transcript cache decision", logging.Args(attrs...)...)
		return words, nil
	default:
		attrs := logging.DecisionAttrs("transcript_cache", "miss", "no transcript for this audio and settings")
		attrs = append(attrs, logging.String("cache_key", key[:12]))
		c.logger.Info("transcript cache decision", logging.Args(attrs...)...)
	}

	words, err = c.inner.Transcribe(ctx, audioPath, languages)
	if err != nil {
		return nil, err
	}

	entry := Entry{
		Key:        key,
		AudioHash:  audioHash,
		Model:      c.settings.Model,
		Languages:  language.NormalizeList(languages),
		SourcePath: audioPath,
	}
	if err := c.store.Put(ctx, entry, words); err != nil {
		logging.WarnWithContext(c.logger, "transcript cache store failed", "transcript_cache_store_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the cache directory"),
			logging.String(logging.FieldImpact, "the next run will transcribe again"))
		return words, nil
	}
	c.logger.Debug("cached transcript",
		logging.String("cache_key", key[:12]),
		logging.Int("words", len(words)))
	return words, nil
}
