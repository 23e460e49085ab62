package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"bleeper/internal/config"
	"bleeper/internal/logging"
	"bleeper/internal/redact"
	"bleeper/internal/services/whisperx"
	"bleeper/internal/transcriptcache"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag)); level != "" {
				cfg.Logging.Level = level
				if err := cfg.Validate(); err != nil {
					c.configErr = err
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// transcriberFactory builds the transcriber used by redact and words. The
// returned closer releases anything the transcriber holds open.
type transcriberFactory func(cfg *config.Config, useCache bool, logger *slog.Logger) (redact.Transcriber, func() error, error)

var newTranscriber transcriberFactory = defaultTranscriber

func defaultTranscriber(cfg *config.Config, useCache bool, logger *slog.Logger) (redact.Transcriber, func() error, error) {
	service := whisperx.NewService(whisperx.Config{
		Model:       cfg.Transcription.Model,
		CUDAEnabled: cfg.Transcription.CUDAEnabled,
		VADMethod:   cfg.Transcription.VADMethod,
		HFToken:     cfg.Transcription.HFToken,
		Binary:      cfg.UVXBinary(),
	})
	noop := func() error { return nil }
	if !useCache || !cfg.Cache.Enabled {
		return service, noop, nil
	}
	store, err := transcriptcache.Open(cfg.CacheDBPath())
	if err != nil {
		if errors.Is(err, transcriptcache.ErrSchemaMismatch) {
			return nil, nil, fmt.Errorf("open transcript cache: %w (run `bleeper cache clear --reset` to rebuild it)", err)
		}
		return nil, nil, fmt.Errorf("open transcript cache: %w", err)
	}
	settings := transcriptcache.Settings{
		Model:     service.Model(),
		VADMethod: service.VADMethod(),
		CUDA:      service.CUDAEnabled(),
	}
	return transcriptcache.New(store, service, settings, logger), store.Close, nil
}

func (c *commandContext) buildPipeline(useCache bool, override func(*redact.Options)) (*redact.Pipeline, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	opts, err := redact.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("load lexicon: %w", err)
	}
	if override != nil {
		override(&opts)
	}
	transcriber, closer, err := newTranscriber(cfg, useCache, logger)
	if err != nil {
		return nil, nil, err
	}
	pipeline, err := redact.New(transcriber, opts, logger)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return pipeline, closer, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
