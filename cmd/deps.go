package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/ai/gemini"
	"github.com/spigell/resume-scorer/internal/extract"
	"github.com/spigell/resume-scorer/internal/fetch"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/ocr"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/secrets"
)

func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		config = &Config{}
	}

	return logger, config
}

func resolveAPIKey(cfg GeminiConfig) (string, error) {
	return secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
}

func newGenerator(ctx context.Context, cfg *Config, opts gemini.Options, log *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.AI.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.AI.Provider)
	}

	apiKey, err := resolveAPIKey(cfg.AI.Gemini)
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	if opts.MaxRetries == 0 {
		opts.MaxRetries = cfg.AI.Gemini.MaxRetries
	}

	return gemini.NewGenerator(ctx, apiKey, opts, logger.WithCommonFields(log, gemini.Provider, opts.Model))
}

// newPipeline builds the extraction cascade. The remote OCR tier is added
// only when enabled and a key resolves; the local text layer is always there.
func newPipeline(ctx context.Context, cfg *Config, log *zap.Logger) *extract.Pipeline {
	tiers := []ocr.Tier{{Name: "text_layer", Recognizer: ocr.NewTextLayer()}}

	if cfg.OCR.Enabled {
		generator, err := newGenerator(ctx, cfg, gemini.Options{Model: cfg.OCR.Model}, log)
		if err != nil {
			log.Warn("remote ocr disabled", zap.Error(err))
		} else {
			tiers = append(tiers, ocr.Tier{
				Name:       "remote",
				Recognizer: ocr.NewRemote(generator, cfg.OCR.Timeout, log),
			})
		}
	}

	limits := extract.Limits{
		MinChars:   cfg.Extract.MinChars,
		MaxChars:   cfg.Extract.MaxChars,
		GuardChars: cfg.Extract.GuardChars,
	}

	return extract.New(ocr.NewChain(log, tiers...), limits, log)
}

func newFetcher(cfg *Config, log *zap.Logger) *fetch.Client {
	return fetch.New(log, fetch.Options{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
		MaxBytes:  cfg.Fetch.MaxBytes,
	})
}

func newEvaluator(ctx context.Context, cfg *Config, schema scoring.Schema, log *zap.Logger) (*gemini.Evaluator, error) {
	temperature := cfg.AI.Gemini.Temperature

	generator, err := newGenerator(ctx, cfg, gemini.Options{
		Model:             cfg.AI.Gemini.Model,
		Temperature:       &temperature,
		MaxOutputTokens:   cfg.AI.Gemini.MaxOutputTokens,
		SystemInstruction: gemini.SystemInstruction,
	}, log)
	if err != nil {
		return nil, err
	}

	evaluatorLogger := logger.WithCommonFields(log, gemini.Provider, generator.Model())
	return gemini.NewEvaluator(generator, schema, cfg.AI.Gemini.MaxLogLength, evaluatorLogger), nil
}

func schemaFromConfig(cfg *Config, override string) (scoring.Schema, error) {
	if strings.TrimSpace(override) != "" {
		return scoring.ParseSchema(override)
	}
	return scoring.ParseSchema(cfg.Scoring.Schema)
}
