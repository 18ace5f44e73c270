// Package app wires configuration into a ready pipeline for the server and the CLI.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/freedom_case_2/replydraft/internal/ai"
	"github.com/freedom_case_2/replydraft/internal/config"
	"github.com/freedom_case_2/replydraft/internal/db"
	"github.com/freedom_case_2/replydraft/internal/events"
	"github.com/freedom_case_2/replydraft/internal/service"
	"github.com/freedom_case_2/replydraft/internal/templates"
)

type App struct {
	Config    config.Config
	Templates templates.Repository
	Pipeline  *service.Pipeline
	Logger    zerolog.Logger

	closers []func() error
}

// NewLogger logs to stdout, and also to a rotated file when LOG_FILE is set.
func NewLogger(cfg config.Config, service string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		out = zerolog.MultiLevelWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", service).Logger()
}

// New opens the template store (Postgres when DATABASE_URL is set, memory
// otherwise), seeds it from TEMPLATES_FILE, and builds the generative
// provider and event publisher.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	repo, err := a.openTemplates(ctx)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}
	a.Templates = repo

	capability, closeAI, err := ai.FromConfig(ctx, cfg, logger)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}
	a.closers = append(a.closers, closeAI)

	var publisher events.Publisher = events.Noop{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kp := events.NewKafkaPublisher(brokers, cfg.KafkaResponsesTopic, cfg.KafkaOutcomesTopic)
		a.closers = append(a.closers, kp.Close)
		publisher = kp
		logger.Info().Strs("brokers", brokers).Msg("publishing draft events to kafka")
	}

	a.Pipeline = &service.Pipeline{
		Templates: repo,
		AI:        capability,
		Events:    publisher,
		Quality:   service.QualityScorer{WarnThreshold: cfg.QualityWarnThreshold, Logger: logger},
		MaxTokens: cfg.GenerativeMaxTokens,
		Logger:    logger,
	}
	return a, nil
}

func (a *App) openTemplates(ctx context.Context) (templates.Repository, error) {
	var repo templates.Repository
	if a.Config.DatabaseURL != "" {
		store, err := db.New(ctx, a.Config.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { store.Close(); return nil })
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		repo = store
	} else {
		a.Logger.Info().Msg("DATABASE_URL not set, using in-memory template repository")
		repo = templates.NewMemoryRepository()
	}

	if a.Config.TemplatesFile == "" {
		return repo, nil
	}
	existing, err := repo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		a.Logger.Info().Int("templates", len(existing)).Msg("template store already populated, skipping seed")
		return repo, nil
	}
	lib, err := templates.LoadLibrary(a.Config.TemplatesFile)
	if err != nil {
		return nil, err
	}
	n, err := templates.Import(ctx, repo, lib)
	if err != nil {
		return nil, err
	}
	a.Logger.Info().Int("templates", n).Str("file", a.Config.TemplatesFile).Msg("template library seeded")
	return repo, nil
}

// Close releases resources in reverse acquisition order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
