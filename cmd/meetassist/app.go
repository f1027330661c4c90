package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nguyentantai21042004/meeting-assistant/internal/agenda"
	"github.com/nguyentantai21042004/meeting-assistant/internal/completion"
	"github.com/nguyentantai21042004/meeting-assistant/internal/config"
	"github.com/nguyentantai21042004/meeting-assistant/internal/extractor"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/metrics"
	"github.com/nguyentantai21042004/meeting-assistant/internal/orchestrator"
	"github.com/nguyentantai21042004/meeting-assistant/internal/processor"
	"github.com/nguyentantai21042004/meeting-assistant/internal/session"
	"github.com/nguyentantai21042004/meeting-assistant/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-assistant/pkg/executor"
)

// app holds the wired dependency graph shared by every subcommand.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	registry  *prometheus.Registry
	store     session.Store
	orch      orchestrator.Orchestrator
	processor processor.Processor
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	exec := executor.New()

	tr, err := transcriber.New(cfg.Transcription, exec, log, m)
	if err != nil {
		return nil, fmt.Errorf("init transcriber: %w", err)
	}

	comp, err := completion.New(cfg.Completion, log, m)
	if err != nil {
		return nil, fmt.Errorf("init completion: %w", err)
	}

	ext := extractor.New(cfg.Extraction, exec, log, m)
	agg := agenda.New(ext, log, cfg.Agenda.MaxFiles, cfg.Extraction.Workers)

	store, err := session.New(ctx, cfg.Session, log)
	if err != nil {
		return nil, fmt.Errorf("init session store: %w", err)
	}

	orch := orchestrator.New(store, tr, agg, comp, log, m, cfg.Transcription.Language)

	log.Info(ctx, "Configuration loaded: transcription=%s completion=%s/%s sessions=%s",
		cfg.Transcription.Backend, cfg.Completion.Provider, cfg.Completion.Model, cfg.Session.Store)

	return &app{
		cfg:       cfg,
		log:       log,
		registry:  reg,
		store:     store,
		orch:      orch,
		processor: processor.New(cfg, store, orch, log),
	}, nil
}
