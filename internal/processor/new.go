package processor

import (
	"github.com/nguyentantai21042004/meeting-assistant/internal/config"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/orchestrator"
	"github.com/nguyentantai21042004/meeting-assistant/internal/session"
)

type implProcessor struct {
	cfg          *config.Config
	store        session.Store
	orchestrator orchestrator.Orchestrator
	logger       logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, store session.Store, orch orchestrator.Orchestrator, log logger.Logger) Processor {
	return &implProcessor{
		cfg:          cfg,
		store:        store,
		orchestrator: orch,
		logger:       log,
	}
}
