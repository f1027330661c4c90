package orchestrator

import (
	"time"

	"github.com/nguyentantai21042004/meeting-assistant/internal/agenda"
	"github.com/nguyentantai21042004/meeting-assistant/internal/completion"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/metrics"
	"github.com/nguyentantai21042004/meeting-assistant/internal/session"
	"github.com/nguyentantai21042004/meeting-assistant/internal/transcriber"
)

type implOrchestrator struct {
	store        session.Store
	transcriber  transcriber.Transcriber
	aggregator   agenda.Aggregator
	completer    completion.Completer
	logger       logger.Logger
	metrics      *metrics.Metrics
	languageHint string
	now          func() time.Time
}

// New wires the pipeline. m may be nil.
func New(
	store session.Store,
	tr transcriber.Transcriber,
	agg agenda.Aggregator,
	comp completion.Completer,
	log logger.Logger,
	m *metrics.Metrics,
	languageHint string,
) Orchestrator {
	if languageHint == "" {
		languageHint = "ja"
	}
	return &implOrchestrator{
		store:        store,
		transcriber:  tr,
		aggregator:   agg,
		completer:    comp,
		logger:       log,
		metrics:      m,
		languageHint: languageHint,
		now:          time.Now,
	}
}
