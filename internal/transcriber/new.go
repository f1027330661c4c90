package transcriber

import (
	"fmt"

	"github.com/nguyentantai21042004/meeting-assistant/internal/config"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/metrics"
	"github.com/nguyentantai21042004/meeting-assistant/pkg/executor"
	"github.com/nguyentantai21042004/meeting-assistant/pkg/openai"
)

// New builds the backend selected by cfg.Backend.
func New(cfg config.TranscriptionConfig, exec executor.Executor, log logger.Logger, m *metrics.Metrics) (Transcriber, error) {
	switch cfg.Backend {
	case "", "openai":
		return &implOpenAI{
			client:  openai.New(cfg.BaseURL, cfg.APIKey, cfg.Timeout),
			model:   cfg.Model,
			logger:  log,
			metrics: m,
		}, nil
	case "whispercpp":
		return &implWhisperCPP{
			cfg:      cfg.Whisper,
			executor: exec,
			logger:   log,
			metrics:  m,
		}, nil
	default:
		return nil, fmt.Errorf("unknown transcription backend %q", cfg.Backend)
	}
}
