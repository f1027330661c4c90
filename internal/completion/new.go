package completion

import (
	"fmt"

	"github.com/nguyentantai21042004/meeting-assistant/internal/config"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/metrics"
	"github.com/nguyentantai21042004/meeting-assistant/pkg/openai"
)

// New builds the completer selected by cfg.Provider.
func New(cfg config.CompletionConfig, log logger.Logger, m *metrics.Metrics) (Completer, error) {
	switch cfg.Provider {
	case "", "openai":
		return &implOpenAI{
			client:      openai.New(cfg.BaseURL, cfg.APIKey, cfg.Timeout),
			model:       cfg.Model,
			temperature: cfg.Temperature,
			logger:      log,
			metrics:     m,
		}, nil
	case "gemini":
		if len(cfg.GeminiKeys) == 0 {
			return nil, fmt.Errorf("gemini provider requires at least one API key")
		}
		return &implGemini{
			apiKeys:     cfg.GeminiKeys,
			model:       cfg.Model,
			baseURL:     cfg.BaseURL,
			temperature: cfg.Temperature,
			logger:      log,
			metrics:     m,
		}, nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}
