package extractor

import (
	"context"

	"github.com/nguyentantai21042004/meeting-assistant/internal/config"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/metrics"
	"github.com/nguyentantai21042004/meeting-assistant/pkg/executor"
)

type extractFunc func(e *implExtractor, ctx context.Context, file domain.UploadedFile, lang string) (string, error)

type implExtractor struct {
	cfg      config.ExtractionConfig
	executor executor.Executor
	logger   logger.Logger
	metrics  *metrics.Metrics
	handlers map[Category]extractFunc
}

// New creates an Extractor. m may be nil.
func New(cfg config.ExtractionConfig, exec executor.Executor, log logger.Logger, m *metrics.Metrics) Extractor {
	return &implExtractor{
		cfg:      cfg,
		executor: exec,
		logger:   log,
		metrics:  m,
		handlers: dispatchTable(),
	}
}

func dispatchTable() map[Category]extractFunc {
	return map[Category]extractFunc{
		CategoryWord:         (*implExtractor).extractDocx,
		CategoryLegacyWord:   (*implExtractor).extractDoc,
		CategoryPDF:          (*implExtractor).extractPDF,
		CategoryText:         (*implExtractor).extractText,
		CategorySpreadsheet:  (*implExtractor).extractSpreadsheet,
		CategoryPresentation: (*implExtractor).extractPresentation,
		CategoryImage:        (*implExtractor).extractImage,
		CategoryUnsupported:  (*implExtractor).extractUnsupported,
	}
}
