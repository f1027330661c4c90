package agenda

import (
	"github.com/nguyentantai21042004/meeting-assistant/internal/extractor"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
)

type implAggregator struct {
	extractor extractor.Extractor
	logger    logger.Logger
	maxFiles  int
	workers   int
}

// New creates an Aggregator that extracts up to workers files at a time.
// maxFiles is clamped to DefaultMaxFiles.
func New(ext extractor.Extractor, log logger.Logger, maxFiles, workers int) Aggregator {
	if maxFiles <= 0 || maxFiles > DefaultMaxFiles {
		maxFiles = DefaultMaxFiles
	}
	if workers <= 0 {
		workers = 1
	}
	return &implAggregator{
		extractor: ext,
		logger:    log,
		maxFiles:  maxFiles,
		workers:   workers,
	}
}
