package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
)

// New creates a new Watcher instance with concurrency control
func New(inputDir string, extensions []string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		inputDir:      inputDir,
		extensions:    extensions,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		settleDelay:   500 * time.Millisecond,
		semaphore:     make(chan struct{}, maxConcurrent),
	}, nil
}
