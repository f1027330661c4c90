package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
)

type implWatcher struct {
	inputDir      string
	extensions    []string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	settleDelay   time.Duration
	semaphore     chan struct{}
	wg            sync.WaitGroup
}

// Start begins monitoring the input directory for new recordings
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(w.extensions, ", "))

	for {
		select {
		case <-ctx.Done():
			return w.drain(ctx)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.isAudioFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New recording detected: %s", event.Name)

			// let the writer finish copying the file
			time.Sleep(w.settleDelay)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(filePath string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()

					if err := w.handler(ctx, filePath); err != nil {
						w.logger.Error(ctx, "Failed to process %s: %v", filePath, err)
					}
				}(event.Name)
			case <-ctx.Done():
				w.logger.Warn(ctx, "Skipping %s: shutting down", event.Name)
				return w.drain(ctx)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// drain waits for in-flight analyses before Start returns.
func (w *implWatcher) drain(ctx context.Context) error {
	w.logger.Info(ctx, "Waiting for ongoing analyses to complete...")
	w.wg.Wait()
	w.logger.Info(ctx, "File watcher stopped")
	return ctx.Err()
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// isAudioFile checks if the file has a supported recording extension
func (w *implWatcher) isAudioFile(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, format := range w.extensions {
		if ext == format {
			return true
		}
	}
	return false
}
