package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// moveToArchived moves a processed recording (or its agenda folder) out of the watch folder
func (p *implProcessor) moveToArchived(ctx context.Context, path string) error {
	if err := os.MkdirAll(p.cfg.Watcher.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}

	destPath := filepath.Join(p.cfg.Watcher.Archived, filepath.Base(path))
	if _, err := os.Stat(destPath); err == nil {
		destPath = filepath.Join(p.cfg.Watcher.Archived, time.Now().Format("20060102-150405")+"-"+filepath.Base(path))
	}

	p.logger.Info(ctx, "Archiving: %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}

	return nil
}
