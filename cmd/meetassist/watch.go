package main

import (
	"context"
	"errors"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meeting-assistant/internal/processor"
	"github.com/nguyentantai21042004/meeting-assistant/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-assistant/internal/watcher"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Analyze recordings dropped into the input folder",
		Long: `Watch the input folder for new recordings. Agenda documents for
<name>.m4a are read from the <name>.agenda/ folder next to it, which must be
in place before the recording is dropped. Artifacts go to <output>/<name>/
and processed files are moved to the archive folder.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			cfg := a.cfg
			log := a.log

			log.Info(ctx, "========================================")
			log.Info(ctx, "Meeting Assistant drop folder")
			log.Info(ctx, "========================================")
			log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
			log.Info(ctx, "Max Concurrent Processing: %d", cfg.Watcher.MaxConcurrent)

			if err := ensureDirectories(cfg.Watcher.Input, cfg.Watcher.Output, cfg.Watcher.Archived); err != nil {
				return err
			}

			w, err := watcher.New(cfg.Watcher.Input, transcriber.SupportedAudioExts, a.processor.Process, log, cfg.Watcher.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			log.Info(ctx, "Monitoring: %s", cfg.Watcher.Input)
			log.Info(ctx, "Output: %s", cfg.Watcher.Output)
			log.Info(ctx, "Agenda folders: <name>%s", processor.AgendaDirSuffix)
			log.Info(ctx, "Press Ctrl+C to stop")
			log.Info(ctx, "========================================")

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error(ctx, "Watcher error: %v", err)
				return err
			}

			log.Info(ctx, "Meeting Assistant stopped")
			return nil
		},
	}
}
