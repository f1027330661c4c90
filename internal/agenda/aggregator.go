package agenda

import (
	"context"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/meeting-assistant/internal/apperr"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

func (a *implAggregator) Aggregate(ctx context.Context, files []domain.UploadedFile, languageHint string, progress domain.ProgressFunc) domain.AgendaBundle {
	if len(files) > a.maxFiles {
		a.logger.Info(ctx, "Ignoring %d agenda files beyond the limit of %d", len(files)-a.maxFiles, a.maxFiles)
		files = files[:a.maxFiles]
	}
	if len(files) == 0 {
		return domain.NewAgendaBundle(nil)
	}

	results := make([]domain.ExtractionResult, len(files))
	workers := newPool(a.workers)

	var mu sync.Mutex
	notify := func(ev domain.ProgressEvent) {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		progress(ev)
	}

	for i, file := range files {
		err := workers.spawn(ctx, func() {
			res := a.extractor.Extract(ctx, file, languageHint)
			results[i] = res
			notify(fileEvent(i, res))
		})
		if err != nil {
			results[i] = domain.Failure(file.Name, apperr.Extraction(file.Name, err))
			notify(fileEvent(i, results[i]))
		}
	}
	workers.wait()

	failed := 0
	for _, r := range results {
		if r.Failed {
			failed++
		}
	}
	a.logger.Info(ctx, "Aggregated %d agenda files (%d failed)", len(results), failed)

	return domain.NewAgendaBundle(results)
}

func fileEvent(i int, res domain.ExtractionResult) domain.ProgressEvent {
	msg := fmt.Sprintf("%d. %s を読み込みました", i+1, res.FileName)
	if res.Failed {
		msg = fmt.Sprintf("%d. %s の読み込みに失敗しました", i+1, res.FileName)
	}
	return domain.ProgressEvent{Stage: domain.StageAggregating, Message: msg}
}
