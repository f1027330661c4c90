package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
	"github.com/nguyentantai21042004/meeting-assistant/internal/orchestrator"
	"github.com/nguyentantai21042004/meeting-assistant/internal/report"
)

// AgendaDirSuffix marks the sibling directory holding a recording's agenda files.
const AgendaDirSuffix = ".agenda"

// Process analyses a dropped recording together with <name>.agenda/ if present,
// writes the artifacts to <output>/<name>/ and archives the recording.
func (p *implProcessor) Process(ctx context.Context, audioPath string) error {
	startTime := time.Now()
	base := baseName(audioPath)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting meeting analysis: %s", audioPath)
	p.logger.Info(ctx, "========================================")

	agendaDir := filepath.Join(filepath.Dir(audioPath), base+AgendaDirSuffix)
	agendaPaths, err := listAgendaDir(agendaDir)
	if err != nil {
		return fmt.Errorf("list agenda files: %w", err)
	}
	if len(agendaPaths) > 0 {
		p.logger.Info(ctx, "Found %d agenda files in %s", len(agendaPaths), agendaDir)
	}

	_, written, err := p.ProcessFiles(ctx, FilesRequest{
		AudioPath:   audioPath,
		AgendaPaths: agendaPaths,
		OutputDir:   filepath.Join(p.cfg.Watcher.Output, base),
	}, func(ev domain.ProgressEvent) {
		p.logger.Info(ctx, "[%s] %s", ev.Stage, ev.Message)
	})
	if err != nil {
		return err
	}

	if err := p.moveToArchived(ctx, audioPath); err != nil {
		p.logger.Warn(ctx, "Failed to move recording to archived folder: %v", err)
	}
	if len(agendaPaths) > 0 {
		if err := p.moveToArchived(ctx, agendaDir); err != nil {
			p.logger.Warn(ctx, "Failed to move agenda folder to archived folder: %v", err)
		}
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Analysis completed successfully!")
	for _, path := range written {
		p.logger.Info(ctx, "Output: %s", path)
	}
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return nil
}

func (p *implProcessor) ProcessFiles(ctx context.Context, req FilesRequest, progress domain.ProgressFunc) (domain.AnalysisResult, []string, error) {
	audio, err := loadFile(req.AudioPath)
	if err != nil {
		return domain.AnalysisResult{}, nil, fmt.Errorf("load audio: %w", err)
	}

	var agenda []domain.UploadedFile
	for _, path := range req.AgendaPaths {
		f, err := loadFile(path)
		if err != nil {
			return domain.AnalysisResult{}, nil, fmt.Errorf("load agenda: %w", err)
		}
		agenda = append(agenda, f)
	}

	sess, err := p.store.Create(ctx)
	if err != nil {
		return domain.AnalysisResult{}, nil, fmt.Errorf("create session: %w", err)
	}
	defer func() {
		if err := p.store.Delete(context.WithoutCancel(ctx), sess.ID); err != nil {
			p.logger.Warn(ctx, "Failed to end session %s: %v", sess.ID, err)
		}
	}()

	result, err := p.orchestrator.Run(ctx, orchestrator.Input{
		SessionID: sess.ID,
		Audio:     &audio,
		Agenda:    agenda,
		Persona:   req.Persona,
	}, progress)
	if err != nil {
		return domain.AnalysisResult{}, nil, fmt.Errorf("analyze %s: %w", filepath.Base(req.AudioPath), err)
	}

	title := fmt.Sprintf("会議分析レポート: %s", baseName(req.AudioPath))
	written, err := report.WriteAll(req.OutputDir, title, result)
	if err != nil {
		return result, written, fmt.Errorf("write artifacts: %w", err)
	}

	return result, written, nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
