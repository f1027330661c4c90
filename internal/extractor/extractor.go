package extractor

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/nguyentantai21042004/meeting-assistant/internal/apperr"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// Extract classifies the file and runs its category's routine exactly once.
func (e *implExtractor) Extract(ctx context.Context, file domain.UploadedFile, languageHint string) domain.ExtractionResult {
	category := Classify(file)
	handler, ok := e.handlers[category]
	if !ok {
		// unreachable while the table covers Categories
		handler = (*implExtractor).extractUnsupported
	}

	text, err := handler(e, ctx, file, languageHint)
	if err != nil {
		err = apperr.Extraction(file.Name, err)
		e.logger.Warn(ctx, "Failed to extract %s (%s): %v", file.Name, category, err)
		e.metrics.RecordExtraction(string(category), "failed")
		return domain.Failure(file.Name, err)
	}

	outcome := "ok"
	if category == CategoryUnsupported {
		outcome = "unsupported"
	}
	e.metrics.RecordExtraction(string(category), outcome)
	e.logger.Debug(ctx, "Extracted %d bytes of text from %s (%s)", len(text), file.Name, category)

	return domain.Text(file.Name, text)
}

func (e *implExtractor) extractText(_ context.Context, file domain.UploadedFile, _ string) (string, error) {
	if !utf8.Valid(file.Bytes) {
		return "", fmt.Errorf("file is not valid UTF-8")
	}
	return string(file.Bytes), nil
}

func (e *implExtractor) extractUnsupported(_ context.Context, _ domain.UploadedFile, _ string) (string, error) {
	return UnsupportedText, nil
}

// stage writes the file bytes to a temp file for tools that need a path.
// The returned cleanup must be called on every exit path.
func (e *implExtractor) stage(file domain.UploadedFile) (string, func(), error) {
	pattern := "agenda-*"
	if ext := file.Ext(); ext != "" {
		pattern += "." + ext
	}

	tmp, err := os.CreateTemp(e.cfg.TempDir, pattern)
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			e.logger.Warn(context.Background(), "Failed to remove temp file %s: %v", path, err)
		}
	}

	if _, err := tmp.Write(file.Bytes); err != nil {
		tmp.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("failed to close temp file: %w", err)
	}

	return path, cleanup, nil
}

// runTool stages the file and runs name with the arguments built around the staged path.
func (e *implExtractor) runTool(ctx context.Context, file domain.UploadedFile, name string, argsFor func(path string) []string) (string, error) {
	path, cleanup, err := e.stage(file)
	if err != nil {
		return "", err
	}
	defer cleanup()

	return e.executor.Execute(ctx, name, argsFor(path)...)
}
