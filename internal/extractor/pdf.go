package extractor

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// extractPDF runs pdftotext and drops pages without text.
func (e *implExtractor) extractPDF(ctx context.Context, file domain.UploadedFile, _ string) (string, error) {
	// pdftotext -enc UTF-8 -eol unix <path> -
	out, err := e.runTool(ctx, file, e.cfg.Tools.PDFToText, func(path string) []string {
		return []string{"-enc", "UTF-8", "-eol", "unix", path, "-"}
	})
	if err != nil {
		return "", err
	}

	// pages are separated by form feeds
	var pages []string
	for _, page := range strings.Split(out, "\f") {
		if strings.TrimSpace(page) == "" {
			continue
		}
		pages = append(pages, strings.TrimRight(page, "\n"))
	}

	return strings.Join(pages, "\n"), nil
}
