package extractor

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// extractDoc converts a binary Word document with antiword.
func (e *implExtractor) extractDoc(ctx context.Context, file domain.UploadedFile, _ string) (string, error) {
	out, err := e.runTool(ctx, file, e.cfg.Tools.Antiword, func(path string) []string {
		return []string{"-w", "0", path}
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
