package extractor

import (
	"context"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// Extractor turns one agenda document into plain text.
// Parse failures are returned as domain.Failure results, never as errors.
type Extractor interface {
	Extract(ctx context.Context, file domain.UploadedFile, languageHint string) domain.ExtractionResult
}
