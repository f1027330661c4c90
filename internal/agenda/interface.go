package agenda

import (
	"context"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// DefaultMaxFiles is the number of agenda files read per run. Later files are ignored.
const DefaultMaxFiles = 10

// Aggregator extracts agenda files and concatenates their text in upload order.
type Aggregator interface {
	// Aggregate never fails: unreadable files become placeholder lines.
	// progress may be nil; it is called once per file, never concurrently.
	Aggregate(ctx context.Context, files []domain.UploadedFile, languageHint string, progress domain.ProgressFunc) domain.AgendaBundle
}
