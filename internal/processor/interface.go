package processor

import (
	"context"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// FilesRequest names local files for a one-off analysis.
type FilesRequest struct {
	AudioPath   string
	AgendaPaths []string
	Persona     string
	OutputDir   string
}

// Processor runs analyses for files on disk.
type Processor interface {
	// Process handles one recording dropped into the watch folder.
	Process(ctx context.Context, audioPath string) error

	// ProcessFiles analyses the given files and writes the artifacts to OutputDir.
	ProcessFiles(ctx context.Context, req FilesRequest, progress domain.ProgressFunc) (domain.AnalysisResult, []string, error)
}
