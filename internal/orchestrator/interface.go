package orchestrator

import (
	"context"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// Input is one user-triggered analysis request.
type Input struct {
	SessionID string
	Audio     *domain.UploadedFile
	Agenda    []domain.UploadedFile
	Persona   string
}

// Orchestrator runs the analysis state machine for a session.
type Orchestrator interface {
	// Run executes one analysis. At most one run per session is active;
	// a concurrent call returns apperr.ErrRunInProgress without side effects.
	// The session result is replaced only when both completions succeed.
	Run(ctx context.Context, in Input, progress domain.ProgressFunc) (domain.AnalysisResult, error)
}
