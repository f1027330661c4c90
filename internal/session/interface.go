package session

import (
	"context"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

// Store keeps per-session state between analysis runs.
// Get and Delete return apperr.ErrSessionNotFound for unknown ids.
type Store interface {
	Create(ctx context.Context) (domain.Session, error)
	Get(ctx context.Context, id string) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Delete(ctx context.Context, id string) error

	// AcquireRun marks a run as active for the session. It returns false
	// when another run already holds the session.
	AcquireRun(ctx context.Context, id string) (bool, error)
	ReleaseRun(ctx context.Context, id string) error
}
