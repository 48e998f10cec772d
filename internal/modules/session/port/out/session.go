package out

import (
	"context"

	"jobtrack/internal/modules/session/domain"
	trackerin "jobtrack/internal/modules/tracker/port/in"
)

type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Load(ctx context.Context, sessionID string) (domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
}

// Tracker is a session's private record store and the operations on it.
// Close releases the store; the records do not survive it.
type Tracker struct {
	Usecase trackerin.Usecase
	Close   func() error
}

type TrackerFactory interface {
	Open(ctx context.Context, session domain.Session) (Tracker, error)
}
