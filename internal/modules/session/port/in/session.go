package in

import (
	"context"

	sessiondto "jobtrack/internal/modules/session/dto"
	trackerin "jobtrack/internal/modules/tracker/port/in"
)

type Usecase interface {
	Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error)
	// Tracker returns the record operations of an active session.
	Tracker(ctx context.Context, sessionID string) (trackerin.Usecase, error)
	End(ctx context.Context, input sessiondto.EndInput) (sessiondto.EndOutput, error)
	List(ctx context.Context) ([]sessiondto.SessionOutput, error)
}
