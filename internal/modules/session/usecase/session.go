package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"jobtrack/internal/modules/session/domain"
	sessiondto "jobtrack/internal/modules/session/dto"
	sessionin "jobtrack/internal/modules/session/port/in"
	sessionout "jobtrack/internal/modules/session/port/out"
	"jobtrack/internal/modules/session/service"
	trackerdto "jobtrack/internal/modules/tracker/dto"
	trackerin "jobtrack/internal/modules/tracker/port/in"
	apperrors "jobtrack/internal/platform/errors"
	"jobtrack/internal/platform/logging"
)

type Interactor struct {
	svc     *service.SessionService
	factory sessionout.TrackerFactory
	logger  *slog.Logger

	mu       sync.Mutex
	trackers map[string]sessionout.Tracker
}

func NewInteractor(svc *service.SessionService, factory sessionout.TrackerFactory, logger *slog.Logger) sessionin.Usecase {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Interactor{svc: svc, factory: factory, logger: logger, trackers: map[string]sessionout.Tracker{}}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	if i.factory == nil {
		return sessiondto.StartOutput{}, fmt.Errorf("tracker factory is not configured")
	}
	session, err := i.svc.Start(ctx, input.Label)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	tracker, err := i.factory.Open(ctx, session)
	if err != nil {
		if _, endErr := i.svc.End(ctx, session); endErr != nil {
			err = errors.Join(err, endErr)
		}
		return sessiondto.StartOutput{}, fmt.Errorf("open tracker for session %s: %w", session.ID, err)
	}

	i.mu.Lock()
	i.trackers[session.ID] = tracker
	i.mu.Unlock()

	i.logger.Info("session started", "session", session.ID, "label", session.Label, "backend", session.Backend)
	return sessiondto.StartOutput{
		SessionID: session.ID,
		Label:     session.Label,
		Backend:   session.Backend,
		StartedAt: session.StartedAt,
	}, nil
}

func (i *Interactor) Tracker(ctx context.Context, sessionID string) (trackerin.Usecase, error) {
	if _, err := i.svc.Active(ctx, sessionID); err != nil {
		return nil, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	tracker, ok := i.trackers[sessionID]
	if !ok {
		return nil, fmt.Errorf("tracker for session %s: %w", sessionID, apperrors.ErrNotFound)
	}
	return tracker.Usecase, nil
}

// End optionally exports the session report, then closes the store. A failed
// export leaves the session running so nothing is lost.
func (i *Interactor) End(ctx context.Context, input sessiondto.EndInput) (sessiondto.EndOutput, error) {
	session, err := i.svc.Active(ctx, input.SessionID)
	if err != nil {
		return sessiondto.EndOutput{}, err
	}
	i.mu.Lock()
	tracker, ok := i.trackers[session.ID]
	i.mu.Unlock()
	if !ok {
		return sessiondto.EndOutput{}, fmt.Errorf("tracker for session %s: %w", session.ID, apperrors.ErrNotFound)
	}

	out := sessiondto.EndOutput{SessionID: session.ID}
	records, err := tracker.Usecase.ListRecords(ctx)
	if err != nil {
		return sessiondto.EndOutput{}, err
	}
	out.Records = len(records)
	if input.ExportReport {
		exported, err := tracker.Usecase.Export(ctx, trackerdto.ExportInput{SessionID: session.ID, Label: session.Label})
		if err != nil {
			return sessiondto.EndOutput{}, fmt.Errorf("export session %s: %w", session.ID, err)
		}
		out.ReportPath = exported.Path
	}

	ended, err := i.svc.End(ctx, session)
	if err != nil {
		return sessiondto.EndOutput{}, err
	}
	i.mu.Lock()
	delete(i.trackers, session.ID)
	i.mu.Unlock()
	if tracker.Close != nil {
		if err := tracker.Close(); err != nil {
			i.logger.Warn("close session store", "session", session.ID, "err", err)
		}
	}

	out.EndedAt = ended.EndedAt
	i.logger.Info("session ended", "session", session.ID, "records", out.Records, "report", out.ReportPath)
	return out, nil
}

func (i *Interactor) List(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	sessions, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionOutput(session))
	}
	return out, nil
}

func toSessionOutput(session domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		SessionID: session.ID,
		Label:     session.Label,
		Backend:   session.Backend,
		StartedAt: session.StartedAt,
		EndedAt:   session.EndedAt,
		Active:    session.Active(),
	}
}
