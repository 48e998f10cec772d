package service

import (
	"context"
	"fmt"
	"strings"

	"jobtrack/internal/modules/session/domain"
	sessionout "jobtrack/internal/modules/session/port/out"
	"jobtrack/internal/platform/clock"
	apperrors "jobtrack/internal/platform/errors"
	"jobtrack/internal/platform/id"
)

type SessionService struct {
	clock   clock.Clock
	idGen   id.Generator
	store   sessionout.SessionStore
	backend string
}

func NewSessionService(clock clock.Clock, idGen id.Generator, store sessionout.SessionStore, backend string) *SessionService {
	return &SessionService{clock: clock, idGen: idGen, store: store, backend: backend}
}

func (s *SessionService) Start(ctx context.Context, label string) (domain.Session, error) {
	session := domain.Session{
		ID:        s.idGen.New(),
		Label:     strings.TrimSpace(label),
		Backend:   s.backend,
		StartedAt: s.clock.Now(),
	}
	if session.Label == "" {
		session.Label = "session " + session.StartedAt.Format("2006-01-02 15:04")
	}
	if err := session.Validate(); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	if err := s.store.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Active loads a session and fails with ErrSessionClosed once it has ended.
func (s *SessionService) Active(ctx context.Context, sessionID string) (domain.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	session, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if !session.Active() {
		return domain.Session{}, fmt.Errorf("session %s: %w", sessionID, apperrors.ErrSessionClosed)
	}
	return session, nil
}

func (s *SessionService) End(ctx context.Context, session domain.Session) (domain.Session, error) {
	session.EndedAt = s.clock.Now()
	if session.EndedAt.Before(session.StartedAt) {
		session.EndedAt = session.StartedAt
	}
	if err := s.store.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	return s.store.List(ctx)
}
