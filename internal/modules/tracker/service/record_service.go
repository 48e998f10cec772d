package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"jobtrack/internal/modules/tracker/domain"
	trackerout "jobtrack/internal/modules/tracker/port/out"
	"jobtrack/internal/platform/clock"
	apperrors "jobtrack/internal/platform/errors"
	"jobtrack/internal/platform/id"
)

const maxIDAttempts = 16

var errIDExhausted = errors.New("id generator keeps returning used ids")

// RecordService owns one session's store. Mutations are serialized so the
// presenter may call it from background commands.
type RecordService struct {
	mu      sync.Mutex
	clock   clock.Clock
	idGen   id.Generator
	store   trackerout.RecordStore
	reports trackerout.ReportWriter
	issued  map[string]struct{}
}

func NewRecordService(clock clock.Clock, idGen id.Generator, store trackerout.RecordStore, reports trackerout.ReportWriter) *RecordService {
	return &RecordService{
		clock:   clock,
		idGen:   idGen,
		store:   store,
		reports: reports,
		issued:  map[string]struct{}{},
	}
}

func (s *RecordService) Create(ctx context.Context, draft domain.Draft) (domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, err := draft.Resolve(clock.Today(s.clock))
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err)
	}
	recordID, err := s.nextID(ctx)
	if err != nil {
		return domain.Record{}, err
	}
	record := domain.Record{ID: recordID, Fields: fields}
	if err := s.store.Append(ctx, record); err != nil {
		return domain.Record{}, err
	}
	return record, nil
}

func (s *RecordService) List(ctx context.Context) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All(ctx)
}

func (s *RecordService) Filter(ctx context.Context, filter domain.Filter) ([]domain.ViewRow, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(records), nil
}

func (s *RecordService) Options(ctx context.Context) ([]domain.Status, []domain.InteractionType, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	statuses, kinds := domain.Options(records)
	return statuses, kinds, nil
}

func (s *RecordService) Summary(ctx context.Context) (domain.Summary, error) {
	records, err := s.List(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(records), nil
}

// Reconcile merges an edited view into the store. Row failures are part of
// the outcome; the returned error is reserved for the store itself, in which
// case nothing was written.
func (s *RecordService) Reconcile(ctx context.Context, pre []domain.ViewRow, post []domain.EditedRow) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.All(ctx)
	if err != nil {
		return domain.Outcome{}, err
	}
	outcome := domain.Reconcile(current, pre, post, clock.Today(s.clock), func() (string, error) {
		return s.nextID(ctx)
	})
	if !outcome.Changed() {
		return outcome, nil
	}
	if err := s.store.ReplaceAll(ctx, outcome.Records); err != nil {
		return domain.Outcome{}, err
	}
	return outcome, nil
}

func (s *RecordService) Export(ctx context.Context, sessionID, label string) (string, domain.Report, error) {
	if s.reports == nil {
		return "", domain.Report{}, fmt.Errorf("report writer is not configured")
	}
	records, err := s.List(ctx)
	if err != nil {
		return "", domain.Report{}, err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = sessionID
	}
	report := domain.Report{
		SessionID:   sessionID,
		Label:       label,
		GeneratedAt: s.clock.Now(),
		Records:     records,
		Summary:     domain.Summarize(records),
	}
	path, err := s.reports.Write(ctx, report)
	if err != nil {
		return "", domain.Report{}, err
	}
	return path, report, nil
}

func (s *RecordService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}

// nextID must be called with mu held. An id is never handed out twice in a
// session, even after its record was deleted, and never shadows a stored row.
func (s *RecordService) nextID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := s.idGen.New()
		if candidate == "" {
			continue
		}
		if _, used := s.issued[candidate]; used {
			continue
		}
		_, err := s.store.Get(ctx, candidate)
		if err == nil {
			s.issued[candidate] = struct{}{}
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
		s.issued[candidate] = struct{}{}
		return candidate, nil
	}
	return "", errIDExhausted
}
