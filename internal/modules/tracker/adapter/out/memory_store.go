package out

import (
	"context"
	"fmt"
	"sync"

	"jobtrack/internal/modules/tracker/domain"
	trackerout "jobtrack/internal/modules/tracker/port/out"
	apperrors "jobtrack/internal/platform/errors"
)

type MemoryRecordStore struct {
	mu      sync.RWMutex
	records []domain.Record
	closed  bool
}

func NewMemoryRecordStore() trackerout.RecordStore {
	return &MemoryRecordStore{}
}

func (s *MemoryRecordStore) Append(_ context.Context, record domain.Record) error {
	if err := checkRecords(record); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.ErrSessionClosed
	}
	for _, existing := range s.records {
		if existing.ID == record.ID {
			return fmt.Errorf("append record: duplicate id %s", record.ID)
		}
	}
	s.records = append(s.records, record)
	return nil
}

func (s *MemoryRecordStore) All(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, apperrors.ErrSessionClosed
	}
	return append([]domain.Record(nil), s.records...), nil
}

func (s *MemoryRecordStore) Get(_ context.Context, recordID string) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.Record{}, apperrors.ErrSessionClosed
	}
	for _, record := range s.records {
		if record.ID == recordID {
			return record, nil
		}
	}
	return domain.Record{}, fmt.Errorf("record %s: %w", recordID, apperrors.ErrNotFound)
}

func (s *MemoryRecordStore) ReplaceAll(_ context.Context, records []domain.Record) error {
	if err := checkRecords(records...); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if _, dup := seen[record.ID]; dup {
			return fmt.Errorf("replace records: duplicate id %s", record.ID)
		}
		seen[record.ID] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.ErrSessionClosed
	}
	s.records = append([]domain.Record(nil), records...)
	return nil
}

func (s *MemoryRecordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}
