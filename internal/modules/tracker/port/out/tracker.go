package out

import (
	"context"

	"jobtrack/internal/modules/tracker/domain"
)

// RecordStore holds the canonical ordered collection of one session.
// Implementations return copies; callers never share memory with the store.
type RecordStore interface {
	Append(ctx context.Context, record domain.Record) error
	All(ctx context.Context) ([]domain.Record, error)
	Get(ctx context.Context, id string) (domain.Record, error)
	// ReplaceAll swaps the whole collection atomically. Only reconciliation
	// calls it.
	ReplaceAll(ctx context.Context, records []domain.Record) error
	Close() error
}

type ReportWriter interface {
	Write(ctx context.Context, report domain.Report) (string, error)
}
