package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobtrack/internal/modules/tracker/domain"
	trackerout "jobtrack/internal/modules/tracker/port/out"
	apperrors "jobtrack/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// SQLiteRecordStore keeps a session's records in a private in-memory SQLite
// database. The database lives exactly as long as the store.
type SQLiteRecordStore struct {
	db *sql.DB
}

func NewSQLiteRecordStore(ctx context.Context) (trackerout.RecordStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	store := &SQLiteRecordStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteRecordStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS records (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  date TEXT NOT NULL,
  company TEXT NOT NULL,
  role TEXT NOT NULL,
  type TEXT NOT NULL,
  contact TEXT NOT NULL,
  status TEXT NOT NULL CHECK (status <> ''),
  notes TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

const insertRecord = `
INSERT INTO records (id, date, company, role, type, contact, status, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, record domain.Record) error {
	_, err := db.ExecContext(ctx, insertRecord,
		record.ID,
		record.Date.Format(domain.DateLayout),
		record.Company,
		record.Role,
		string(record.Type),
		record.Contact,
		string(record.Status),
		record.Notes,
	)
	if err != nil {
		return fmt.Errorf("insert record %s: %w", record.ID, err)
	}
	return nil
}

func (s *SQLiteRecordStore) Append(ctx context.Context, record domain.Record) error {
	if err := s.open(); err != nil {
		return err
	}
	if err := checkRecords(record); err != nil {
		return err
	}
	return insert(ctx, s.db, record)
}

func (s *SQLiteRecordStore) All(ctx context.Context) ([]domain.Record, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, date, company, role, type, contact, status, notes FROM records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func (s *SQLiteRecordStore) Get(ctx context.Context, recordID string) (domain.Record, error) {
	if err := s.open(); err != nil {
		return domain.Record{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT id, date, company, role, type, contact, status, notes FROM records WHERE id = ?`, recordID)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, fmt.Errorf("record %s: %w", recordID, apperrors.ErrNotFound)
	}
	return record, err
}

// ReplaceAll rewrites the table inside one transaction. seq keeps growing, so
// the new slice order becomes the stored order.
func (s *SQLiteRecordStore) ReplaceAll(ctx context.Context, records []domain.Record) error {
	if err := s.open(); err != nil {
		return err
	}
	if err := checkRecords(records...); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear records: %w", err)
	}
	for _, record := range records {
		if err := insert(ctx, tx, record); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

func (s *SQLiteRecordStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteRecordStore) open() error {
	if s.db == nil {
		return apperrors.ErrSessionClosed
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (domain.Record, error) {
	var (
		record      domain.Record
		date        string
		kind, state string
	)
	if err := row.Scan(&record.ID, &date, &record.Company, &record.Role, &kind, &record.Contact, &state, &record.Notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Record{}, err
		}
		return domain.Record{}, fmt.Errorf("scan record: %w", err)
	}
	parsed, err := time.ParseInLocation(domain.DateLayout, date, time.UTC)
	if err != nil {
		return domain.Record{}, fmt.Errorf("decode date of %s: %w", record.ID, err)
	}
	record.Date = parsed
	record.Type = domain.InteractionType(kind)
	record.Status = domain.Status(state)
	return record, nil
}
