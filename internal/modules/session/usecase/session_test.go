package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	sessionstore "jobtrack/internal/modules/session/adapter/out"
	"jobtrack/internal/modules/session/domain"
	sessiondto "jobtrack/internal/modules/session/dto"
	sessionin "jobtrack/internal/modules/session/port/in"
	sessionout "jobtrack/internal/modules/session/port/out"
	"jobtrack/internal/modules/session/service"
	"jobtrack/internal/modules/session/usecase"
	trackerstore "jobtrack/internal/modules/tracker/adapter/out"
	trackerdto "jobtrack/internal/modules/tracker/dto"
	trackerservice "jobtrack/internal/modules/tracker/service"
	trackerusecase "jobtrack/internal/modules/tracker/usecase"
	apperrors "jobtrack/internal/platform/errors"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type counterID struct {
	prefix string
	n      int
}

func (c *counterID) New() string {
	c.n++
	return fmt.Sprintf("%s-%d", c.prefix, c.n)
}

type memoryFactory struct {
	reportDir string
	closed    []string
	fail      bool
}

func (f *memoryFactory) Open(_ context.Context, session domain.Session) (sessionout.Tracker, error) {
	if f.fail {
		return sessionout.Tracker{}, errors.New("backend unavailable")
	}
	clk := &fakeClock{values: []time.Time{time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}}
	store := trackerstore.NewMemoryRecordStore()
	svc := trackerservice.NewRecordService(clk, &counterID{prefix: "rec"}, store, trackerstore.NewVaultReportWriter(f.reportDir))
	return sessionout.Tracker{
		Usecase: trackerusecase.NewInteractor(svc, nil),
		Close: func() error {
			f.closed = append(f.closed, session.ID)
			return svc.Close()
		},
	}, nil
}

func newSessions(t *testing.T, factory *memoryFactory) sessionin.Usecase {
	t.Helper()
	clk := &fakeClock{values: []time.Time{
		time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 25, 10, 5, 0, 0, time.UTC),
		time.Date(2026, 2, 25, 10, 30, 0, 0, time.UTC),
	}}
	svc := service.NewSessionService(clk, &counterID{prefix: "sess"}, sessionstore.NewMemorySessionStore(), "memory")
	return usecase.NewInteractor(svc, factory, nil)
}

var acme = trackerdto.CreateInput{Company: "Acme", Type: "Formal Application", Status: "Applied"}

func TestSessionsHaveIsolatedStores(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newSessions(t, &memoryFactory{reportDir: t.TempDir()})

	first, err := uc.Start(ctx, sessiondto.StartInput{Label: "first"})
	if err != nil {
		t.Fatalf("start first: %v", err)
	}
	second, err := uc.Start(ctx, sessiondto.StartInput{})
	if err != nil {
		t.Fatalf("start second: %v", err)
	}
	if first.SessionID == second.SessionID {
		t.Fatalf("sessions share id %s", first.SessionID)
	}
	if !strings.HasPrefix(second.Label, "session 2026-02-25") {
		t.Fatalf("expected default label, got %q", second.Label)
	}

	firstTracker, err := uc.Tracker(ctx, first.SessionID)
	if err != nil {
		t.Fatalf("first tracker: %v", err)
	}
	if _, err := firstTracker.CreateRecord(ctx, acme); err != nil {
		t.Fatalf("create in first: %v", err)
	}
	secondTracker, err := uc.Tracker(ctx, second.SessionID)
	if err != nil {
		t.Fatalf("second tracker: %v", err)
	}
	records, err := secondTracker.ListRecords(ctx)
	if err != nil {
		t.Fatalf("list second: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("second session sees %d records of the first", len(records))
	}
}

func TestEndExportsClosesAndRejectsFurtherUse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	factory := &memoryFactory{reportDir: t.TempDir()}
	uc := newSessions(t, factory)

	started, err := uc.Start(ctx, sessiondto.StartInput{Label: "Spring Search"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	tracker, err := uc.Tracker(ctx, started.SessionID)
	if err != nil {
		t.Fatalf("tracker: %v", err)
	}
	if _, err := tracker.CreateRecord(ctx, acme); err != nil {
		t.Fatalf("create: %v", err)
	}

	ended, err := uc.End(ctx, sessiondto.EndInput{SessionID: started.SessionID, ExportReport: true})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Records != 1 || ended.ReportPath == "" {
		t.Fatalf("unexpected end output %+v", ended)
	}
	note, err := os.ReadFile(ended.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(note), "session_id: "+started.SessionID) {
		t.Fatalf("report missing session id:\n%s", note)
	}
	if len(factory.closed) != 1 || factory.closed[0] != started.SessionID {
		t.Fatalf("expected store to be closed, got %v", factory.closed)
	}

	if _, err := uc.Tracker(ctx, started.SessionID); !errors.Is(err, apperrors.ErrSessionClosed) {
		t.Fatalf("expected closed session, got %v", err)
	}
	if _, err := uc.End(ctx, sessiondto.EndInput{SessionID: started.SessionID}); !errors.Is(err, apperrors.ErrSessionClosed) {
		t.Fatalf("expected closed session on second end, got %v", err)
	}
	if _, err := tracker.ListRecords(ctx); !errors.Is(err, apperrors.ErrSessionClosed) {
		t.Fatalf("records must not outlive the session, got %v", err)
	}

	sessions, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Active {
		t.Fatalf("expected one ended session, got %+v", sessions)
	}
}

func TestUnknownSessionAndFailingFactory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newSessions(t, &memoryFactory{fail: true})

	if _, err := uc.Tracker(ctx, "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := uc.End(ctx, sessiondto.EndInput{SessionID: "nope"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on end, got %v", err)
	}
	if _, err := uc.Tracker(ctx, ""); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	if _, err := uc.Start(ctx, sessiondto.StartInput{Label: "x"}); err == nil {
		t.Fatalf("expected start to fail when the store cannot open")
	}
	sessions, _ := uc.List(ctx)
	for _, s := range sessions {
		if s.Active {
			t.Fatalf("failed start must not leave an active session: %+v", s)
		}
	}
}
