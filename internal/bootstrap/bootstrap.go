package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	sessioninadapter "jobtrack/internal/modules/session/adapter/in"
	sessionoutadapter "jobtrack/internal/modules/session/adapter/out"
	sessiondomain "jobtrack/internal/modules/session/domain"
	sessionout "jobtrack/internal/modules/session/port/out"
	sessionservice "jobtrack/internal/modules/session/service"
	sessionusecase "jobtrack/internal/modules/session/usecase"
	trackerinadapter "jobtrack/internal/modules/tracker/adapter/in"
	trackeroutadapter "jobtrack/internal/modules/tracker/adapter/out"
	trackerdomain "jobtrack/internal/modules/tracker/domain"
	trackerout "jobtrack/internal/modules/tracker/port/out"
	trackerservice "jobtrack/internal/modules/tracker/service"
	trackerusecase "jobtrack/internal/modules/tracker/usecase"
	"jobtrack/internal/platform/clock"
	"jobtrack/internal/platform/config"
	"jobtrack/internal/platform/id"
	"jobtrack/internal/platform/logging"
	uiapp "jobtrack/internal/ui/app"
)

type App struct {
	Config     config.Config
	Logger     *slog.Logger
	SessionCLI sessioninadapter.CLIHandler
	Types      []string
	Statuses   []string
}

// New wires the application. Logs go to logOut at the configured level.
func New(cfg config.Config, logOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logOut == nil {
		logOut = io.Discard
	}
	logger := logging.New(logOut, cfg.LogLevel)
	clk := clock.SystemClock{}
	ids := id.UUID{}

	factory := trackerFactory{clock: clk, ids: ids, exportDir: cfg.ExportDir, logger: logger}
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids, sessionoutadapter.NewMemorySessionStore(), cfg.StoreBackend),
		factory,
		logger,
	)

	app := &App{
		Config:     cfg,
		Logger:     logger,
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
	}
	for _, t := range trackerdomain.InteractionTypes() {
		app.Types = append(app.Types, string(t))
	}
	for _, s := range trackerdomain.Statuses() {
		app.Statuses = append(app.Statuses, string(s))
	}
	return app, nil
}

// trackerFactory gives every session its own record store on the configured
// backend.
type trackerFactory struct {
	clock     clock.Clock
	ids       id.Generator
	exportDir string
	logger    *slog.Logger
}

func (f trackerFactory) Open(ctx context.Context, session sessiondomain.Session) (sessionout.Tracker, error) {
	var store trackerout.RecordStore
	switch session.Backend {
	case config.BackendSQLite:
		var err error
		if store, err = trackeroutadapter.NewSQLiteRecordStore(ctx); err != nil {
			return sessionout.Tracker{}, fmt.Errorf("new sqlite store: %w", err)
		}
	case config.BackendMemory, "":
		store = trackeroutadapter.NewMemoryRecordStore()
	default:
		return sessionout.Tracker{}, fmt.Errorf("unsupported store backend %q", session.Backend)
	}
	svc := trackerservice.NewRecordService(f.clock, f.ids, store, trackeroutadapter.NewVaultReportWriter(f.exportDir))
	return sessionout.Tracker{
		Usecase: trackerusecase.NewInteractor(svc, f.logger.With("session", session.ID)),
		Close:   svc.Close,
	}, nil
}

// RunTUI starts a session, runs the terminal UI on it and ends the session
// when the UI exits, unless the user already ended it from the palette.
func RunTUI(ctx context.Context, app *App, label string, exportOnExit bool) error {
	started, err := app.SessionCLI.Start(ctx, label)
	if err != nil {
		return err
	}
	tracker, err := app.SessionCLI.Tracker(ctx, started.SessionID)
	if err != nil {
		return err
	}

	model := uiapp.NewModel(started.SessionID, started.Label, trackerinadapter.NewCLIHandler(tracker), app.SessionCLI, app.Types, app.Statuses)
	final, runErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if m, ok := final.(uiapp.Model); ok && m.Ended() {
		return runErr
	}
	ended, endErr := app.SessionCLI.End(context.WithoutCancel(ctx), started.SessionID, exportOnExit)
	if endErr == nil && ended.ReportPath != "" {
		app.Logger.Info("report written", "path", ended.ReportPath)
	}
	return errors.Join(runErr, endErr)
}

// RunScript replays a YAML script inside a fresh session and writes one result
// per completed step to w. Results of the steps before a failure are still
// written.
func RunScript(ctx context.Context, app *App, path string, w io.Writer, format string, exportReport bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	script, err := trackerinadapter.ParseScript(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	started, err := app.SessionCLI.Start(ctx, script.Label)
	if err != nil {
		return err
	}
	tracker, err := app.SessionCLI.Tracker(ctx, started.SessionID)
	if err != nil {
		return err
	}
	results, runErr := trackerinadapter.NewScriptRunner(tracker, started.SessionID, started.Label).Run(ctx, script)
	writeErr := trackerinadapter.WriteResults(w, format, results)

	ended, endErr := app.SessionCLI.End(context.WithoutCancel(ctx), started.SessionID, exportReport && runErr == nil)
	if endErr == nil && ended.ReportPath != "" {
		app.Logger.Info("report written", "path", ended.ReportPath)
	}
	return errors.Join(runErr, writeErr, endErr)
}
