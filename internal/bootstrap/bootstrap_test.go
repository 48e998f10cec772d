package bootstrap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"jobtrack/internal/bootstrap"
	"jobtrack/internal/platform/config"
)

const script = `
label: Bootstrap check
steps:
  - op: create
    ref: acme
    record: {company: Acme, type: Formal Application, status: Applied}
  - op: edit
    rows:
      - {ref: acme, status: Offer}
  - op: summary
`

func newApp(t *testing.T, backend string) (*bootstrap.App, string) {
	t.Helper()
	ws := t.TempDir()
	cfg := config.Config{
		WorkspacePath: ws,
		ExportDir:     filepath.Join(ws, "reports"),
		StoreBackend:  backend,
		LogLevel:      "debug",
	}
	app, err := bootstrap.New(cfg, nil)
	require.NoError(t, err)
	path := filepath.Join(ws, "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))
	return app, path
}

func TestRunScriptOnEveryBackend(t *testing.T) {
	t.Parallel()
	for _, backend := range []string{config.BackendMemory, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			t.Parallel()
			app, path := newApp(t, backend)
			out := bytes.Buffer{}
			require.NoError(t, bootstrap.RunScript(context.Background(), app, path, &out, "json", true))

			var results []map[string]any
			require.NoError(t, json.Unmarshal(out.Bytes(), &results))
			require.Len(t, results, 3)

			reports, err := filepath.Glob(filepath.Join(app.Config.ExportDir, "bootstrap-check-*.md"))
			require.NoError(t, err)
			require.Len(t, reports, 1)
			note, err := os.ReadFile(reports[0])
			require.NoError(t, err)
			require.Contains(t, string(note), "| Acme |")
			require.Contains(t, string(note), "Offer")

			sessions, err := app.SessionCLI.List(context.Background())
			require.NoError(t, err)
			require.Len(t, sessions, 1)
			require.False(t, sessions[0].Active)
			require.Equal(t, backend, sessions[0].Backend)
		})
	}
}

func TestRunScriptFailureSkipsExportAndEndsSession(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t, config.BackendMemory)
	path := filepath.Join(app.Config.WorkspacePath, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - op: list\n  - op: create\n    record: {company: X, type: Fax, status: Applied}\n"), 0o644))

	out := bytes.Buffer{}
	err := bootstrap.RunScript(context.Background(), app, path, &out, "text", true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "step 2 (create)")
	require.True(t, strings.HasPrefix(out.String(), "[1] list:"))

	_, statErr := os.Stat(app.Config.ExportDir)
	require.True(t, os.IsNotExist(statErr), "no report on a failed run")
	sessions, err := app.SessionCLI.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.False(t, sessions[0].Active)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()
	_, err := bootstrap.New(config.Config{WorkspacePath: ".", ExportDir: "r", StoreBackend: "postgres", LogLevel: "info"}, nil)
	require.Error(t, err)
}
