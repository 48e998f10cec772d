package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"jobtrack/internal/platform/config"
)

func TestNewDefaults(t *testing.T) {
	ws := t.TempDir()
	t.Setenv("JOBTRACK_STORE", "")
	t.Setenv("JOBTRACK_EXPORT_DIR", "")
	t.Setenv("JOBTRACK_LOG_LEVEL", "")
	cfg, err := config.New(ws)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.StoreBackend != config.BackendMemory {
		t.Fatalf("expected memory backend, got %s", cfg.StoreBackend)
	}
	if cfg.ExportDir != filepath.Join(ws, "reports") {
		t.Fatalf("unexpected export dir %s", cfg.ExportDir)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level %s", cfg.LogLevel)
	}
}

func TestNewLayersFileDotenvAndEnvironment(t *testing.T) {
	ws := t.TempDir()
	if err := os.MkdirAll(filepath.Join(ws, ".jobtrack"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yamlBody := "store: sqlite\nexport_dir: out\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(ws, ".jobtrack", "config.yaml"), []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(ws, ".env"), []byte("JOBTRACK_LOG_LEVEL=warn\n"), 0o644); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("JOBTRACK_STORE", "")
	t.Setenv("JOBTRACK_EXPORT_DIR", "")
	t.Setenv("JOBTRACK_LOG_LEVEL", "")
	_ = os.Unsetenv("JOBTRACK_LOG_LEVEL")

	cfg, err := config.New(ws)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.StoreBackend != config.BackendSQLite {
		t.Fatalf("expected sqlite from file, got %s", cfg.StoreBackend)
	}
	if cfg.ExportDir != filepath.Join(ws, "out") {
		t.Fatalf("expected workspace-relative export dir, got %s", cfg.ExportDir)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected .env to override file level, got %s", cfg.LogLevel)
	}

	t.Setenv("JOBTRACK_LOG_LEVEL", "error")
	cfg, err = config.New(ws)
	if err != nil {
		t.Fatalf("new config with env: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("expected process env to win, got %s", cfg.LogLevel)
	}
}

func TestNewRejectsUnknownBackendAndEmptyWorkspace(t *testing.T) {
	if _, err := config.New(""); err == nil {
		t.Fatalf("empty workspace should fail")
	}
	t.Setenv("JOBTRACK_STORE", "postgres")
	if _, err := config.New(t.TempDir()); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}
