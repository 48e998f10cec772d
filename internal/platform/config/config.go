package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

const (
	envStore     = "JOBTRACK_STORE"
	envExportDir = "JOBTRACK_EXPORT_DIR"
	envLogLevel  = "JOBTRACK_LOG_LEVEL"
)

type Config struct {
	WorkspacePath string
	ExportDir     string
	StoreBackend  string
	LogLevel      string
}

// fileConfig mirrors .jobtrack/config.yaml.
type fileConfig struct {
	Store     string `yaml:"store"`
	ExportDir string `yaml:"export_dir"`
	LogLevel  string `yaml:"log_level"`
}

// New builds a Config rooted at workspacePath. Values are layered as
// defaults, then .jobtrack/config.yaml, then .env, then the process
// environment.
func New(workspacePath string) (Config, error) {
	if strings.TrimSpace(workspacePath) == "" {
		return Config{}, fmt.Errorf("workspace path is required")
	}
	cfg := Config{
		WorkspacePath: workspacePath,
		ExportDir:     filepath.Join(workspacePath, "reports"),
		StoreBackend:  BackendMemory,
		LogLevel:      "info",
	}

	if err := cfg.applyFile(filepath.Join(workspacePath, ".jobtrack", "config.yaml")); err != nil {
		return Config{}, err
	}
	dotenv, err := readDotenv(filepath.Join(workspacePath, ".env"))
	if err != nil {
		return Config{}, err
	}
	cfg.applyEnv(func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unsupported store backend %q", c.StoreBackend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.LogLevel)
	}
	if strings.TrimSpace(c.ExportDir) == "" {
		return fmt.Errorf("export dir is required")
	}
	return nil
}

// StateDir holds files the tool writes for itself, such as the TUI log.
func (c Config) StateDir() string {
	return filepath.Join(c.WorkspacePath, ".jobtrack")
}

func (c *Config) applyFile(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	fc := fileConfig{}
	if err := yaml.Unmarshal(payload, &fc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	c.set(fc.Store, fc.ExportDir, fc.LogLevel)
	return nil
}

func (c *Config) applyEnv(lookup func(string) string) {
	c.set(lookup(envStore), lookup(envExportDir), lookup(envLogLevel))
}

func (c *Config) set(store, exportDir, level string) {
	if v := strings.ToLower(strings.TrimSpace(store)); v != "" {
		c.StoreBackend = v
	}
	if v := strings.TrimSpace(exportDir); v != "" {
		if !filepath.IsAbs(v) {
			v = filepath.Join(c.WorkspacePath, v)
		}
		c.ExportDir = v
	}
	if v := strings.ToLower(strings.TrimSpace(level)); v != "" {
		c.LogLevel = v
	}
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}
