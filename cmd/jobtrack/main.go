package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jobtrack/internal/bootstrap"
	"jobtrack/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	workspace string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "jobtrack",
		Short:         "Track job-search interactions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.workspace, "workspace", ".", "workspace holding .jobtrack/config.yaml, .env and reports")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newEnumsCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.New(opts.workspace)
	if err != nil {
		return config.Config{}, err
	}
	if level := strings.TrimSpace(opts.logLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	return cfg, nil
}

func loadApp(opts *rootOptions, logOut io.Writer) (*bootstrap.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logOut)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	var label string
	var export bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI for one session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			// the alternate screen owns stdout, so logs go to a file
			if err := os.MkdirAll(cfg.StateDir(), 0o755); err != nil {
				return fmt.Errorf("create state dir: %w", err)
			}
			logFile, err := os.OpenFile(filepath.Join(cfg.StateDir(), "tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open tui log: %w", err)
			}
			defer func() { _ = logFile.Close() }()

			app, err := bootstrap.New(cfg, logFile)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(cmd.Context(), app, label, export)
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "session label (defaults to the start time)")
	cmd.Flags().BoolVar(&export, "export", false, "write the session report when the UI exits")
	return cmd
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var format string
	var export bool
	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Replay a scripted session and print each step's result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return bootstrap.RunScript(cmd.Context(), app, args[0], cmd.OutOrStdout(), format, export)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text|json")
	cmd.Flags().BoolVar(&export, "export", false, "write the session report after a successful run")
	return cmd
}

func newEnumsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "enums",
		Short: "List the allowed interaction types and statuses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts, nil)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string][]string{"types": app.Types, "statuses": app.Statuses})
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "types:")
			for _, t := range app.Types {
				_, _ = fmt.Fprintf(out, "  %s\n", t)
			}
			_, _ = fmt.Fprintln(out, "statuses:")
			for _, s := range app.Statuses {
				_, _ = fmt.Fprintf(out, "  %s\n", s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "workspace\t%s\n", cfg.WorkspacePath)
			_, _ = fmt.Fprintf(out, "store\t%s\n", cfg.StoreBackend)
			_, _ = fmt.Fprintf(out, "export_dir\t%s\n", cfg.ExportDir)
			_, _ = fmt.Fprintf(out, "log_level\t%s\n", cfg.LogLevel)
			return nil
		},
	}
}
