// Package main provides the exceptexpr binary entry point.
// Exceptexpr evaluates expressions with except-clause fallbacks and scans
// Python codebases for try/except statements that could be written that way.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evalkit/exceptexpr/config"
	"github.com/evalkit/exceptexpr/eval"
	"github.com/evalkit/exceptexpr/finder"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "exceptexpr"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Except-expression evaluator and finder",
		Long: `Exceptexpr evaluates expressions of the form

    expr except FailureClass [as name]: fallback

where a failure in the primary expression selects the first matching
clause and yields that clause's fallback value instead.

It also scans Python source trees for try/except statements simple
enough to be rewritten as a single except-expression.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newEvalCmd(&configPath, &logLevel))
	cmd.AddCommand(newRunCmd(&configPath, &logLevel))
	cmd.AddCommand(newFindCmd(&configPath, &logLevel))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setup loads layered configuration and installs the default logger. The
// log-level flag wins over the config file when set.
func setup(configPath, logLevel string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg, err = config.NewLoader(nil).Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return cfg, nil
}

func newEvalCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "eval [expression]",
		Short: "Evaluate a single expression",
		Long: `Evaluate a single expression and print its value.

With no argument the expression is read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(*configPath, *logLevel); err != nil {
				return err
			}

			src, err := sourceFromArgsOrStdin(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			interp := eval.New(eval.WithStdout(cmd.OutOrStdout()))
			result, err := interp.EvalString(src)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), eval.Repr(result))
			return nil
		},
	}
}

func newRunCmd(configPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Run a program file",
		Long:  `Run a program file and print the value of its final statement.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(*configPath, *logLevel); err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read program: %w", err)
			}

			interp := eval.New(eval.WithStdout(cmd.OutOrStdout()))
			result, err := interp.RunString(string(data))
			if err != nil {
				return err
			}
			if _, isNil := result.(eval.Nil); !isNil {
				fmt.Fprintln(cmd.OutOrStdout(), eval.Repr(result))
			}
			return nil
		},
	}
}

func newFindCmd(configPath, logLevel *string) *cobra.Command {
	var (
		verbose  bool
		watch    bool
		format   string
		includes []string
		excludes []string
	)

	cmd := &cobra.Command{
		Use:   "find [path...]",
		Short: "Find try/except statements rewritable as except-expressions",
		Long: `Scan Python files for try/except statements simple enough to be
rewritten as a single except-expression, and report how except
clauses are used across the scanned code.

Paths may be files, directories, or glob patterns (with ** support).
With no path the configured scan root is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configPath, *logLevel)
			if err != nil {
				return err
			}

			if verbose {
				cfg.Finder.Verbose = true
			}
			if cmd.Flags().Changed("format") {
				cfg.Finder.Format = format
			}
			if len(includes) > 0 {
				cfg.Finder.Include = append(cfg.Finder.Include, includes...)
			}
			if len(excludes) > 0 {
				cfg.Finder.Exclude = append(cfg.Finder.Exclude, excludes...)
			}

			patterns := args
			if len(patterns) == 0 {
				patterns = cfg.Finder.Include
			}
			if len(patterns) == 0 {
				patterns = []string{cfg.Finder.Root}
			}

			switch cfg.Finder.Format {
			case "text", "yaml":
			default:
				return fmt.Errorf("unknown format: %s", cfg.Finder.Format)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			f := finder.New(finder.WithVerbose(cfg.Finder.Verbose))
			report, err := f.Scan(ctx, patterns, cfg.Finder.Exclude)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := writeReport(report, cfg.Finder.Format, out); err != nil {
				return err
			}

			if !watch {
				return nil
			}
			return watchAndReport(ctx, cfg, f, out)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log files that fail to parse")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep watching the scan root and rescan changed files")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Report format (text or yaml)")
	cmd.Flags().StringSliceVar(&includes, "include", nil, "Path patterns to scan when no path argument is given")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "Path patterns to skip")

	return cmd
}

func writeReport(report *finder.Report, format string, out io.Writer) error {
	if format == "yaml" {
		return report.WriteYAML(out)
	}
	return report.WriteText(out)
}

// watchAndReport rescans changed files until the context is canceled,
// printing fresh candidate lines as they appear.
func watchAndReport(ctx context.Context, cfg *config.Config, f *finder.Finder, out io.Writer) error {
	w, err := finder.NewWatcher(finder.WatcherConfig{
		Root:          cfg.Finder.Root,
		DebounceDelay: cfg.Finder.DebounceDelay,
	}, f)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-w.Events():
			switch {
			case event.Error != nil:
				slog.Warn("rescan failed", "path", event.Path, "error", event.Error)
			case event.Removed:
				slog.Info("file removed", "path", event.Path)
			case event.Result != nil:
				for _, c := range event.Result.Candidates {
					fmt.Fprintln(out, c.String())
				}
			}
		}
	}
}

// sourceFromArgsOrStdin returns the expression text: the lone argument when
// given, otherwise everything from standard input.
func sourceFromArgsOrStdin(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	src := strings.TrimSpace(string(data))
	if src == "" {
		return "", fmt.Errorf("no expression given")
	}
	return src, nil
}
