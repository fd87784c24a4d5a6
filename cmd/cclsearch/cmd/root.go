// Package cmd provides the CLI commands for cclsearch.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
	"github.com/Aman-CERP/cclsearch/internal/logging"
	"github.com/Aman-CERP/cclsearch/internal/profiling"
	"github.com/Aman-CERP/cclsearch/pkg/version"
)

// Persistent flags
var (
	debugMode   bool
	configDir   string
	profileOpts profiling.Options

	loggingCleanup func()
	profile        *profiling.Session
)

// NewRootCmd creates the root command for the cclsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cclsearch",
		Short: "Translate CCL search queries into backend queries",
		Long: `cclsearch parses queries written in the Common Command Language
(index names, boolean, relational and proximity operators, quoted phrases)
and renders them as backend query filters.

Index abbreviations are resolved against a catalog: the built-in one,
a YAML file, or a SQLite database (see 'cclsearch config show').`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("cclsearch version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.cclsearch/logs/")
	cmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Project directory to load .cclsearch.yaml from (default: project root of the working directory)")
	cmd.PersistentFlags().StringVar(&profileOpts.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileOpts.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileOpts.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newTranslateCmd())
	cmd.AddCommand(newTokensCmd())
	cmd.AddCommand(newIndexesCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging starts debug file logging and profiling if requested.
func startProfilingAndLogging(cmd *cobra.Command, _ []string) error {
	if debugMode {
		cfg := logging.DebugConfig()
		cfg.Buffered = cmd.Name() == "batch"
		cleanup, err := logging.SetupDefault(cfg)
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.Debug("debug_logging_enabled",
			slog.String("log_file", cfg.FilePath),
			slog.String("command", cmd.CommandPath()),
			slog.String("version", version.Version))
	}

	if profileOpts.Enabled() {
		s, err := profiling.Start(profileOpts)
		if err != nil {
			return err
		}
		profile = s
	}
	return nil
}

// stopProfilingAndLogging stops profiling and flushes the debug log.
// Cobra skips it when RunE fails, so Execute calls it as well.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	var err error
	if profile != nil {
		err = profile.Stop()
		profile = nil
	}
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return err
}

// Execute runs the root command. Ctrl-C cancels in-flight translations.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	_ = stopProfilingAndLogging(root, nil)

	if err != nil && !errors.Is(err, errReported) {
		var qe *cclerrors.QueryError
		if errors.As(err, &qe) {
			fmt.Fprint(os.Stderr, cclerrors.FormatForCLI(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return err
}

// errReported marks failures a command has already printed.
var errReported = errors.New("failure already reported")
