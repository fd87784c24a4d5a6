package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/cclsearch/internal/logging"
	"github.com/Aman-CERP/cclsearch/internal/output"
)

// logsOptions holds CLI flags for logs.
type logsOptions struct {
	file    string
	lines   int
	level   string
	event   string
	pattern string
	noColor bool
}

func newLogsCmd() *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the debug log",
		Long: `Show the last entries of the debug log written by --debug runs
(~/.cclsearch/logs/cclsearch.log).`,
		Example: `  cclsearch logs
  cclsearch logs -n 100 --level warn
  cclsearch logs --event ccl_query_rejected
  cclsearch logs --grep 'ERR_40[12]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Log file to read (default: ~/.cclsearch/logs/cclsearch.log)")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of entries to show (0 for all)")
	cmd.Flags().StringVar(&opts.level, "level", "", "Minimum level: debug, info, warn, error")
	cmd.Flags().StringVar(&opts.event, "event", "", "Only show entries with this event name")
	cmd.Flags().StringVar(&opts.pattern, "grep", "", "Only show lines matching this regular expression")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runLogs(cmd *cobra.Command, opts logsOptions) error {
	path, err := logging.FindLogFile(opts.file)
	if err != nil {
		return err
	}

	cfg := logging.ViewerConfig{
		Level:   opts.level,
		Event:   opts.event,
		NoColor: opts.noColor || !output.New(cmd.OutOrStdout()).Color(),
	}
	if opts.pattern != "" {
		re, err := regexp.Compile(opts.pattern)
		if err != nil {
			return fmt.Errorf("invalid --grep pattern: %w", err)
		}
		cfg.Pattern = re
	}

	viewer := logging.NewViewer(cfg, cmd.OutOrStdout())
	entries, err := viewer.Tail(path, opts.lines)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		output.New(cmd.ErrOrStderr()).Warning("No matching log entries")
		return nil
	}
	viewer.Print(entries)
	return nil
}
