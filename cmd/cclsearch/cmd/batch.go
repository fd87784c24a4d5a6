package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/cclsearch/internal/ccl"
	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
	"github.com/Aman-CERP/cclsearch/internal/output"
)

// batchOptions holds CLI flags for batch.
type batchOptions struct {
	format      string
	locale      string
	concurrency int
}

func newBatchCmd() *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch <file|->",
		Short: "Translate one CCL query per line",
		Long: `Translate a file of CCL queries, one per line, concurrently.

Blank lines and lines starting with '#' are skipped. Results are printed
in input order. Failed queries are reported in place and make the command
exit with a non-zero status; a missing default index stops the batch.

Use '-' to read queries from standard input.`,
		Example: `  cclsearch batch queries.txt
  grep -v draft queries.txt | cclsearch batch --format json -
  cclsearch batch --concurrency 16 --profile-cpu cpu.prof queries.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "Output format: text, json")
	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "", "Locale for index abbreviations (default: query.locale)")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "Parallel translations (default: query.max_concurrency)")

	return cmd
}

func runBatch(ctx context.Context, cmd *cobra.Command, source string, opts batchOptions) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}

	queries, err := readQueries(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	if opts.concurrency > 0 {
		a.cfg.Query.MaxConcurrency = opts.concurrency
	}
	locale, err := a.locale(opts.locale)
	if err != nil {
		return err
	}
	if err := a.openResolver(ctx, true); err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	start := time.Now()
	results, batchErr := a.translator(locale).TranslateAll(ctx, queries)

	failed := 0
	out := output.New(cmd.OutOrStdout())
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		if opts.format == formatJSON {
			if err := writeJSONResult(cmd.OutOrStdout(), r); err != nil {
				return err
			}
			continue
		}
		printBatchResult(out, r)
	}

	a.logger.Info("ccl_batch_completed",
		slog.Int("queries", len(queries)),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)))

	if batchErr != nil {
		return batchErr
	}
	if failed > 0 {
		output.New(cmd.ErrOrStderr()).Warningf("%d of %d queries failed", failed, len(queries))
		return fmt.Errorf("%d of %d queries failed: %w", failed, len(queries), errReported)
	}
	return nil
}

// printBatchResult prints the query, or the CCL text and error for a failure.
func printBatchResult(out *output.Writer, r ccl.Result) {
	if r.Err != nil {
		out.Errorf("%s: %v", r.CCL, r.Err)
		return
	}
	out.Line(r.Query)
}

// maxQueryLine bounds a single line of batch input.
const maxQueryLine = 16 * 1024 * 1024

// readQueries reads one query per line from path, or stdin for "-".
func readQueries(stdin io.Reader, path string) ([]string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, cclerrors.IOError(fmt.Sprintf("cannot open query file %s", path), err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var queries []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxQueryLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, cclerrors.IOError(fmt.Sprintf("failed to read queries after line %d", lineNo), err)
	}
	return queries, nil
}
