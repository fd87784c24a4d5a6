package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/cclsearch/internal/ccl"
	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
	"github.com/Aman-CERP/cclsearch/internal/output"
)

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
)

// translateOptions holds CLI flags for translate.
type translateOptions struct {
	format string
	tree   bool
	locale string
}

func newTranslateCmd() *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate <query...>",
		Short: "Translate a CCL query into a backend query",
		Long: `Translate a CCL query into a backend query.

Arguments are joined with spaces, so quoting the whole query is optional.
A leading word of up to three letters is looked up as an index
abbreviation; queries without one search the default index.

Examples:
  cclsearch translate ti hello world
  cclsearch translate 'ti="big cats" and (au smith or au jones)'
  cclsearch translate --tree 'cats near dogs'
  cclsearch translate --locale it 'tit gatti'
  cclsearch translate --format json 'py>=2001'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context(), cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "Output format: text, json")
	cmd.Flags().BoolVar(&opts.tree, "tree", false, "Print the expression tree before the query")
	cmd.Flags().StringVarP(&opts.locale, "locale", "l", "", "Locale for index abbreviations (default: query.locale)")

	return cmd
}

func runTranslate(ctx context.Context, cmd *cobra.Command, raw string, opts translateOptions) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	locale, err := a.locale(opts.locale)
	if err != nil {
		return err
	}
	if err := a.openResolver(ctx, true); err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	t := a.translator(locale)
	out := output.New(cmd.OutOrStdout())

	var (
		node  ccl.Node
		query string
	)
	if opts.tree {
		node, query, err = t.TranslateTree(ctx, raw)
	} else {
		query, err = t.Translate(ctx, raw)
	}

	if opts.format == formatJSON {
		if encErr := writeJSONResult(cmd.OutOrStdout(), ccl.Result{CCL: raw, Query: query, Err: err}); encErr != nil {
			return encErr
		}
		if err != nil {
			return fmt.Errorf("%w: %w", errReported, err)
		}
		return nil
	}

	if err != nil {
		return err
	}
	if node != nil {
		out.Tree(node)
		out.Newline()
	}
	out.Line(query)
	return nil
}

// jsonResult is the JSON form of one translation.
type jsonResult struct {
	CCL   string          `json:"ccl"`
	Query string          `json:"query,omitempty"`
	Error json.RawMessage `json:"error,omitempty"`
}

// writeJSONResult writes r as one JSON line. Errors use the coded error format.
func writeJSONResult(w io.Writer, r ccl.Result) error {
	jr := jsonResult{CCL: r.CCL, Query: r.Query}
	if r.Err != nil {
		data, err := cclerrors.FormatJSON(r.Err)
		if err != nil {
			return err
		}
		jr.Error = data
	}
	return json.NewEncoder(w).Encode(jr)
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format %q (use: text, json)", format)
	}
}
