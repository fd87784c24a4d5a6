package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/cclsearch/internal/ccl"
	"github.com/Aman-CERP/cclsearch/internal/output"
)

func newTokensCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tokens <query...>",
		Short: "Print the token stream of a CCL query",
		Long: `Print the tokens the tokenizer produces for a query, one per line.

No catalog is consulted: leading words are shown as WORD even when the
parser would resolve them to an index.`,
		Example: `  cclsearch tokens 'ti="big cats" and py>=2001'
  cclsearch tokens --format json 'cats near dogs'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}

			tokens, err := ccl.NewTokenizer(a.dialect).Tokenize(strings.Join(args, " "))
			if err != nil {
				return err
			}

			if format == formatJSON {
				if tokens == nil {
					tokens = []ccl.Token{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tokens)
			}
			output.New(cmd.OutOrStdout()).Tokens(tokens)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json")

	return cmd
}
