package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/Aman-CERP/cclsearch/internal/catalog"
	"github.com/Aman-CERP/cclsearch/internal/config"
	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
	"github.com/Aman-CERP/cclsearch/internal/output"
)

func newIndexesCmd() *cobra.Command {
	var (
		locale string
		format string
	)

	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "List the search indexes in the catalog",
		Long: `List the search indexes of the configured catalog.

Without --locale every entry is listed. With --locale, entries of that
language and locale-independent entries are listed.`,
		Example: `  cclsearch indexes
  cclsearch indexes --locale it
  cclsearch indexes --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			a, err := loadApp()
			if err != nil {
				return err
			}
			tag := language.Und
			if locale != "" {
				if tag, err = a.locale(locale); err != nil {
					return err
				}
			}
			if err := a.openResolver(cmd.Context(), false); err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			entries, err := a.resolver.Indexes(cmd.Context(), tag)
			if err != nil {
				return err
			}

			if format == formatJSON {
				if entries == nil {
					entries = []catalog.Descriptor{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			output.New(cmd.OutOrStdout()).Indexes(entries)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Only list indexes for this locale")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json")

	cmd.AddCommand(newIndexesImportCmd())

	return cmd
}

func newIndexesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [catalog.yaml]",
		Short: "Load index descriptors into the SQLite catalog",
		Long: `Load index descriptors from a YAML catalog file into the SQLite
catalog at catalog.path. Without a file the built-in catalog is imported.
Existing entries with the same abbreviation and locale are replaced.`,
		Example: `  CCLSEARCH_CATALOG_BACKEND=sqlite CCLSEARCH_CATALOG_PATH=indexes.db cclsearch indexes import
  cclsearch indexes import my-indexes.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if a.cfg.Catalog.Backend != config.BackendSQLite {
				return cclerrors.ConfigError(
					fmt.Sprintf("indexes import requires the sqlite backend, configured backend is %s", a.cfg.Catalog.Backend), nil).
					WithSuggestion("Set catalog.backend: sqlite and catalog.path in .cclsearch.yaml")
			}

			var src *catalog.MemoryCatalog
			if len(args) == 1 {
				src, err = catalog.LoadCatalogFile(args[0])
			} else {
				src, err = catalog.LoadEmbeddedCatalog()
			}
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			entries, err := src.List(ctx, "")
			if err != nil {
				return err
			}

			path := a.cfg.CatalogPath(a.dir)
			db, err := catalog.OpenSQLite(path)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := db.Upsert(ctx, entries); err != nil {
				return err
			}

			output.New(cmd.OutOrStdout()).Successf("Imported %d indexes into %s", len(entries), path)
			return nil
		},
	}
}
