package cmd

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/text/language"

	"github.com/Aman-CERP/cclsearch/internal/catalog"
	"github.com/Aman-CERP/cclsearch/internal/ccl"
	"github.com/Aman-CERP/cclsearch/internal/config"
	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
	"github.com/Aman-CERP/cclsearch/internal/logging"
)

// app is the per-invocation wiring shared by the query commands.
type app struct {
	dir     string
	cfg     *config.Config
	dialect *ccl.Dialect
	logger  *slog.Logger

	resolver *catalog.Resolver
	close    func() error
}

// loadApp loads configuration for the project directory and builds the
// dialect. The catalog is opened separately by openResolver.
func loadApp() (*app, error) {
	dir, err := projectDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	if !debugMode {
		if _, err := logging.SetupDefault(logging.ConsoleConfig(cfg.Logging.Level)); err != nil {
			return nil, err
		}
	}

	d := cfg.Query.Dialect
	dialect, err := ccl.NewDialect(d.Booleans, d.Relations, d.Proximity)
	if err != nil {
		return nil, err
	}

	return &app{
		dir:     dir,
		cfg:     cfg,
		dialect: dialect,
		logger:  slog.Default(),
		close:   func() error { return nil },
	}, nil
}

// projectDir returns --config-dir, else the project root of the working directory.
func projectDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", cclerrors.IOError("failed to get current directory", err)
	}
	return config.FindProjectRoot(cwd)
}

// openCatalog opens the configured catalog backend.
func (a *app) openCatalog() (catalog.Catalog, error) {
	switch a.cfg.Catalog.Backend {
	case config.BackendYAML:
		return catalog.LoadCatalogFile(a.cfg.CatalogPath(a.dir))
	case config.BackendSQLite:
		c, err := catalog.OpenSQLite(a.cfg.CatalogPath(a.dir))
		if err != nil {
			return nil, err
		}
		a.close = c.Close
		return c, nil
	default:
		return catalog.LoadEmbeddedCatalog()
	}
}

// openResolver opens the catalog and wraps it in a caching resolver.
// When warm is set the default index is resolved up front, so a catalog
// without it fails before any query is read.
func (a *app) openResolver(ctx context.Context, warm bool) error {
	cat, err := a.openCatalog()
	if err != nil {
		return err
	}

	a.resolver = catalog.NewResolver(cat,
		catalog.WithDefaultAbbreviation(a.cfg.Query.DefaultIndex),
		catalog.WithCacheSize(a.cfg.Catalog.CacheSize),
		catalog.WithLogger(a.logger))

	if warm {
		return a.resolver.Warm(ctx)
	}
	return nil
}

// locale returns override parsed as a tag, else the configured locale.
func (a *app) locale(override string) (language.Tag, error) {
	s := a.cfg.Query.Locale
	if override != "" {
		s = override
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, cclerrors.ConfigError("invalid locale "+s, err).
			WithSuggestion("Use a BCP 47 tag such as en, it or pt-BR")
	}
	return tag, nil
}

// translator builds a translator over the open resolver.
func (a *app) translator(locale language.Tag) *ccl.Translator {
	return ccl.NewTranslator(a.resolver,
		ccl.WithDialect(a.dialect),
		ccl.WithLocale(locale),
		ccl.WithLogger(a.logger),
		ccl.WithMaxConcurrency(a.cfg.Query.MaxConcurrency))
}
