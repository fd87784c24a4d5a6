package ccl

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/cclsearch/internal/catalog"
	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

// DefaultMaxConcurrency bounds TranslateAll when no limit is configured.
const DefaultMaxConcurrency = 4

// Translator turns CCL text into backend queries.
// It builds a new Parser per call and is safe for concurrent use.
type Translator struct {
	lookup    catalog.Lookup
	tokenizer *Tokenizer
	settings
}

// NewTranslator creates a translator resolving index names through lookup.
func NewTranslator(lookup catalog.Lookup, opts ...Option) *Translator {
	s := newSettings(opts)
	return &Translator{
		lookup:    lookup,
		tokenizer: NewTokenizer(s.dialect),
		settings:  s,
	}
}

// Tokenize splits raw into tokens using the translator's dialect.
func (t *Translator) Tokenize(raw string) ([]Token, error) {
	return t.tokenizer.Tokenize(raw)
}

// ParseQuery tokenizes and parses raw.
func (t *Translator) ParseQuery(ctx context.Context, raw string) (Node, error) {
	tokens, err := t.tokenizer.Tokenize(raw)
	if err != nil {
		return nil, err
	}
	return t.newParser().Parse(ctx, tokens)
}

// newParser returns a single-use parser sharing the translator's settings.
func (t *Translator) newParser() *Parser {
	return &Parser{lookup: t.lookup, settings: t.settings}
}

// Translate returns the backend query for raw.
func (t *Translator) Translate(ctx context.Context, raw string) (string, error) {
	_, query, err := t.TranslateTree(ctx, raw)
	return query, err
}

// TranslateTree returns both the expression tree and the backend query for raw.
func (t *Translator) TranslateTree(ctx context.Context, raw string) (Node, string, error) {
	start := time.Now()

	node, err := t.ParseQuery(ctx, raw)
	if err != nil {
		t.logger.Debug("ccl_query_rejected",
			slog.String("ccl", raw),
			slog.String("code", cclerrors.GetCode(err)),
			slog.String("error", err.Error()))
		return nil, "", err
	}

	query := BuildQuery(node)
	t.logger.Debug("ccl_query_translated",
		slog.String("ccl", raw),
		slog.String("query", query),
		slog.Duration("duration", time.Since(start)))
	return node, query, nil
}

// Result is the outcome of one TranslateAll item.
type Result struct {
	CCL   string `json:"ccl"`
	Query string `json:"query,omitempty"`
	Err   error  `json:"-"`
}

// TranslateAll translates queries concurrently, at most the configured
// number at a time. Results are in input order and per-query failures are
// reported in the result. The returned error is non-nil only when ctx is
// cancelled or a fatal error (such as a missing default index) stops the batch.
func (t *Translator) TranslateAll(ctx context.Context, queries []string) ([]Result, error) {
	results := make([]Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.maxConcurrency)

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{CCL: q, Err: err}
				return err
			}

			query, err := t.Translate(gctx, q)
			results[i] = Result{CCL: q, Query: query, Err: err}
			if cclerrors.IsFatal(err) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
