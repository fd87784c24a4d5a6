package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/language"

	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

// Resolver defaults.
const (
	// DefaultAbbreviation names the index used when a query names none.
	DefaultAbbreviation = "AW"

	// DefaultCacheSize is the number of abbreviation lookups kept in memory.
	DefaultCacheSize = 256
)

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithDefaultAbbreviation sets the fallback index abbreviation.
func WithDefaultAbbreviation(abbr string) ResolverOption {
	return func(r *Resolver) {
		if abbr != "" {
			r.defaultAbbreviation = abbr
		}
	}
}

// WithDefaultLocale sets the locale the fallback abbreviation is resolved in.
func WithDefaultLocale(locale language.Tag) ResolverOption {
	return func(r *Resolver) {
		r.defaultLocale = locale
	}
}

// WithCacheSize sets the abbreviation cache size. Values <= 0 use DefaultCacheSize.
func WithCacheSize(size int) ResolverOption {
	return func(r *Resolver) {
		r.cacheSize = size
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver implements Lookup over a Catalog.
//
// Abbreviation results, including "not found", are kept in an LRU cache.
// The default index is resolved at most once successfully and then kept for
// the resolver's lifetime. A Resolver is safe for concurrent use.
type Resolver struct {
	catalog             Catalog
	cache               *lru.Cache[string, *Descriptor]
	cacheSize           int
	defaultAbbreviation string
	defaultLocale       language.Tag
	logger              *slog.Logger

	defaultMu    sync.Mutex
	defaultIndex *Descriptor
}

// Verify interface implementation at compile time
var _ Lookup = (*Resolver)(nil)

// NewResolver creates a Resolver over catalog.
func NewResolver(catalog Catalog, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		catalog:             catalog,
		defaultAbbreviation: DefaultAbbreviation,
		defaultLocale:       language.English,
		logger:              slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.cacheSize <= 0 {
		r.cacheSize = DefaultCacheSize
	}
	r.cache, _ = lru.New[string, *Descriptor](r.cacheSize)
	return r
}

// ResolveAbbreviation returns the index text names in locale, or nil when
// there is none. Catalog errors are returned as lookup failures.
func (r *Resolver) ResolveAbbreviation(ctx context.Context, text string, locale language.Tag) (*Descriptor, error) {
	key := FoldKey(text, locale)
	if key == "" {
		return nil, nil
	}
	loc := LocaleKey(locale)
	cacheKey := loc + "\x00" + key

	if d, ok := r.cache.Get(cacheKey); ok {
		return d, nil
	}

	d, err := r.catalog.FindByAbbreviation(ctx, key, loc)
	if err != nil {
		return nil, cclerrors.New(cclerrors.ErrCodeLookupFailed, fmt.Sprintf("failed to resolve index abbreviation %q", text), err).
			WithDetail("abbreviation", text).
			WithDetail("locale", locale.String())
	}

	r.cache.Add(cacheKey, d)
	if d != nil {
		r.logger.Debug("index_abbreviation_resolved",
			slog.String("abbreviation", text),
			slog.String("locale", locale.String()),
			slog.String("code", d.Code))
	}
	return d, nil
}

// DefaultIndex returns the fallback index, resolving it on first use.
// A missing fallback index is a fatal configuration error; it is not cached,
// so a corrected catalog is picked up on the next call.
func (r *Resolver) DefaultIndex(ctx context.Context) (*Descriptor, error) {
	r.defaultMu.Lock()
	defer r.defaultMu.Unlock()

	if r.defaultIndex != nil {
		return r.defaultIndex, nil
	}

	// The LRU is bypassed so a miss is not remembered.
	d, err := r.catalog.FindByAbbreviation(ctx,
		FoldKey(r.defaultAbbreviation, r.defaultLocale), LocaleKey(r.defaultLocale))
	if err != nil {
		return nil, cclerrors.New(cclerrors.ErrCodeLookupFailed,
			fmt.Sprintf("failed to resolve default index %s", r.defaultAbbreviation), err).
			WithDetail("abbreviation", r.defaultAbbreviation)
	}
	if d == nil {
		return nil, cclerrors.New(cclerrors.ErrCodeDefaultIndex,
			fmt.Sprintf("default index %s not found in catalog for locale %s", r.defaultAbbreviation, r.defaultLocale), nil).
			WithSuggestion("Add the index to the catalog or set query.default_index")
	}

	r.defaultIndex = d
	r.logger.Info("default_index_resolved",
		slog.String("abbreviation", r.defaultAbbreviation),
		slog.String("code", d.Code))
	return d, nil
}

// Warm resolves the default index eagerly. Call it at start-up so a
// misconfigured catalog stops the process before it serves queries.
func (r *Resolver) Warm(ctx context.Context) error {
	_, err := r.DefaultIndex(ctx)
	return err
}

// Indexes lists the catalog's descriptors for locale (all when locale is und).
func (r *Resolver) Indexes(ctx context.Context, locale language.Tag) ([]Descriptor, error) {
	out, err := r.catalog.List(ctx, LocaleKey(locale))
	if err != nil {
		return nil, cclerrors.New(cclerrors.ErrCodeLookupFailed, "failed to list indexes", err)
	}
	return out, nil
}
