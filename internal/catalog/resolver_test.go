package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

// countingCatalog records how often the backend is hit.
type countingCatalog struct {
	inner Catalog
	calls atomic.Int32
	err   error
}

func (c *countingCatalog) FindByAbbreviation(ctx context.Context, key, locale string) (*Descriptor, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.FindByAbbreviation(ctx, key, locale)
}

func (c *countingCatalog) List(ctx context.Context, locale string) ([]Descriptor, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.List(ctx, locale)
}

func newTestCatalog(t *testing.T, entries ...Descriptor) *countingCatalog {
	t.Helper()
	if len(entries) == 0 {
		entries = []Descriptor{
			{Code: "ANY_WORD", Abbreviation: "AW", Locale: "en", Column: "any_word"},
			{Code: "TITLE", Abbreviation: "TI", Locale: "en", Column: "title"},
			{Code: "TITOLO", Abbreviation: "TIT", Locale: "it", Column: "titolo"},
		}
	}
	mem, err := NewMemoryCatalog(entries)
	require.NoError(t, err)
	return &countingCatalog{inner: mem}
}

func TestResolver_ResolveAbbreviation(t *testing.T) {
	r := NewResolver(newTestCatalog(t))
	ctx := context.Background()

	d, err := r.ResolveAbbreviation(ctx, "ti", language.English)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "TITLE", d.Code)

	d, err = r.ResolveAbbreviation(ctx, "TIT", language.Italian)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "TITOLO", d.Code)
}

func TestResolver_UnknownIsNilNotError(t *testing.T) {
	r := NewResolver(newTestCatalog(t))

	d, err := r.ResolveAbbreviation(context.Background(), "hello", language.English)
	assert.NoError(t, err)
	assert.Nil(t, d)
}

func TestResolver_EmptyTextSkipsCatalog(t *testing.T) {
	cat := newTestCatalog(t)
	r := NewResolver(cat)

	d, err := r.ResolveAbbreviation(context.Background(), "  ", language.English)
	assert.NoError(t, err)
	assert.Nil(t, d)
	assert.Equal(t, int32(0), cat.calls.Load())
}

func TestResolver_CachesHitsAndMisses(t *testing.T) {
	// Given: a resolver over a counting catalog
	cat := newTestCatalog(t)
	r := NewResolver(cat)
	ctx := context.Background()

	// When: resolving the same hit and the same miss twice, in different cases
	_, _ = r.ResolveAbbreviation(ctx, "TI", language.English)
	_, _ = r.ResolveAbbreviation(ctx, "ti", language.English)
	_, _ = r.ResolveAbbreviation(ctx, "foo", language.English)
	_, _ = r.ResolveAbbreviation(ctx, "FOO", language.English)

	// Then: the catalog was hit once per distinct key
	assert.Equal(t, int32(2), cat.calls.Load())
}

func TestResolver_CacheIsPerLocale(t *testing.T) {
	cat := newTestCatalog(t)
	r := NewResolver(cat)
	ctx := context.Background()

	en, err := r.ResolveAbbreviation(ctx, "ti", language.English)
	require.NoError(t, err)
	it, err := r.ResolveAbbreviation(ctx, "ti", language.Italian)
	require.NoError(t, err)

	assert.NotNil(t, en)
	assert.Nil(t, it)
	assert.Equal(t, int32(2), cat.calls.Load())
}

func TestResolver_CatalogErrorIsLookupFailure(t *testing.T) {
	cat := newTestCatalog(t)
	cat.err = errors.New("database is locked")
	r := NewResolver(cat)

	d, err := r.ResolveAbbreviation(context.Background(), "ti", language.English)
	assert.Nil(t, d)
	require.Error(t, err)
	assert.ErrorIs(t, err, cclerrors.ErrLookup)
	assert.EqualError(t, errors.Unwrap(err), "database is locked")
	assert.Equal(t, "ti", err.(*cclerrors.QueryError).Details["abbreviation"])
}

func TestResolver_CatalogErrorNotCached(t *testing.T) {
	cat := newTestCatalog(t)
	cat.err = errors.New("transient")
	r := NewResolver(cat)
	ctx := context.Background()

	_, err := r.ResolveAbbreviation(ctx, "ti", language.English)
	require.Error(t, err)

	cat.err = nil
	d, err := r.ResolveAbbreviation(ctx, "ti", language.English)
	require.NoError(t, err)
	assert.NotNil(t, d)
}

func TestResolver_DefaultIndex(t *testing.T) {
	r := NewResolver(newTestCatalog(t))

	d, err := r.DefaultIndex(context.Background())
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "ANY_WORD", d.Code)
}

func TestResolver_DefaultIndexOptions(t *testing.T) {
	r := NewResolver(newTestCatalog(t),
		WithDefaultAbbreviation("TIT"),
		WithDefaultLocale(language.Italian))

	d, err := r.DefaultIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TITOLO", d.Code)
}

func TestResolver_DefaultIndexResolvedOnce(t *testing.T) {
	// Given: many goroutines asking for the default index
	cat := newTestCatalog(t)
	r := NewResolver(cat, WithCacheSize(1))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := r.DefaultIndex(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, d)
		}()
	}
	wg.Wait()

	// Then: the catalog saw a single lookup
	assert.Equal(t, int32(1), cat.calls.Load())
}

func TestResolver_MissingDefaultIsFatal(t *testing.T) {
	cat := newTestCatalog(t, Descriptor{Code: "TITLE", Abbreviation: "TI", Locale: "en", Column: "title"})
	r := NewResolver(cat)

	d, err := r.DefaultIndex(context.Background())
	assert.Nil(t, d)
	require.Error(t, err)
	assert.ErrorIs(t, err, cclerrors.ErrDefaultIndex)
	assert.True(t, cclerrors.IsFatal(err))

	assert.Error(t, r.Warm(context.Background()))
}

func TestResolver_DefaultIndexFailureNotCached(t *testing.T) {
	cat := newTestCatalog(t)
	cat.err = errors.New("offline")
	r := NewResolver(cat)
	ctx := context.Background()

	_, err := r.DefaultIndex(ctx)
	require.Error(t, err)

	cat.err = nil
	require.NoError(t, r.Warm(ctx))
	d, err := r.DefaultIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ANY_WORD", d.Code)
}

func TestResolver_MissingDefaultNotCached(t *testing.T) {
	// Given: a catalog without the fallback index
	cat := newTestCatalog(t, Descriptor{Code: "TITLE", Abbreviation: "TI", Locale: "en", Column: "title"})
	r := NewResolver(cat)
	ctx := context.Background()

	_, err := r.DefaultIndex(ctx)
	require.ErrorIs(t, err, cclerrors.ErrDefaultIndex)

	// When: the catalog is corrected
	fixed, err := NewMemoryCatalog([]Descriptor{
		{Code: "ANY_WORD", Abbreviation: "AW", Locale: "en", Column: "any_word"},
	})
	require.NoError(t, err)
	cat.inner = fixed

	// Then: the next call picks up the fallback index
	d, err := r.DefaultIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ANY_WORD", d.Code)
}

func TestResolver_CatalogQueryErrorBecomesLookupFailure(t *testing.T) {
	// Given: a backend that reports its own I/O error
	ioErr := cclerrors.IOError("catalog database unreadable", errors.New("disk full"))
	cat := newTestCatalog(t)
	cat.err = ioErr
	r := NewResolver(cat)

	// When: resolving an abbreviation
	_, err := r.ResolveAbbreviation(context.Background(), "ti", language.English)

	// Then: the caller sees a lookup failure and the backend error is untouched
	require.Error(t, err)
	assert.Equal(t, cclerrors.ErrCodeLookupFailed, cclerrors.GetCode(err))
	assert.Same(t, ioErr, errors.Unwrap(err))
	assert.Empty(t, ioErr.Details)
}

func TestResolver_Indexes(t *testing.T) {
	r := NewResolver(newTestCatalog(t))

	all, err := r.Indexes(context.Background(), language.Und)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	it, err := r.Indexes(context.Background(), language.Italian)
	require.NoError(t, err)
	require.Len(t, it, 1)
	assert.Equal(t, "TITOLO", it[0].Code)
}

func TestResolver_IndexesError(t *testing.T) {
	cat := newTestCatalog(t)
	cat.err = errors.New("boom")
	r := NewResolver(cat)

	_, err := r.Indexes(context.Background(), language.English)
	assert.ErrorIs(t, err, cclerrors.ErrLookup)
}
