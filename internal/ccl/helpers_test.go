package ccl

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"

	"github.com/Aman-CERP/cclsearch/internal/catalog"
	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

var (
	anyWord   = &catalog.Descriptor{Code: "ANY_WORD", Abbreviation: "AW", Locale: "en", Column: "any_word"}
	title     = &catalog.Descriptor{Code: "TITLE", Abbreviation: "TI", Locale: "en", Column: "title"}
	author    = &catalog.Descriptor{Code: "AUTHOR", Abbreviation: "AU", Locale: "en", Column: "author"}
	pubYear   = &catalog.Descriptor{Code: "PUBLICATION_YEAR", Abbreviation: "PY", Locale: "en", Column: "publication_year"}
	titolo    = &catalog.Descriptor{Code: "TITOLO", Abbreviation: "TIT", Locale: "it", Table: "bib", Column: "titolo"}
	subjectLk = &catalog.Descriptor{Code: "SUBJECT", Abbreviation: "SU", Locale: "en", Column: "subject", DefaultRelation: "like"}
)

// stubLookup is an in-memory catalog.Lookup that records what it was asked.
type stubLookup struct {
	indexes map[string]*catalog.Descriptor // locale base + ":" + folded text
	def     *catalog.Descriptor
	err     error
	defErr  error
	delay   time.Duration

	mu       sync.Mutex
	resolved []string

	inflight    atomic.Int32
	maxInflight atomic.Int32
}

func newStubLookup() *stubLookup {
	s := &stubLookup{
		indexes: make(map[string]*catalog.Descriptor),
		def:     anyWord,
	}
	for _, d := range []*catalog.Descriptor{anyWord, title, author, pubYear, titolo, subjectLk} {
		s.add(d)
	}
	return s
}

func (s *stubLookup) add(d *catalog.Descriptor) {
	tag := catalog.ParseLocale(d.Locale)
	s.indexes[catalog.LocaleKey(tag)+":"+catalog.FoldKey(d.Abbreviation, tag)] = d
}

func (s *stubLookup) enter() func() {
	n := s.inflight.Add(1)
	for {
		cur := s.maxInflight.Load()
		if n <= cur || s.maxInflight.CompareAndSwap(cur, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return func() { s.inflight.Add(-1) }
}

func (s *stubLookup) ResolveAbbreviation(_ context.Context, text string, locale language.Tag) (*catalog.Descriptor, error) {
	defer s.enter()()

	s.mu.Lock()
	s.resolved = append(s.resolved, text)
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	return s.indexes[catalog.LocaleKey(locale)+":"+catalog.FoldKey(text, locale)], nil
}

func (s *stubLookup) DefaultIndex(_ context.Context) (*catalog.Descriptor, error) {
	defer s.enter()()

	if s.defErr != nil {
		return nil, s.defErr
	}
	if s.def == nil {
		return nil, cclerrors.New(cclerrors.ErrCodeDefaultIndex, "default index AW not found", nil)
	}
	return s.def, nil
}

func (s *stubLookup) resolvedTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.resolved...)
}
