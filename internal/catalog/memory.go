package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/cclsearch/configs"
	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

// catalogFile is the YAML layout of an index catalog.
type catalogFile struct {
	Indexes []Descriptor `yaml:"indexes"`
}

// MemoryCatalog is an in-memory Catalog, usually loaded from YAML.
// It is immutable after construction and safe for concurrent use.
type MemoryCatalog struct {
	entries []Descriptor
	byKey   map[string]map[string]int // locale -> folded abbreviation -> entries index
}

// Verify interface implementation at compile time
var _ Catalog = (*MemoryCatalog)(nil)

// NewMemoryCatalog builds a catalog from descriptors.
// Every descriptor needs an abbreviation and a column, and (locale, abbreviation)
// pairs must be unique after case folding.
func NewMemoryCatalog(entries []Descriptor) (*MemoryCatalog, error) {
	c := &MemoryCatalog{
		entries: make([]Descriptor, 0, len(entries)),
		byKey:   make(map[string]map[string]int),
	}

	for i, d := range entries {
		if strings.TrimSpace(d.Abbreviation) == "" {
			return nil, cclerrors.ConfigError(fmt.Sprintf("index catalog entry %d has no abbreviation", i), nil)
		}
		if strings.TrimSpace(d.Column) == "" {
			return nil, cclerrors.ConfigError(fmt.Sprintf("index %s has no column", d.Abbreviation), nil)
		}

		key, locale := descriptorKey(d)
		if c.byKey[locale] == nil {
			c.byKey[locale] = make(map[string]int)
		}
		if _, dup := c.byKey[locale][key]; dup {
			return nil, cclerrors.ConfigError(
				fmt.Sprintf("duplicate index abbreviation %s for locale %q", d.Abbreviation, d.Locale), nil)
		}

		c.byKey[locale][key] = len(c.entries)
		c.entries = append(c.entries, d)
	}

	return c, nil
}

// LoadCatalog decodes a YAML index catalog.
func LoadCatalog(r io.Reader) (*MemoryCatalog, error) {
	var parsed catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&parsed); err != nil && err != io.EOF {
		return nil, cclerrors.ConfigError("failed to parse index catalog", err)
	}
	return NewMemoryCatalog(parsed.Indexes)
}

// LoadCatalogFile reads a YAML index catalog from disk.
func LoadCatalogFile(path string) (*MemoryCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cclerrors.IOError(fmt.Sprintf("failed to open index catalog %s", path), err).
			WithDetail("path", path)
	}
	defer f.Close()

	return LoadCatalog(f)
}

// LoadEmbeddedCatalog returns the catalog compiled into the binary.
func LoadEmbeddedCatalog() (*MemoryCatalog, error) {
	return LoadCatalog(strings.NewReader(configs.DefaultIndexCatalog))
}

// FindByAbbreviation returns the descriptor for key, preferring an exact locale match.
func (c *MemoryCatalog) FindByAbbreviation(_ context.Context, key, locale string) (*Descriptor, error) {
	candidates := []string{locale}
	if locale != "" {
		candidates = append(candidates, "")
	}

	for _, loc := range candidates {
		if i, ok := c.byKey[loc][key]; ok {
			d := c.entries[i]
			return &d, nil
		}
	}
	return nil, nil
}

// List returns descriptors for locale (plus locale-independent ones), or all
// descriptors when locale is empty, sorted by abbreviation.
func (c *MemoryCatalog) List(_ context.Context, locale string) ([]Descriptor, error) {
	out := make([]Descriptor, 0, len(c.entries))
	for _, d := range c.entries {
		_, loc := descriptorKey(d)
		if locale == "" || loc == "" || loc == locale {
			out = append(out, d)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Abbreviation != out[j].Abbreviation {
			return out[i].Abbreviation < out[j].Abbreviation
		}
		return out[i].Locale < out[j].Locale
	})
	return out, nil
}
