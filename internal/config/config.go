package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

// Catalog backends.
const (
	BackendEmbedded = "embedded"
	BackendYAML     = "yaml"
	BackendSQLite   = "sqlite"
)

// ProjectConfigFile is the per-project configuration file name.
const ProjectConfigFile = ".cclsearch.yaml"

// Config represents the complete cclsearch configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
	Query   QueryConfig   `yaml:"query" json:"query"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CatalogConfig selects where index descriptors come from.
type CatalogConfig struct {
	// Backend is "embedded" (built-in catalog), "yaml" or "sqlite".
	Backend string `yaml:"backend" json:"backend"`

	// Path is the catalog file for the yaml and sqlite backends.
	// Relative paths are resolved against the project directory.
	Path string `yaml:"path" json:"path"`

	// CacheSize is the number of abbreviation lookups kept in memory.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// QueryConfig configures translation.
type QueryConfig struct {
	// DefaultIndex is the abbreviation used when a query names no index.
	DefaultIndex string `yaml:"default_index" json:"default_index"`

	// Locale is the language index abbreviations are resolved in.
	Locale string `yaml:"locale" json:"locale"`

	// MaxConcurrency bounds parallel translations in batch mode.
	MaxConcurrency int `yaml:"max_concurrency" json:"max_concurrency"`

	// Dialect overrides the operator keyword tables.
	Dialect DialectConfig `yaml:"dialect,omitempty" json:"dialect,omitempty"`
}

// DialectConfig overrides operator keywords. Empty tables keep the built-ins.
type DialectConfig struct {
	Booleans  map[string]string `yaml:"booleans,omitempty" json:"booleans,omitempty"`
	Relations []string          `yaml:"relations,omitempty" json:"relations,omitempty"`
	Proximity map[string]string `yaml:"proximity,omitempty" json:"proximity,omitempty"`
}

// IsZero reports whether no override is set. yaml.v3 uses it for omitempty.
func (d DialectConfig) IsZero() bool {
	return len(d.Booleans) == 0 && len(d.Relations) == 0 && len(d.Proximity) == 0
}

// LoggingConfig configures the stderr log level. --debug ignores it and
// logs everything to the log file.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Catalog: CatalogConfig{
			Backend:   BackendEmbedded,
			CacheSize: 256,
		},
		Query: QueryConfig{
			DefaultIndex:   "AW",
			Locale:         "en",
			MaxConcurrency: 8,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// GetUserConfigPath returns the path to the user/global configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/cclsearch/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/cclsearch/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cclsearch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "cclsearch", "config.yaml")
	}
	return filepath.Join(home, ".config", "cclsearch", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// LoadUserConfig loads the user configuration file.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	var parsed Config
	if err := readYAML(configPath, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Load loads configuration for the project in dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User/global config (~/.config/cclsearch/config.yaml)
//  3. Project config (.cclsearch.yaml in dir)
//  4. Environment variables (CCLSEARCH_*)
func Load(dir string) (*Config, error) {
	if dir != "" && !dirExists(dir) {
		return nil, cclerrors.New(cclerrors.ErrCodeConfigNotFound,
			fmt.Sprintf("config directory %s does not exist", dir), nil)
	}

	cfg := NewConfig()

	userCfg, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}
	if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile merges .cclsearch.yaml (or .cclsearch.yml) from dir if present.
func (c *Config) loadFromFile(dir string) error {
	for _, name := range []string{ProjectConfigFile, ".cclsearch.yml"} {
		path := filepath.Join(dir, name)
		if !fileExists(path) {
			continue
		}
		var parsed Config
		if err := readYAML(path, &parsed); err != nil {
			return err
		}
		c.mergeWith(&parsed)
		return nil
	}
	return nil
}

// readYAML decodes path into out, rejecting unknown keys.
func readYAML(path string, out *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return cclerrors.New(cclerrors.ErrCodeConfigNotFound,
			fmt.Sprintf("failed to read config file %s", path), err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return cclerrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("path", path)
	}
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Catalog.Backend != "" {
		c.Catalog.Backend = other.Catalog.Backend
	}
	if other.Catalog.Path != "" {
		c.Catalog.Path = other.Catalog.Path
	}
	if other.Catalog.CacheSize != 0 {
		c.Catalog.CacheSize = other.Catalog.CacheSize
	}

	if other.Query.DefaultIndex != "" {
		c.Query.DefaultIndex = other.Query.DefaultIndex
	}
	if other.Query.Locale != "" {
		c.Query.Locale = other.Query.Locale
	}
	if other.Query.MaxConcurrency != 0 {
		c.Query.MaxConcurrency = other.Query.MaxConcurrency
	}
	// Dialect tables replace rather than merge so a project can drop a keyword.
	if len(other.Query.Dialect.Booleans) > 0 {
		c.Query.Dialect.Booleans = other.Query.Dialect.Booleans
	}
	if len(other.Query.Dialect.Relations) > 0 {
		c.Query.Dialect.Relations = other.Query.Dialect.Relations
	}
	if len(other.Query.Dialect.Proximity) > 0 {
		c.Query.Dialect.Proximity = other.Query.Dialect.Proximity
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
}

// applyEnvOverrides applies CCLSEARCH_* environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("CCLSEARCH_CATALOG_BACKEND"); v != "" {
		c.Catalog.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("CCLSEARCH_CATALOG_PATH"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("CCLSEARCH_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return cclerrors.ConfigError(fmt.Sprintf("CCLSEARCH_CACHE_SIZE must be an integer, got %q", v), err)
		}
		c.Catalog.CacheSize = n
	}
	if v := os.Getenv("CCLSEARCH_DEFAULT_INDEX"); v != "" {
		c.Query.DefaultIndex = v
	}
	if v := os.Getenv("CCLSEARCH_LOCALE"); v != "" {
		c.Query.Locale = v
	}
	if v := os.Getenv("CCLSEARCH_MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return cclerrors.ConfigError(fmt.Sprintf("CCLSEARCH_MAX_CONCURRENCY must be an integer, got %q", v), err)
		}
		c.Query.MaxConcurrency = n
	}
	if v := os.Getenv("CCLSEARCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	switch c.Catalog.Backend {
	case BackendEmbedded:
	case BackendYAML, BackendSQLite:
		if c.Catalog.Path == "" {
			return cclerrors.ConfigError(
				fmt.Sprintf("catalog.path is required for the %s backend", c.Catalog.Backend), nil).
				WithSuggestion("Set catalog.path or CCLSEARCH_CATALOG_PATH")
		}
	default:
		return cclerrors.ConfigError(
			fmt.Sprintf("catalog.backend must be 'embedded', 'yaml' or 'sqlite', got %q", c.Catalog.Backend), nil)
	}

	if c.Catalog.CacheSize < 0 {
		return cclerrors.ConfigError(fmt.Sprintf("catalog.cache_size must be non-negative, got %d", c.Catalog.CacheSize), nil)
	}

	if strings.TrimSpace(c.Query.DefaultIndex) == "" {
		return cclerrors.ConfigError("query.default_index must not be empty", nil)
	}
	if _, err := language.Parse(c.Query.Locale); err != nil {
		return cclerrors.ConfigError(fmt.Sprintf("query.locale %q is not a valid language tag", c.Query.Locale), err)
	}
	if c.Query.MaxConcurrency < 1 {
		return cclerrors.ConfigError(fmt.Sprintf("query.max_concurrency must be at least 1, got %d", c.Query.MaxConcurrency), nil)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return cclerrors.ConfigError(
			fmt.Sprintf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level), nil)
	}

	return nil
}

// CatalogPath returns the catalog path, resolved against dir when relative.
func (c *Config) CatalogPath(dir string) string {
	p := c.Catalog.Path
	if p == "" || filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, cclerrors.InternalError("failed to marshal config", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file, creating parent directories.
func (c *Config) WriteYAML(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return cclerrors.ConfigError("failed to create config directory", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return cclerrors.ConfigError("failed to write config file", err).WithDetail("path", path)
	}
	return nil
}

// FindProjectRoot walks up from startDir looking for .cclsearch.yaml or a
// .git directory. It returns startDir (absolute) when neither is found.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if fileExists(filepath.Join(currentDir, ProjectConfigFile)) ||
			fileExists(filepath.Join(currentDir, ".cclsearch.yml")) {
			return currentDir, nil
		}
		if dirExists(filepath.Join(currentDir, ".git")) {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
