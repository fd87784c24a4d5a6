package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

// SQLiteCatalog implements Catalog over an index_list table.
type SQLiteCatalog struct {
	db     *sql.DB
	ownsDB bool
}

// Verify interface implementation at compile time
var _ Catalog = (*SQLiteCatalog)(nil)

// InitCatalogSchema creates the index_list table if it doesn't exist.
func InitCatalogSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS index_list (
		abbreviation_key TEXT NOT NULL,
		locale TEXT NOT NULL DEFAULT '',
		abbreviation TEXT NOT NULL,
		code TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		table_name TEXT NOT NULL DEFAULT '',
		column_name TEXT NOT NULL,
		default_relation TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (locale, abbreviation_key)
	);
	CREATE INDEX IF NOT EXISTS idx_index_list_key ON index_list(abbreviation_key);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create index_list schema: %w", err)
	}
	return nil
}

// NewSQLiteCatalog creates a catalog over an existing connection.
// The connection is not closed by Close; the caller owns it.
func NewSQLiteCatalog(db *sql.DB) (*SQLiteCatalog, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if err := InitCatalogSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteCatalog{db: db}, nil
}

// OpenSQLite opens (or creates) a catalog database at path.
// The returned catalog owns the connection.
func OpenSQLite(path string) (*SQLiteCatalog, error) {
	if path == "" {
		return nil, cclerrors.ConfigError("sqlite catalog requires catalog.path", nil)
	}
	if _, err := os.Stat(path); err != nil && !os.IsNotExist(err) {
		return nil, cclerrors.IOError(fmt.Sprintf("cannot access catalog %s", path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, cclerrors.IOError("failed to open catalog database", err).WithDetail("path", path)
	}

	// Lookups are read-mostly; one connection avoids writer contention on Upsert.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, cclerrors.IOError("failed to set pragma", err).WithDetail("path", path)
		}
	}

	c, err := NewSQLiteCatalog(db)
	if err != nil {
		_ = db.Close()
		return nil, cclerrors.IOError("failed to initialize catalog schema", err).WithDetail("path", path)
	}
	c.ownsDB = true
	return c, nil
}

// Upsert inserts or replaces descriptors.
func (c *SQLiteCatalog) Upsert(ctx context.Context, entries []Descriptor) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO index_list (abbreviation_key, locale, abbreviation, code, category, table_name, column_name, default_relation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(locale, abbreviation_key) DO UPDATE SET
			abbreviation = excluded.abbreviation,
			code = excluded.code,
			category = excluded.category,
			table_name = excluded.table_name,
			column_name = excluded.column_name,
			default_relation = excluded.default_relation
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range entries {
		if d.Abbreviation == "" || d.Column == "" {
			return fmt.Errorf("index %q needs an abbreviation and a column", d.Code)
		}
		key, locale := descriptorKey(d)
		if _, err := stmt.ExecContext(ctx, key, locale, d.Abbreviation, d.Code, d.Category,
			d.Table, d.Column, d.DefaultRelation); err != nil {
			return fmt.Errorf("upsert index %s: %w", d.Abbreviation, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// FindByAbbreviation returns the descriptor for key, preferring an exact locale match.
func (c *SQLiteCatalog) FindByAbbreviation(ctx context.Context, key, locale string) (*Descriptor, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT code, abbreviation, locale, category, table_name, column_name, default_relation
		FROM index_list
		WHERE abbreviation_key = ? AND (locale = ? OR locale = '')
		ORDER BY locale DESC
		LIMIT 1
	`, key, locale)

	var d Descriptor
	err := row.Scan(&d.Code, &d.Abbreviation, &d.Locale, &d.Category, &d.Table, &d.Column, &d.DefaultRelation)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query index %q: %w", key, err)
	}
	return &d, nil
}

// List returns descriptors for locale (plus locale-independent ones), or all
// descriptors when locale is empty, sorted by abbreviation.
func (c *SQLiteCatalog) List(ctx context.Context, locale string) ([]Descriptor, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT code, abbreviation, locale, category, table_name, column_name, default_relation
		FROM index_list
		WHERE ? = '' OR locale = '' OR locale = ?
		ORDER BY abbreviation, locale
	`, locale, locale)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	defer rows.Close()

	var out []Descriptor
	for rows.Next() {
		var d Descriptor
		if err := rows.Scan(&d.Code, &d.Abbreviation, &d.Locale, &d.Category, &d.Table, &d.Column, &d.DefaultRelation); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Close releases the connection if the catalog opened it.
func (c *SQLiteCatalog) Close() error {
	if c.ownsDB {
		return c.db.Close()
	}
	return nil
}
