package store

import (
	"context"
	"fmt"
	"strings"
)

// SQLiteDialect implements Dialect for SQLite via modernc.org/sqlite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string       { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite" }

// Rebind converts $N placeholders to SQLite's ?N style.
func (d *SQLiteDialect) Rebind(query string) string {
	return strings.ReplaceAll(query, "$", "?")
}

func (d *SQLiteDialect) NowExpr() string { return "datetime('now')" }

func (d *SQLiteDialect) InsertID(ctx context.Context, q Querier, query string, args ...any) (int64, error) {
	result, err := q.ExecContext(ctx, d.Rebind(query), args...)
	if err != nil {
		return 0, d.MapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (d *SQLiteDialect) MapError(err error) error {
	if err == nil {
		return nil
	}
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "constraint failed: UNIQUE") {
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	}
	return err
}

func (d *SQLiteDialect) SystemTablesSQL() string {
	return sqliteSystemTablesSQL
}

const sqliteSystemTablesSQL = `
CREATE TABLE IF NOT EXISTS _field_groups (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    created_at TEXT DEFAULT (datetime('now')),
    updated_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS _fields (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    group_id     INTEGER REFERENCES _field_groups(id) ON DELETE SET NULL,
    name         TEXT NOT NULL,
    handle       TEXT NOT NULL UNIQUE,
    instructions TEXT NOT NULL DEFAULT '',
    translatable INTEGER NOT NULL DEFAULT 0,
    required     INTEGER NOT NULL DEFAULT 0,
    type         TEXT NOT NULL,
    settings     TEXT NOT NULL DEFAULT '{}',
    created_at   TEXT DEFAULT (datetime('now')),
    updated_at   TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS _sections (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    name              TEXT NOT NULL,
    handle            TEXT NOT NULL UNIQUE,
    type              TEXT NOT NULL,
    enable_versioning INTEGER NOT NULL DEFAULT 1,
    has_urls          INTEGER NOT NULL DEFAULT 0,
    template          TEXT,
    max_levels        INTEGER,
    created_at        TEXT DEFAULT (datetime('now')),
    updated_at        TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS _section_locales (
    section_id         INTEGER NOT NULL REFERENCES _sections(id) ON DELETE CASCADE,
    locale             TEXT NOT NULL,
    enabled_by_default INTEGER NOT NULL DEFAULT 1,
    url_format         TEXT,
    nested_url_format  TEXT,
    PRIMARY KEY (section_id, locale)
);

CREATE TABLE IF NOT EXISTS _entry_types (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    section_id      INTEGER NOT NULL REFERENCES _sections(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    handle          TEXT NOT NULL,
    has_title_field INTEGER NOT NULL DEFAULT 1,
    title_label     TEXT,
    title_format    TEXT,
    field_layout    TEXT,
    created_at      TEXT DEFAULT (datetime('now')),
    updated_at      TEXT DEFAULT (datetime('now')),
    UNIQUE (section_id, handle)
);

CREATE TABLE IF NOT EXISTS _asset_sources (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    name         TEXT NOT NULL,
    handle       TEXT NOT NULL UNIQUE,
    type         TEXT NOT NULL,
    settings     TEXT NOT NULL DEFAULT '{}',
    field_layout TEXT,
    created_at   TEXT DEFAULT (datetime('now')),
    updated_at   TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS _asset_transforms (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    handle     TEXT NOT NULL UNIQUE,
    width      INTEGER,
    height     INTEGER,
    mode       TEXT,
    position   TEXT,
    quality    INTEGER,
    format     TEXT,
    created_at TEXT DEFAULT (datetime('now')),
    updated_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS _global_sets (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    name         TEXT NOT NULL,
    handle       TEXT NOT NULL UNIQUE,
    field_layout TEXT,
    created_at   TEXT DEFAULT (datetime('now')),
    updated_at   TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS _category_groups (
    id     INTEGER PRIMARY KEY AUTOINCREMENT,
    name   TEXT NOT NULL,
    handle TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS _tag_groups (
    id     INTEGER PRIMARY KEY AUTOINCREMENT,
    name   TEXT NOT NULL,
    handle TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS _user_groups (
    id     INTEGER PRIMARY KEY AUTOINCREMENT,
    name   TEXT NOT NULL,
    handle TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS _locales (
    id         TEXT PRIMARY KEY,
    is_primary INTEGER NOT NULL DEFAULT 0,
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS _users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    roles         TEXT NOT NULL DEFAULT '[]',
    active        INTEGER DEFAULT 1,
    created_at    TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS _refresh_tokens (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES _users(id) ON DELETE CASCADE,
    token      TEXT NOT NULL UNIQUE,
    expires_at TEXT NOT NULL,
    created_at TEXT DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_refresh_tokens_token ON _refresh_tokens(token);
`
