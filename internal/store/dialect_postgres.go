package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresDialect implements Dialect for PostgreSQL via the pgx stdlib driver.
type PostgresDialect struct{}

func (d *PostgresDialect) Name() string       { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "pgx" }

// Rebind is a no-op: $N is Postgres-native.
func (d *PostgresDialect) Rebind(query string) string { return query }

func (d *PostgresDialect) NowExpr() string { return "NOW()" }

func (d *PostgresDialect) InsertID(ctx context.Context, q Querier, query string, args ...any) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id)
	if err != nil {
		return 0, d.MapError(err)
	}
	return id, nil
}

func (d *PostgresDialect) MapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	}
	return err
}

func (d *PostgresDialect) SystemTablesSQL() string {
	return postgresSystemTablesSQL
}

const postgresSystemTablesSQL = `
CREATE TABLE IF NOT EXISTS _field_groups (
    id         SERIAL PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS _fields (
    id           SERIAL PRIMARY KEY,
    group_id     INT REFERENCES _field_groups(id) ON DELETE SET NULL,
    name         TEXT NOT NULL,
    handle       TEXT NOT NULL UNIQUE,
    instructions TEXT NOT NULL DEFAULT '',
    translatable BOOLEAN NOT NULL DEFAULT false,
    required     BOOLEAN NOT NULL DEFAULT false,
    type         TEXT NOT NULL,
    settings     JSONB NOT NULL DEFAULT '{}',
    created_at   TIMESTAMPTZ DEFAULT NOW(),
    updated_at   TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS _sections (
    id                SERIAL PRIMARY KEY,
    name              TEXT NOT NULL,
    handle            TEXT NOT NULL UNIQUE,
    type              TEXT NOT NULL,
    enable_versioning BOOLEAN NOT NULL DEFAULT true,
    has_urls          BOOLEAN NOT NULL DEFAULT false,
    template          TEXT,
    max_levels        INT,
    created_at        TIMESTAMPTZ DEFAULT NOW(),
    updated_at        TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS _section_locales (
    section_id         INT NOT NULL REFERENCES _sections(id) ON DELETE CASCADE,
    locale             TEXT NOT NULL,
    enabled_by_default BOOLEAN NOT NULL DEFAULT true,
    url_format         TEXT,
    nested_url_format  TEXT,
    PRIMARY KEY (section_id, locale)
);

CREATE TABLE IF NOT EXISTS _entry_types (
    id              SERIAL PRIMARY KEY,
    section_id      INT NOT NULL REFERENCES _sections(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    handle          TEXT NOT NULL,
    has_title_field BOOLEAN NOT NULL DEFAULT true,
    title_label     TEXT,
    title_format    TEXT,
    field_layout    JSONB,
    created_at      TIMESTAMPTZ DEFAULT NOW(),
    updated_at      TIMESTAMPTZ DEFAULT NOW(),
    UNIQUE (section_id, handle)
);

CREATE TABLE IF NOT EXISTS _asset_sources (
    id           SERIAL PRIMARY KEY,
    name         TEXT NOT NULL,
    handle       TEXT NOT NULL UNIQUE,
    type         TEXT NOT NULL,
    settings     JSONB NOT NULL DEFAULT '{}',
    field_layout JSONB,
    created_at   TIMESTAMPTZ DEFAULT NOW(),
    updated_at   TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS _asset_transforms (
    id         SERIAL PRIMARY KEY,
    name       TEXT NOT NULL,
    handle     TEXT NOT NULL UNIQUE,
    width      INT,
    height     INT,
    mode       TEXT,
    position   TEXT,
    quality    INT,
    format     TEXT,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS _global_sets (
    id           SERIAL PRIMARY KEY,
    name         TEXT NOT NULL,
    handle       TEXT NOT NULL UNIQUE,
    field_layout JSONB,
    created_at   TIMESTAMPTZ DEFAULT NOW(),
    updated_at   TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS _category_groups (
    id     SERIAL PRIMARY KEY,
    name   TEXT NOT NULL,
    handle TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS _tag_groups (
    id     SERIAL PRIMARY KEY,
    name   TEXT NOT NULL,
    handle TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS _user_groups (
    id     SERIAL PRIMARY KEY,
    name   TEXT NOT NULL,
    handle TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS _locales (
    id         TEXT PRIMARY KEY,
    is_primary BOOLEAN NOT NULL DEFAULT false,
    sort_order INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS _users (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    roles         TEXT NOT NULL DEFAULT '[]',
    active        BOOLEAN DEFAULT true,
    created_at    TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS _refresh_tokens (
    id         UUID PRIMARY KEY,
    user_id    UUID NOT NULL REFERENCES _users(id) ON DELETE CASCADE,
    token      UUID NOT NULL UNIQUE,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_refresh_tokens_token ON _refresh_tokens(token);
`
