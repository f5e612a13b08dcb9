package store

import "context"

// Dialect abstracts database-specific SQL generation and behavior.
type Dialect interface {
	// Name returns "postgres" or "sqlite".
	Name() string

	// DriverName returns the database/sql driver name ("pgx" or "sqlite").
	DriverName() string

	// Rebind converts $N placeholders to the dialect's native style.
	Rebind(query string) string

	// NowExpr returns the SQL expression for the current timestamp.
	NowExpr() string

	// SystemTablesSQL returns the DDL for the schema system tables.
	SystemTablesSQL() string

	// InsertID executes an INSERT and returns the generated integer ID.
	// The query must not contain a RETURNING clause.
	InsertID(ctx context.Context, q Querier, query string, args ...any) (int64, error)

	// MapError maps a driver error to a well-known sentinel error.
	MapError(err error) error
}

// NewDialect returns the dialect for a driver name.
func NewDialect(driver string) Dialect {
	if driver == "sqlite" {
		return &SQLiteDialect{}
	}
	return &PostgresDialect{}
}
