package database

import (
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// NewBunDB wraps an already-opened Postgres connection pool with the Bun
// query builder. Unknown result columns are discarded rather than treated
// as scan errors, so additive migrations cannot break older readers.
func NewBunDB(sqlDB *sql.DB) *bun.DB {
	return bun.NewDB(sqlDB, pgdialect.New(), bun.WithDiscardUnknownColumns())
}
