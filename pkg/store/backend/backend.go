// Package backend opens the catalog database selected by a profile.
package backend

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/takeoff/pkg/models/store"
	"github.com/de-tools/takeoff/pkg/store/duckdb"
	"github.com/de-tools/takeoff/pkg/store/postgres"
)

const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "pgx"
)

func Open(ctx context.Context, settings store.Settings) (*sql.DB, error) {
	switch settings.Driver {
	case DriverDuckDB, "":
		path := settings.DSN
		if path == "" {
			path = ":memory:"
		}
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: path})
		if err != nil {
			return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		return db, nil
	case DriverPostgres, "postgres":
		return postgres.NewDB(ctx, postgres.Settings{DSN: settings.DSN})
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", settings.Driver)
	}
}
