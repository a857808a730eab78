package store

// Settings selects and locates a catalog backend.
type Settings struct {
	Driver string // "duckdb" or "pgx"
	DSN    string
}
