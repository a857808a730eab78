package backend

import (
	"context"
	"testing"

	"github.com/de-tools/takeoff/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_DuckDBInMemory(t *testing.T) {
	db, err := Open(context.Background(), store.Settings{Driver: DriverDuckDB})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM compositions").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	db, err := Open(context.Background(), store.Settings{Driver: "oracle"})
	assert.Error(t, err)
	assert.Nil(t, db)
}
