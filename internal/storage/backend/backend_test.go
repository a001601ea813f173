package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/storage/remote"
	"github.com/aanand-mishra/student-records/internal/storage/sqlite"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	st, err := Open(ctx, &config.Config{Storage: config.Storage{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "s.db"),
	}}, "")
	require.NoError(t, err)
	assert.IsType(t, &sqlite.SQLite{}, st)
	require.NoError(t, st.Close())

	st, err = Open(ctx, &config.Config{Storage: config.Storage{Driver: config.DriverMemory}}, "")
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, st)

	st, err = Open(ctx, &config.Config{
		Storage: config.Storage{Driver: config.DriverRemote},
		Remote:  config.Remote{BaseURL: "http://localhost:8082", Timeout: time.Second},
	}, "token")
	require.NoError(t, err)
	assert.IsType(t, &remote.Client{}, st)

	_, err = Open(ctx, &config.Config{Storage: config.Storage{Driver: "mongo"}}, "")
	assert.ErrorContains(t, err, "unknown storage driver")
}
