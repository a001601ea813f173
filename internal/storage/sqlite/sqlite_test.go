package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/storagetest"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "students.db")

	s, err := New(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestSQLite_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return setupTestStore(t) })
}

func TestSQLite_GetStudent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.InsertStudent(ctx, storagetest.Draft("Ana", "001"), "owner-1")
	require.NoError(t, err)

	got, err := s.GetStudent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	_, err = s.GetStudent(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSQLite_SameTimestampKeepsInsertOrder(t *testing.T) {
	s := setupTestStore(t)
	frozen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }
	ctx := context.Background()

	for _, name := range []string{"Ana", "Beto"} {
		_, err := s.InsertStudent(ctx, storagetest.Draft(name, name), "owner-1")
		require.NoError(t, err)
	}

	got, err := s.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Beto", got[0].FullName)
	assert.Equal(t, "Ana", got[1].FullName)
}

func TestSQLite_ReopenKeepsRows(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "students.db")

	s, err := New(dbPath)
	require.NoError(t, err)
	_, err = s.InsertStudent(context.Background(), storagetest.Draft("Ana", "001"), "owner-1")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = New(dbPath)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.ListStudents(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
