package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/storagetest"
	"github.com/aanand-mishra/student-records/internal/types"
)

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return New() })
}

func TestStore_FrozenClockKeepsInsertOrder(t *testing.T) {
	frozen := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return frozen }))
	ctx := context.Background()

	first, err := s.InsertStudent(ctx, storagetest.Draft("Ana", "1"), "owner")
	require.NoError(t, err)
	second, err := s.InsertStudent(ctx, storagetest.Draft("Beto", "2"), "owner")
	require.NoError(t, err)

	got, err := s.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestStore_SeedAndGet(t *testing.T) {
	s := New()
	s.Seed(types.Student{ID: "a", FullName: "Ana", CreatedAt: time.Unix(10, 0)})

	got, err := s.GetStudent(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FullName)

	_, err = s.GetStudent(context.Background(), "b")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_CancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListStudents(ctx)
	var re *storage.RemoteError
	assert.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, context.Canceled)
}
