// Package storagetest holds the behaviour every storage.Store backend must
// share, so each backend's tests can run the same suite.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Draft returns a valid draft whose name is name.
func Draft(name, code string) types.Draft {
	return types.Draft{
		FullName:       name,
		EnrollmentCode: code,
		Email:          "student@example.com",
		BirthDate:      "2002-03-15",
	}
}

// Run executes the contract suite. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Run("EmptyListIsNotNil", func(t *testing.T) {
		s := newStore(t)
		got, err := s.ListStudents(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("InsertAssignsIDAndOwner", func(t *testing.T) {
		s := newStore(t)
		st, err := s.InsertStudent(context.Background(), Draft("Ana", "001"), "owner-1")
		require.NoError(t, err)
		assert.NotEmpty(t, st.ID)
		assert.Equal(t, "owner-1", st.OwnerID)
		assert.Equal(t, "Ana", st.FullName)
		assert.Equal(t, "2002-03-15", st.BirthDate)
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, name := range []string{"Ana", "Beto", "Carla"} {
			_, err := s.InsertStudent(ctx, Draft(name, name), "owner-1")
			require.NoError(t, err)
		}

		got, err := s.ListStudents(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"Carla", "Beto", "Ana"}, names(got))
	})

	t.Run("InsertAppearsExactlyOnce", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		_, err := s.InsertStudent(ctx, Draft("Ana", "001"), "owner-1")
		require.NoError(t, err)
		created, err := s.InsertStudent(ctx, Draft("Ana", "001"), "owner-1")
		require.NoError(t, err)

		got, err := s.ListStudents(ctx)
		require.NoError(t, err)
		count := 0
		for _, st := range got {
			if st.ID == created.ID {
				count++
			}
		}
		assert.Equal(t, 1, count)
		assert.Len(t, got, 2, "enrollment code uniqueness is not enforced")
	})

	t.Run("InsertRejectsEmptyFields", func(t *testing.T) {
		s := newStore(t)
		_, err := s.InsertStudent(context.Background(), types.Draft{FullName: "Ana"}, "owner-1")
		require.Error(t, err)
		assertRemote(t, err)
	})

	t.Run("InsertRejectsMissingOwner", func(t *testing.T) {
		s := newStore(t)
		_, err := s.InsertStudent(context.Background(), Draft("Ana", "001"), "")
		require.Error(t, err)
		assertRemote(t, err)
	})

	t.Run("UpdateChangesOnlyTarget", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a, err := s.InsertStudent(ctx, Draft("Ana", "001"), "owner-1")
		require.NoError(t, err)
		b, err := s.InsertStudent(ctx, Draft("Beto", "002"), "owner-1")
		require.NoError(t, err)

		before, err := s.ListStudents(ctx)
		require.NoError(t, err)

		edit := Draft("Ana Maria", "001-A")
		edit.Email = "ana.maria@example.com"
		require.NoError(t, s.UpdateStudent(ctx, a.ID, edit))

		after, err := s.ListStudents(ctx)
		require.NoError(t, err)
		require.Len(t, after, len(before))

		byID := index(after)
		assert.Equal(t, index(before)[b.ID], byID[b.ID])

		got := byID[a.ID]
		assert.Equal(t, "Ana Maria", got.FullName)
		assert.Equal(t, "001-A", got.EnrollmentCode)
		assert.Equal(t, "ana.maria@example.com", got.Email)
		assert.Equal(t, a.OwnerID, got.OwnerID)
		assert.Equal(t, a.ID, got.ID)
	})

	t.Run("UpdateUnknownID", func(t *testing.T) {
		s := newStore(t)
		err := s.UpdateStudent(context.Background(), "missing", Draft("Ana", "001"))
		require.Error(t, err)
		assertRemote(t, err)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DeleteRemovesTarget", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a, err := s.InsertStudent(ctx, Draft("Ana", "001"), "owner-1")
		require.NoError(t, err)
		b, err := s.InsertStudent(ctx, Draft("Beto", "002"), "owner-1")
		require.NoError(t, err)

		require.NoError(t, s.DeleteStudent(ctx, b.ID))

		got, err := s.ListStudents(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, a.ID, got[0].ID)
	})

	t.Run("DeleteUnknownID", func(t *testing.T) {
		s := newStore(t)
		err := s.DeleteStudent(context.Background(), "missing")
		require.Error(t, err)
		assertRemote(t, err)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func assertRemote(t *testing.T, err error) {
	t.Helper()
	var re *storage.RemoteError
	assert.ErrorAs(t, err, &re)
	assert.NotEmpty(t, storage.Message(err))
}

func names(students []types.Student) []string {
	out := make([]string, len(students))
	for i, st := range students {
		out[i] = st.FullName
	}
	return out
}

func index(students []types.Student) map[string]types.Student {
	out := make(map[string]types.Student, len(students))
	for _, st := range students {
		out[st.ID] = st
	}
	return out
}
