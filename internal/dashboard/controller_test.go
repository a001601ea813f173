package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/types"
)

// countingStore records how often each write reaches the store.
type countingStore struct {
	storage.Store
	inserts, updates, deletes int
}

func (c *countingStore) InsertStudent(ctx context.Context, d types.Draft, owner string) (types.Student, error) {
	c.inserts++
	return c.Store.InsertStudent(ctx, d, owner)
}

func (c *countingStore) UpdateStudent(ctx context.Context, id string, d types.Draft) error {
	c.updates++
	return c.Store.UpdateStudent(ctx, id, d)
}

func (c *countingStore) DeleteStudent(ctx context.Context, id string) error {
	c.deletes++
	return c.Store.DeleteStudent(ctx, id)
}

// failingStore rejects every call.
type failingStore struct{ err error }

func (f failingStore) ListStudents(context.Context) ([]types.Student, error) { return nil, f.err }
func (f failingStore) InsertStudent(context.Context, types.Draft, string) (types.Student, error) {
	return types.Student{}, f.err
}
func (f failingStore) UpdateStudent(context.Context, string, types.Draft) error { return f.err }
func (f failingStore) DeleteStudent(context.Context, string) error              { return f.err }

func seeded(t *testing.T) (*memory.Store, types.Student, types.Student) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st := memory.New(memory.WithClock(func() time.Time { return base.Add(time.Hour) }))

	a := student("a", "Ana", "100")
	a.CreatedAt = base.Add(2 * time.Minute)
	b := student("b", "Beto", "200")
	b.CreatedAt = base.Add(time.Minute)
	st.Seed(a, b)
	return st, a, b
}

func names(records []types.Student) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.FullName
	}
	return out
}

func fill(ctx context.Context, c *Controller, d types.Draft) {
	for _, f := range Fields {
		c.Dispatch(ctx, FieldChanged{Field: f, Value: f.Get(d)})
	}
}

func TestController_Scenario(t *testing.T) {
	st, _, b := seeded(t)
	ctx := context.Background()
	c := New(st, "owner-1", nil)

	s := c.Dispatch(ctx, Mounted{})
	assert.False(t, s.Loading)
	assert.Equal(t, []string{"Ana", "Beto"}, names(s.Records))

	s = c.Dispatch(ctx, SearchChanged{Term: "an"})
	assert.Equal(t, []string{"Ana"}, names(s.Filtered))

	c.Dispatch(ctx, SearchChanged{Term: ""})
	c.Dispatch(ctx, NewRequested{})
	fill(ctx, c, filledDraft("Carla"))
	s = c.Dispatch(ctx, Submitted{})
	assert.False(t, s.Form.Open)
	assert.Equal(t, []string{"Carla", "Ana", "Beto"}, names(s.Records))
	assert.Equal(t, "owner-1", s.Records[0].OwnerID)

	c.Dispatch(ctx, DeleteRequested{ID: b.ID})
	s = c.Dispatch(ctx, DeleteConfirmed{})
	assert.False(t, s.Confirm.Open)
	assert.Equal(t, []string{"Carla", "Ana"}, names(s.Records))
	assert.Equal(t, "Student deleted", s.Notice.Title)
}

func TestController_InsertAppearsOnce(t *testing.T) {
	st, _, _ := seeded(t)
	ctx := context.Background()
	c := New(st, "owner-1", nil)
	c.Dispatch(ctx, Mounted{})

	c.Dispatch(ctx, NewRequested{})
	fill(ctx, c, filledDraft("Carla"))
	s := c.Dispatch(ctx, Submitted{})

	count := 0
	for _, r := range s.Records {
		if r.FullName == "Carla" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestController_UpdateChangesOnlyTarget(t *testing.T) {
	st, a, b := seeded(t)
	ctx := context.Background()
	c := New(st, "owner-1", nil)
	before := c.Dispatch(ctx, Mounted{}).Records

	c.Dispatch(ctx, EditRequested{Student: a})
	c.Dispatch(ctx, FieldChanged{Field: FieldEmail, Value: "ana.new@example.com"})
	after := c.Dispatch(ctx, Submitted{}).Records

	require.Len(t, after, len(before))
	for i := range after {
		switch after[i].ID {
		case a.ID:
			assert.Equal(t, "ana.new@example.com", after[i].Email)
			assert.Equal(t, a.FullName, after[i].FullName)
		case b.ID:
			assert.Equal(t, b, after[i])
		}
	}
}

func TestController_RequiredFieldsNeverReachStore(t *testing.T) {
	st, a, _ := seeded(t)
	cs := &countingStore{Store: st}
	ctx := context.Background()
	c := New(cs, "owner-1", nil)
	c.Dispatch(ctx, Mounted{})

	c.Dispatch(ctx, NewRequested{})
	c.Dispatch(ctx, FieldChanged{Field: FieldFullName, Value: "Carla"})
	s := c.Dispatch(ctx, Submitted{})
	assert.True(t, s.Form.Open)

	c.Dispatch(ctx, FormCancelled{})
	c.Dispatch(ctx, EditRequested{Student: a})
	c.Dispatch(ctx, FieldChanged{Field: FieldEnrollmentCode, Value: ""})
	c.Dispatch(ctx, Submitted{})

	assert.Zero(t, cs.inserts)
	assert.Zero(t, cs.updates)
}

func TestController_Failures(t *testing.T) {
	ctx := context.Background()
	c := New(failingStore{err: &storage.RemoteError{Message: "service unavailable"}}, "owner-1", nil)

	s := c.Dispatch(ctx, Mounted{})
	assert.False(t, s.Loading)
	assert.Empty(t, s.Records)
	assert.Equal(t, "service unavailable", s.Notice.Detail)

	c.Dispatch(ctx, NewRequested{})
	fill(ctx, c, filledDraft("Carla"))
	s = c.Dispatch(ctx, Submitted{})
	assert.True(t, s.Form.Open, "form stays open for a manual retry")
	assert.Equal(t, filledDraft("Carla"), s.Form.Draft)
	assert.Equal(t, "Could not save student", s.Notice.Title)

	c.Dispatch(ctx, FormCancelled{})
	c.Dispatch(ctx, DeleteRequested{ID: "x"})
	s = c.Dispatch(ctx, DeleteConfirmed{})
	assert.False(t, s.Confirm.Open)
	assert.Equal(t, "Could not delete student", s.Notice.Title)
}

func TestExecute_NilEffect(t *testing.T) {
	assert.Nil(t, Execute(context.Background(), failingStore{err: errors.New("x")}, nil))
}
