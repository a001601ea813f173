// Package memory provides an in-process implementation of
// storage.Storage. It backs tests and the "memory" storage driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Store keeps students in a map guarded by a RWMutex.
type Store struct {
	mu       sync.RWMutex
	students map[string]types.Student
	now      func() time.Time
	seq      int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		students: make(map[string]types.Student),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed adds existing records verbatim, keeping their ids and timestamps.
func (s *Store) Seed(students ...types.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range students {
		s.students[st.ID] = st
	}
}

func (s *Store) ListStudents(ctx context.Context) ([]types.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Wrap("list students", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetStudent(ctx context.Context, id string) (types.Student, error) {
	if err := ctx.Err(); err != nil {
		return types.Student{}, storage.Wrap("get student", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return types.Student{}, storage.NotFound("get student", id)
	}
	return st, nil
}

func (s *Store) InsertStudent(ctx context.Context, draft types.Draft, ownerID string) (types.Student, error) {
	const op = "insert student"
	if err := ctx.Err(); err != nil {
		return types.Student{}, storage.Wrap(op, err)
	}
	if err := storage.CheckInsert(op, draft, ownerID); err != nil {
		return types.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Consecutive inserts within one clock tick still need a strict order.
	s.seq++
	created := s.now().UTC().Add(time.Duration(s.seq))

	st := draft.Apply(types.Student{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: created,
	})
	s.students[st.ID] = st
	return st, nil
}

func (s *Store) UpdateStudent(ctx context.Context, id string, draft types.Draft) error {
	const op = "update student"
	if err := ctx.Err(); err != nil {
		return storage.Wrap(op, err)
	}
	if err := storage.CheckUpdate(op, id, draft); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok {
		return storage.NotFound(op, id)
	}
	s.students[id] = draft.Apply(st)
	return nil
}

func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	const op = "delete student"
	if err := ctx.Err(); err != nil {
		return storage.Wrap(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return storage.NotFound(op, id)
	}
	delete(s.students, id)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
