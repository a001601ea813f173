// Package storage defines the contracts any student-records backend must
// satisfy: the narrow Store used by the dashboard controller and the
// wider Storage used by the HTTP records service.
//
// WHY AN INTERFACE?
// ─────────────────
// Neither the controller nor the HTTP handlers should know which backend
// they are talking to. By depending only on these interfaces:
//
//   - Switching backends = implement the interface, change one line in
//     backend.Open. Zero controller or handler changes.
//
//   - Writing tests = pass the in-memory store. No real database needed.
package storage

import (
	"context"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Store is the record store client contract. Every method either fully
// succeeds or returns a single *RemoteError. There are no retries.
type Store interface {
	// ListStudents returns every student, newest created first.
	// Returns an empty slice (not nil) if there are no students.
	ListStudents(ctx context.Context) ([]types.Student, error)

	// InsertStudent stores a new student owned by ownerID and returns the
	// stored record, including its store-assigned ID.
	InsertStudent(ctx context.Context, draft types.Draft, ownerID string) (types.Student, error)

	// UpdateStudent overwrites the four editable fields of the student
	// with the given id. ID and owner are never touched.
	UpdateStudent(ctx context.Context, id string, draft types.Draft) error

	// DeleteStudent removes a student permanently.
	DeleteStudent(ctx context.Context, id string) error
}

// Storage is what the records service needs from a backend.
type Storage interface {
	Store

	// GetStudent fetches a single student by id.
	GetStudent(ctx context.Context, id string) (types.Student, error)

	// Close releases the backend's resources.
	Close() error
}

// CheckInsert applies the insert preconditions shared by every backend.
func CheckInsert(op string, draft types.Draft, ownerID string) error {
	if err := draft.Validate(); err != nil {
		return Invalid(op, err)
	}
	if ownerID == "" {
		return &RemoteError{Op: op, Message: "owner id is required", Err: ErrInvalid}
	}
	return nil
}

// CheckUpdate applies the update preconditions shared by every backend.
func CheckUpdate(op string, id string, draft types.Draft) error {
	if id == "" {
		return &RemoteError{Op: op, Message: "student id is required", Err: ErrInvalid}
	}
	if err := draft.Validate(); err != nil {
		return Invalid(op, err)
	}
	return nil
}
