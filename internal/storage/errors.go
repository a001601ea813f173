package storage

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records/internal/types"
)

var (
	// ErrNotFound is wrapped when the requested student id does not exist.
	ErrNotFound = errors.New("student not found")

	// ErrInvalid is wrapped when the store rejects the submitted fields.
	ErrInvalid = errors.New("invalid student")
)

// RemoteError is the single error kind returned by a Store. Message is
// the human-readable text from the backing service; Err, when set, is the
// underlying cause and may be ErrNotFound or ErrInvalid.
type RemoteError struct {
	Op      string
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Op + ": remote error"
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Wrap turns err into a *RemoteError for op. A nil err stays nil and an
// existing *RemoteError is returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return err
	}
	return &RemoteError{Op: op, Message: fmt.Sprintf("%s: %v", op, err), Err: err}
}

// NotFound builds the error for a missing id.
func NotFound(op, id string) error {
	return &RemoteError{
		Op:      op,
		Message: fmt.Sprintf("no student found with id: %s", id),
		Err:     ErrNotFound,
	}
}

// Invalid builds the error for a rejected draft.
func Invalid(op string, cause error) error {
	msg := cause.Error()
	var verrs validator.ValidationErrors
	if errors.As(cause, &verrs) {
		msg = types.ValidationMessage(verrs)
	}
	return &RemoteError{
		Op:      op,
		Message: msg,
		Err:     fmt.Errorf("%w: %w", ErrInvalid, cause),
	}
}

// Message extracts the human-readable text to show the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Error()
	}
	return err.Error()
}
