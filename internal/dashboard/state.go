// Package dashboard is the list/form controller of the student records
// screen. It is modelled as a state machine: a State value, a closed set
// of actions, and Reduce, a pure transition function that may request at
// most one remote call (an Effect) per step.
//
// Reduce never touches the store. Execute performs an Effect and turns the
// outcome into the next action, and Controller runs that loop for callers
// without an event loop of their own. The terminal UI instead runs Execute
// inside bubbletea commands and feeds the result back through Update.
package dashboard

import (
	"strings"

	"github.com/aanand-mishra/student-records/internal/types"
)

// NoticeKind tells success notices from error notices.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota + 1
	NoticeError
)

// Notice is the transient notification produced by the last action.
type Notice struct {
	Kind   NoticeKind
	Title  string
	Detail string
}

// Form is the create/edit dialog. Target is nil when creating.
type Form struct {
	Open       bool
	Target     *types.Student
	Draft      types.Draft
	Submitting bool
}

// Editing reports whether the form edits an existing record.
func (f Form) Editing() bool { return f.Target != nil }

// Confirm is the delete confirmation, aimed at one record id.
type Confirm struct {
	Open     bool
	TargetID string
	Deleting bool
}

// State is everything the screen renders.
type State struct {
	// OwnerID is the signed-in user; inserted records belong to it.
	OwnerID string

	Records  []types.Student
	Filtered []types.Student
	Search   string

	// Loading is true only while the initial list fetch is outstanding.
	Loading bool

	// ListSeq numbers the latest list fetch; results of older ones are
	// dropped.
	ListSeq int

	Form    Form
	Confirm Confirm
	Notice  *Notice
}

// Initial returns the state before mount.
func Initial(ownerID string) State {
	return State{
		OwnerID:  ownerID,
		Records:  []types.Student{},
		Filtered: []types.Student{},
	}
}

// Filter returns the records whose full name or enrollment code contains
// term, ignoring case, in their original order. An empty term keeps all.
func Filter(records []types.Student, term string) []types.Student {
	out := make([]types.Student, 0, len(records))
	needle := strings.ToLower(term)
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.FullName), needle) ||
			strings.Contains(strings.ToLower(r.EnrollmentCode), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Field names one editable draft field.
type Field int

const (
	FieldFullName Field = iota
	FieldEnrollmentCode
	FieldEmail
	FieldBirthDate
)

// Fields lists the form fields in display order.
var Fields = []Field{FieldFullName, FieldEnrollmentCode, FieldEmail, FieldBirthDate}

func (f Field) String() string {
	switch f {
	case FieldFullName:
		return "Full name"
	case FieldEnrollmentCode:
		return "Enrollment code"
	case FieldEmail:
		return "E-mail"
	case FieldBirthDate:
		return "Birth date"
	default:
		return "unknown"
	}
}

// Get reads the field from d.
func (f Field) Get(d types.Draft) string {
	switch f {
	case FieldFullName:
		return d.FullName
	case FieldEnrollmentCode:
		return d.EnrollmentCode
	case FieldEmail:
		return d.Email
	case FieldBirthDate:
		return d.BirthDate
	}
	return ""
}

// Set returns d with the field replaced by v.
func (f Field) Set(d types.Draft, v string) types.Draft {
	switch f {
	case FieldFullName:
		d.FullName = v
	case FieldEnrollmentCode:
		d.EnrollmentCode = v
	case FieldEmail:
		d.Email = v
	case FieldBirthDate:
		d.BirthDate = v
	}
	return d
}
