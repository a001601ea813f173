// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, the dashboard controller and the terminal UI can all
// import types without depending on each other.
package types

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

// Student represents a student record in our system.
//
// ID, OwnerID and CreatedAt are assigned by the store on insert and never
// change afterwards. Only the four fields mirrored in Draft are editable.
type Student struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	EnrollmentCode string    `json:"enrollment_code"`
	Email          string    `json:"email"`
	BirthDate      string    `json:"birth_date"`
	OwnerID        string    `json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Draft is the editable part of a Student: what the form holds and what
// insert and update send to the store.
//
// Struct tags serve two purposes:
//
//  1. json:"..." controls how the field appears when encoded to JSON.
//
//  2. validate:"..." lists rules checked by the go-playground/validator
//     package. "required" means the field must be non-empty; "email" and
//     "datetime" stand in for the browser's type=email / type=date checks.
type Draft struct {
	FullName       string `json:"full_name"       validate:"required"`
	EnrollmentCode string `json:"enrollment_code" validate:"required"`
	Email          string `json:"email"           validate:"required,email"`
	BirthDate      string `json:"birth_date"      validate:"required,datetime=2006-01-02"`
}

// DraftFromStudent copies the editable fields of s into a new Draft.
func DraftFromStudent(s Student) Draft {
	return Draft{
		FullName:       s.FullName,
		EnrollmentCode: s.EnrollmentCode,
		Email:          s.Email,
		BirthDate:      s.BirthDate,
	}
}

// Apply overwrites the editable fields of s with the draft values.
func (d Draft) Apply(s Student) Student {
	s.FullName = d.FullName
	s.EnrollmentCode = d.EnrollmentCode
	s.Email = d.Email
	s.BirthDate = d.BirthDate
	return s
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator instance. validator.New caches
// struct metadata, so one instance per process is enough.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the draft against its validate tags. The returned error
// is a validator.ValidationErrors when a field rule fails.
func (d Draft) Validate() error {
	return Validator().Struct(d)
}

// ValidationMessage converts validator field errors into one human-readable
// sentence per failing field, joined with ", ".
//
// Example output:
//
//	field FullName is required, field Email must be a valid email address
func ValidationMessage(errs validator.ValidationErrors) string {
	var msgs []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("field %s must be a date in %s format", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return strings.Join(msgs, ", ")
}
