package storage

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-records/internal/types"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("list", nil))

	cause := errors.New("connection refused")
	err := Wrap("list", cause)

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "list", re.Op)
	assert.Equal(t, "list: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Same(t, err, Wrap("other", err), "already wrapped errors pass through")
}

func TestNotFound(t *testing.T) {
	err := NotFound("delete", "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "no student found with id: abc", Message(err))
}

func TestCheckInsert(t *testing.T) {
	valid := types.Draft{FullName: "Ana", EnrollmentCode: "1", Email: "ana@example.com", BirthDate: "2000-01-01"}

	require.NoError(t, CheckInsert("insert", valid, "owner-1"))

	err := CheckInsert("insert", valid, "")
	assert.ErrorIs(t, err, ErrInvalid)

	err = CheckInsert("insert", types.Draft{}, "owner-1")
	assert.ErrorIs(t, err, ErrInvalid)
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs), "validation details stay reachable")
}

func TestCheckUpdate(t *testing.T) {
	valid := types.Draft{FullName: "Ana", EnrollmentCode: "1", Email: "ana@example.com", BirthDate: "2000-01-01"}

	require.NoError(t, CheckUpdate("update", "id-1", valid))
	assert.ErrorIs(t, CheckUpdate("update", "", valid), ErrInvalid)
	assert.ErrorIs(t, CheckUpdate("update", "id-1", types.Draft{}), ErrInvalid)
}

func TestInvalid_ReadableMessage(t *testing.T) {
	err := CheckInsert("insert", types.Draft{FullName: "Ana", EnrollmentCode: "1", Email: "ana@example.com"}, "owner-1")
	assert.Equal(t, "field BirthDate is required", Message(err))
}
