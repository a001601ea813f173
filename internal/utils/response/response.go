// Package response is the JSON envelope spoken by the records service.
//
// Handlers write it and the remote store client reads it back, so a store
// error crosses the wire as the same message on both ends:
//
//	{ "status": "error", "error": "no student found with id: 42" }
//
// Success responses may carry any JSON shape (a student, a list, a status).
package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Response is the status envelope.
type Response struct {
	Status string `json:"status"` // "ok", "deleted" or "error"
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusDeleted = "deleted"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// WriteJSON writes data as JSON with the given status code.
// Headers must be set before WriteHeader; after it they are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps err in the envelope.
func GeneralError(err error) Response {
	return Response{Status: StatusError, Error: storage.Message(err)}
}

// ValidationError reports every failed draft rule in one message.
func ValidationError(errs validator.ValidationErrors) Response {
	return Response{Status: StatusError, Error: types.ValidationMessage(errs)}
}

// StoreError picks the HTTP status for a store error: 404 for a missing
// student, 400 for a rejected draft and 500 for anything else.
func StoreError(err error) (int, Response) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, GeneralError(err)
	case errors.Is(err, storage.ErrInvalid):
		return http.StatusBadRequest, GeneralError(err)
	default:
		return http.StatusInternalServerError, GeneralError(err)
	}
}

// ReadError extracts the message of a failed response body. Bodies that
// are not an envelope (a proxy error page, say) are returned as trimmed
// text; an empty body yields "".
func ReadError(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))

	var env Response
	if json.Unmarshal(raw, &env) == nil && env.Error != "" {
		return env.Error
	}
	return strings.TrimSpace(string(raw))
}
