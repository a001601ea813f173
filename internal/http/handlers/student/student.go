// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// To inject dependencies we use a factory function that accepts the
// storage and returns a function with exactly that signature:
//
//	r.Post("/", student.New(storage))
//	//          ^^^^^^^^^^^^^^^^^^^^
//	//          called ONCE at startup; the returned closure runs on
//	//          EVERY incoming request.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records/internal/auth"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
// Creates a new student owned by the caller from the JSON request body.
//
// Request body (JSON):
//
//	{ "full_name": "Ana Souza", "enrollment_code": "2024001",
//	  "email": "ana@example.com", "birth_date": "2001-04-12" }
//
// Success response (201 Created): the stored student, including its id.
//
// Error responses:
//
//	400 Bad Request: empty body, malformed JSON, or failed validation
//	401 Unauthorized: no owner on the request
//	500 Internal: database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		ownerID := auth.OwnerFromContext(r.Context())
		if ownerID == "" {
			response.WriteJSON(w, http.StatusUnauthorized,
				response.GeneralError(errors.New("no authenticated user")))
			return
		}

		draft, ok := decodeDraft(w, r)
		if !ok {
			return
		}

		created, err := storage.InsertStudent(r.Context(), draft, ownerID)
		if err != nil {
			writeStoreError(w, "error creating student", "", err)
			return
		}

		slog.Info("student created", slog.String("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
//
// Error responses:
//
//	404 Not Found: no student with that id
//	500 Internal: database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("getting a student", slog.String("id", id))

		student, err := storage.GetStudent(r.Context(), id)
		if err != nil {
			writeStoreError(w, "error getting student", id, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns a JSON array of all students, newest first.
// Returns an empty array [] (not null) when there are no students.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.ListStudents(r.Context())
		if err != nil {
			writeStoreError(w, "error getting students", "", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Replaces ALL four editable fields of an existing student. The id and the
// owner never change.
//
// Success response (200 OK): the student as stored after the update.
//
// Error responses:
//
//	400 Bad Request: empty body or validation failure
//	404 Not Found: no student with that id
//	500 Internal: database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("updating a student", slog.String("id", id))

		draft, ok := decodeDraft(w, r)
		if !ok {
			return
		}

		if err := storage.UpdateStudent(r.Context(), id, draft); err != nil {
			writeStoreError(w, "error updating student", id, err)
			return
		}

		// Re-fetch the record so we return exactly what is stored.
		updated, err := storage.GetStudent(r.Context(), id)
		if err != nil {
			writeStoreError(w, "error reading updated student", id, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
// Permanently removes a student record.
//
// Success response (200 OK):
//
//	{ "status": "deleted" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("deleting a student", slog.String("id", id))

		if err := storage.DeleteStudent(r.Context(), id); err != nil {
			writeStoreError(w, "error deleting student", id, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusDeleted})
	}
}

// decodeDraft reads and validates the request body. It writes the 400
// response itself and reports false when the handler should stop.
func decodeDraft(w http.ResponseWriter, r *http.Request) (types.Draft, bool) {
	var draft types.Draft

	err := json.NewDecoder(r.Body).Decode(&draft)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return types.Draft{}, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return types.Draft{}, false
	}

	if err := draft.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
		} else {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		}
		return types.Draft{}, false
	}

	return draft, true
}

// writeStoreError logs a failed store call and writes its status.
func writeStoreError(w http.ResponseWriter, msg, id string, err error) {
	status, body := response.StoreError(err)

	attrs := []any{slog.String("error", err.Error())}
	if id != "" {
		attrs = append(attrs, slog.String("id", id))
	}
	if status == http.StatusInternalServerError {
		slog.Error(msg, attrs...)
	} else {
		slog.Warn(msg, attrs...)
	}

	response.WriteJSON(w, status, body)
}
