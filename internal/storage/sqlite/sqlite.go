// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. It is the default backend of the records service.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db  *sql.DB
	now func() time.Time
	log *slog.Logger
}

// New opens the SQLite database at path, creates the students table if
// it does not already exist, and returns a ready-to-use *SQLite.
//
// Column names follow the hosted table the dashboard was first written
// against (nome, matricula, data_nascimento), so an exported dump can be
// loaded without renaming anything.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent: safe to run on every
	// startup.
	//
	// created_at holds unix nanoseconds so ORDER BY sorts numerically.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id              TEXT    PRIMARY KEY,
			nome            TEXT    NOT NULL,
			matricula       TEXT    NOT NULL,
			email           TEXT    NOT NULL,
			data_nascimento TEXT    NOT NULL,
			user_id         TEXT    NOT NULL,
			created_at      INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{
		Db:  db,
		now: time.Now,
		log: slog.Default().With("component", "storage.sqlite"),
	}, nil
}

// Close closes the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// InsertStudent inserts a new row and returns it as stored.
//
// Prepared statements use placeholders (?). The driver sends the query and
// the values separately, so user input is never parsed as SQL.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) InsertStudent(ctx context.Context, draft types.Draft, ownerID string) (types.Student, error) {
	const op = "insert student"
	if err := storage.CheckInsert(op, draft, ownerID); err != nil {
		return types.Student{}, err
	}

	stmt, err := s.Db.PrepareContext(ctx,
		`INSERT INTO students (id, nome, matricula, email, data_nascimento, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return types.Student{}, storage.Wrap(op, fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	student := draft.Apply(types.Student{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: s.now().UTC(),
	})

	_, err = stmt.ExecContext(ctx,
		student.ID,
		student.FullName,
		student.EnrollmentCode,
		student.Email,
		student.BirthDate,
		student.OwnerID,
		student.CreatedAt.UnixNano(),
	)
	if err != nil {
		return types.Student{}, storage.Wrap(op, fmt.Errorf("exec: %w", err))
	}

	s.log.Debug("student inserted", slog.String("id", student.ID))
	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudent fetches exactly one student row matched by id.
// QueryRow reports a missing row only when Scan is called.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetStudent(ctx context.Context, id string) (types.Student, error) {
	const op = "get student"
	stmt, err := s.Db.PrepareContext(ctx,
		`SELECT id, nome, matricula, email, data_nascimento, user_id, created_at
		 FROM students WHERE id = ? LIMIT 1`,
	)
	if err != nil {
		return types.Student{}, storage.Wrap(op, fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	student, err := scanStudent(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.NotFound(op, id)
		}
		return types.Student{}, storage.Wrap(op, fmt.Errorf("scan: %w", err))
	}

	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ListStudents returns all student rows, newest first.
//
// Query returns a cursor (*sql.Rows). We iterate with rows.Next() and Scan
// each row. rows.Close() must always run to release the connection.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) ListStudents(ctx context.Context) ([]types.Student, error) {
	const op = "list students"
	stmt, err := s.Db.PrepareContext(ctx,
		// rowid breaks ties between rows inserted within the same nanosecond.
		`SELECT id, nome, matricula, email, data_nascimento, user_id, created_at
		 FROM students ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("query: %w", err))
	}
	defer rows.Close()

	// Non-nil so an empty table encodes as [] rather than null.
	students := make([]types.Student, 0)

	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, storage.Wrap(op, fmt.Errorf("scan row: %w", err))
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.Wrap(op, fmt.Errorf("rows iteration: %w", err))
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateStudent replaces the editable columns of one row. id, user_id and
// created_at are never part of the SET list.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) UpdateStudent(ctx context.Context, id string, draft types.Draft) error {
	const op = "update student"
	if err := storage.CheckUpdate(op, id, draft); err != nil {
		return err
	}

	stmt, err := s.Db.PrepareContext(ctx,
		`UPDATE students SET nome = ?, matricula = ?, email = ?, data_nascimento = ? WHERE id = ?`,
	)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	// Argument order matches the ? order in the SQL.
	res, err := stmt.ExecContext(ctx, draft.FullName, draft.EnrollmentCode, draft.Email, draft.BirthDate, id)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("exec: %w", err))
	}

	return affected(op, id, res)
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteStudent removes a student row by id.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) DeleteStudent(ctx context.Context, id string) error {
	const op = "delete student"
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE id = ?")
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("prepare: %w", err))
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("exec: %w", err))
	}

	return affected(op, id, res)
}

// affected turns a zero-row write into ErrNotFound.
func affected(op, id string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storage.Wrap(op, fmt.Errorf("rows affected: %w", err))
	}
	if n == 0 {
		return storage.NotFound(op, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanStudent reads the columns in SELECT order.
func scanStudent(row scanner) (types.Student, error) {
	var (
		student types.Student
		created int64
	)
	if err := row.Scan(
		&student.ID,
		&student.FullName,
		&student.EnrollmentCode,
		&student.Email,
		&student.BirthDate,
		&student.OwnerID,
		&created,
	); err != nil {
		return types.Student{}, err
	}
	student.CreatedAt = time.Unix(0, created).UTC()
	return student, nil
}
