// Package postgres implements storage.Storage against PostgreSQL, the
// managed-database deployment of the students table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS students (
	id              TEXT        PRIMARY KEY,
	nome            TEXT        NOT NULL,
	matricula       TEXT        NOT NULL,
	email           TEXT        NOT NULL,
	data_nascimento DATE        NOT NULL,
	user_id         TEXT        NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const selectColumns = `SELECT id, nome, matricula, email, to_char(data_nascimento, 'YYYY-MM-DD'), user_id, created_at FROM students`

// Postgres is a students repository backed by *sql.DB.
type Postgres struct{ db *sql.DB }

// New wraps an open database handle.
func New(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Open connects to dsn, verifies the connection and ensures the schema.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres.Open: ping: %w", err)
	}
	p := New(db)
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// Migrate creates the students table if it is missing.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate students: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) ListStudents(ctx context.Context) ([]types.Student, error) {
	const op = "list students"
	rows, err := p.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, storage.Wrap(op, err)
	}
	defer rows.Close()

	out := make([]types.Student, 0)
	for rows.Next() {
		var s types.Student
		if err := rows.Scan(&s.ID, &s.FullName, &s.EnrollmentCode, &s.Email, &s.BirthDate, &s.OwnerID, &s.CreatedAt); err != nil {
			return nil, storage.Wrap(op, fmt.Errorf("scan student: %w", err))
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap(op, err)
	}
	return out, nil
}

func (p *Postgres) GetStudent(ctx context.Context, id string) (types.Student, error) {
	const op = "get student"
	var s types.Student
	err := p.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id).
		Scan(&s.ID, &s.FullName, &s.EnrollmentCode, &s.Email, &s.BirthDate, &s.OwnerID, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, storage.NotFound(op, id)
	}
	if err != nil {
		return types.Student{}, storage.Wrap(op, err)
	}
	return s, nil
}

func (p *Postgres) InsertStudent(ctx context.Context, draft types.Draft, ownerID string) (types.Student, error) {
	const op = "insert student"
	if err := storage.CheckInsert(op, draft, ownerID); err != nil {
		return types.Student{}, err
	}

	s := draft.Apply(types.Student{ID: uuid.New().String(), OwnerID: ownerID})
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO students (id, nome, matricula, email, data_nascimento, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, s.ID, s.FullName, s.EnrollmentCode, s.Email, s.BirthDate, s.OwnerID).Scan(&s.CreatedAt)
	if err != nil {
		return types.Student{}, storage.Wrap(op, err)
	}
	return s, nil
}

func (p *Postgres) UpdateStudent(ctx context.Context, id string, draft types.Draft) error {
	const op = "update student"
	if err := storage.CheckUpdate(op, id, draft); err != nil {
		return err
	}

	res, err := p.db.ExecContext(ctx,
		`UPDATE students SET nome = $1, matricula = $2, email = $3, data_nascimento = $4 WHERE id = $5`,
		draft.FullName, draft.EnrollmentCode, draft.Email, draft.BirthDate, id,
	)
	if err != nil {
		return storage.Wrap(op, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return storage.NotFound(op, id)
	}
	return nil
}

func (p *Postgres) DeleteStudent(ctx context.Context, id string) error {
	const op = "delete student"
	res, err := p.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return storage.Wrap(op, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return storage.NotFound(op, id)
	}
	return nil
}
