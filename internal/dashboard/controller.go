package dashboard

import (
	"context"
	"log/slog"

	"github.com/aanand-mishra/student-records/internal/storage"
)

// Execute performs eff against st and returns the resulting action.
// A nil eff yields a nil action.
func Execute(ctx context.Context, st storage.Store, eff Effect) Action {
	switch e := eff.(type) {
	case LoadList:
		records, err := st.ListStudents(ctx)
		if err != nil {
			return ListFailed{Seq: e.Seq, Err: err}
		}
		return ListLoaded{Seq: e.Seq, Records: records}

	case InsertRecord:
		if _, err := st.InsertStudent(ctx, e.Draft, e.OwnerID); err != nil {
			return SaveFailed{Err: err}
		}
		return SaveSucceeded{Created: true}

	case UpdateRecord:
		if err := st.UpdateStudent(ctx, e.ID, e.Draft); err != nil {
			return SaveFailed{Err: err}
		}
		return SaveSucceeded{}

	case DeleteRecord:
		if err := st.DeleteStudent(ctx, e.ID); err != nil {
			return DeleteFailed{Err: err}
		}
		return DeleteSucceeded{}
	}
	return nil
}

// Controller drives Reduce and Execute synchronously against a store. It
// is meant to be called from a single event loop and is not safe for
// concurrent use.
type Controller struct {
	store storage.Store
	state State
	log   *slog.Logger
}

// New creates a controller for the signed-in owner.
func New(store storage.Store, ownerID string, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		store: store,
		state: Initial(ownerID),
		log:   log.With("component", "dashboard"),
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Dispatch applies a and every follow-up action until no remote call is
// pending, then returns the resulting state.
func (c *Controller) Dispatch(ctx context.Context, a Action) State {
	for a != nil {
		next, eff := Reduce(c.state, a)
		c.state = next
		if eff == nil {
			break
		}
		a = Execute(ctx, c.store, eff)
		LogOutcome(c.log, a)
	}
	return c.state
}

// LogOutcome records the result of an executed effect on log.
func LogOutcome(log *slog.Logger, a Action) {
	switch a := a.(type) {
	case ListFailed:
		log.Warn("list students failed", slog.String("error", storage.Message(a.Err)))
	case SaveFailed:
		log.Warn("save student failed", slog.String("error", storage.Message(a.Err)))
	case DeleteFailed:
		log.Warn("delete student failed", slog.String("error", storage.Message(a.Err)))
	case ListLoaded:
		log.Debug("students loaded", slog.Int("count", len(a.Records)))
	}
}
