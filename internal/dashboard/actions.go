package dashboard

import "github.com/aanand-mishra/student-records/internal/types"

// Action is an input to Reduce: a user intent or the outcome of an Effect.
type Action interface{ isAction() }

// User intents.
type (
	Mounted         struct{}
	SearchChanged   struct{ Term string }
	NewRequested    struct{}
	EditRequested   struct{ Student types.Student }
	FormCancelled   struct{}
	Submitted       struct{}
	DeleteRequested struct{ ID string }
	DeleteCancelled struct{}
	DeleteConfirmed struct{}
	NoticeDismissed struct{}
)

// FieldChanged edits one field of the open form's draft.
type FieldChanged struct {
	Field Field
	Value string
}

// ListLoaded delivers the result of the list fetch numbered Seq.
type ListLoaded struct {
	Seq     int
	Records []types.Student
}

// ListFailed reports that the list fetch numbered Seq failed.
type ListFailed struct {
	Seq int
	Err error
}

// Other effect outcomes.
type (
	SaveSucceeded   struct{ Created bool }
	SaveFailed      struct{ Err error }
	DeleteSucceeded struct{}
	DeleteFailed    struct{ Err error }
)

func (Mounted) isAction()         {}
func (SearchChanged) isAction()   {}
func (NewRequested) isAction()    {}
func (EditRequested) isAction()   {}
func (FieldChanged) isAction()    {}
func (FormCancelled) isAction()   {}
func (Submitted) isAction()       {}
func (DeleteRequested) isAction() {}
func (DeleteCancelled) isAction() {}
func (DeleteConfirmed) isAction() {}
func (NoticeDismissed) isAction() {}
func (ListLoaded) isAction()      {}
func (ListFailed) isAction()      {}
func (SaveSucceeded) isAction()   {}
func (SaveFailed) isAction()      {}
func (DeleteSucceeded) isAction() {}
func (DeleteFailed) isAction()    {}

// Effect asks for exactly one remote call.
type Effect interface{ isEffect() }

// LoadList fetches the full record list. Seq numbers the fetch so that a
// slower, older fetch cannot overwrite a newer one.
type LoadList struct{ Seq int }

// InsertRecord creates a record owned by OwnerID.
type InsertRecord struct {
	Draft   types.Draft
	OwnerID string
}

// UpdateRecord overwrites the editable fields of record ID.
type UpdateRecord struct {
	ID    string
	Draft types.Draft
}

// DeleteRecord removes record ID.
type DeleteRecord struct{ ID string }

func (LoadList) isEffect()     {}
func (InsertRecord) isEffect() {}
func (UpdateRecord) isEffect() {}
func (DeleteRecord) isEffect() {}
