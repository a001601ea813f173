package dashboard

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

// Reduce applies a to s and returns the next state plus the remote call
// to make, or a nil Effect when none is needed. It has no side effects.
func Reduce(s State, a Action) (State, Effect) {
	switch a := a.(type) {
	case Mounted:
		s.Loading = true
		s.Records = []types.Student{}
		s.Filtered = []types.Student{}
		return load(s)

	case ListLoaded:
		if a.Seq != s.ListSeq {
			return s, nil
		}
		records := a.Records
		if records == nil {
			records = []types.Student{}
		}
		s.Records = records
		s.Filtered = Filter(records, s.Search)
		s.Loading = false
		return s, nil

	case ListFailed:
		if a.Seq != s.ListSeq {
			return s, nil
		}
		s.Loading = false
		s.Notice = errorNotice("Could not load students", a.Err)
		return s, nil

	case SearchChanged:
		s.Search = a.Term
		s.Filtered = Filter(s.Records, a.Term)
		return s, nil

	case NewRequested:
		if s.Form.Submitting {
			return s, nil
		}
		s.Form = Form{Open: true}
		return s, nil

	case EditRequested:
		if s.Form.Submitting {
			return s, nil
		}
		target := a.Student
		s.Form = Form{Open: true, Target: &target, Draft: types.DraftFromStudent(target)}
		return s, nil

	case FieldChanged:
		if !s.Form.Open {
			return s, nil
		}
		s.Form.Draft = a.Field.Set(s.Form.Draft, a.Value)
		return s, nil

	case FormCancelled:
		if s.Form.Submitting {
			return s, nil
		}
		s.Form = Form{}
		return s, nil

	case Submitted:
		return submit(s)

	case SaveSucceeded:
		s.Form = Form{}
		title := "Student updated"
		if a.Created {
			title = "Student created"
		}
		s.Notice = &Notice{Kind: NoticeSuccess, Title: title}
		return load(s)

	case SaveFailed:
		s.Form.Submitting = false
		s.Notice = errorNotice("Could not save student", a.Err)
		return s, nil

	case DeleteRequested:
		if a.ID == "" || s.Confirm.Deleting {
			return s, nil
		}
		s.Confirm = Confirm{Open: true, TargetID: a.ID}
		return s, nil

	case DeleteCancelled:
		if s.Confirm.Deleting {
			return s, nil
		}
		s.Confirm = Confirm{}
		return s, nil

	case DeleteConfirmed:
		if !s.Confirm.Open || s.Confirm.Deleting {
			return s, nil
		}
		s.Confirm.Deleting = true
		return s, DeleteRecord{ID: s.Confirm.TargetID}

	case DeleteSucceeded:
		s.Confirm = Confirm{}
		s.Notice = &Notice{Kind: NoticeSuccess, Title: "Student deleted"}
		return load(s)

	case DeleteFailed:
		// The confirmation closes either way; the user may ask again.
		s.Confirm = Confirm{}
		s.Notice = errorNotice("Could not delete student", a.Err)
		return s, nil

	case NoticeDismissed:
		s.Notice = nil
		return s, nil
	}

	return s, nil
}

// load starts a new list fetch, superseding any still outstanding.
func load(s State) (State, Effect) {
	s.ListSeq++
	return s, LoadList{Seq: s.ListSeq}
}

func submit(s State) (State, Effect) {
	f := s.Form
	if !f.Open || f.Submitting {
		return s, nil
	}

	if err := f.Draft.Validate(); err != nil {
		s.Notice = &Notice{Kind: NoticeError, Title: "Please fill in every field", Detail: describe(err)}
		return s, nil
	}

	if f.Editing() {
		s.Form.Submitting = true
		return s, UpdateRecord{ID: f.Target.ID, Draft: f.Draft}
	}

	if s.OwnerID == "" {
		s.Notice = &Notice{Kind: NoticeError, Title: "Not signed in", Detail: "sign in before adding students"}
		return s, nil
	}
	s.Form.Submitting = true
	return s, InsertRecord{Draft: f.Draft, OwnerID: s.OwnerID}
}

func errorNotice(title string, err error) *Notice {
	return &Notice{Kind: NoticeError, Title: title, Detail: storage.Message(err)}
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return types.ValidationMessage(verrs)
	}
	return err.Error()
}
