// file: internals/features/forms/forms/service/state_machine.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"izinku_backend/internals/constants"
	formModel "izinku_backend/internals/features/forms/forms/model"
)

// ErrDeadlinePassed: reopen attempted after the event date.
var ErrDeadlinePassed = errors.New("event date has passed")

// IllegalTransitionError reports a lifecycle step the transition table does
// not allow (e.g. DRAFT → CLOSED).
type IllegalTransitionError struct {
	From, To string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal form transition %s → %s", e.From, e.To)
}

// transitions is the whole lifecycle; anything not listed is illegal.
var transitions = map[[2]string]bool{
	{formModel.FormStatusDraft, formModel.FormStatusActive}:  true, // distribution
	{formModel.FormStatusActive, formModel.FormStatusClosed}: true, // close
	{formModel.FormStatusClosed, formModel.FormStatusActive}: true, // reopen (event-date guarded)
}

func CanTransition(from, to string) bool {
	return transitions[[2]string{from, to}]
}

// ApplyTransition mutates f.FormStatus after checking the table and the
// reopen guard. A no-op (from == to) returns nil without touching the form,
// which makes ACTIVE→ACTIVE distribution idempotent.
func ApplyTransition(f *formModel.FormModel, to string, now time.Time) error {
	from := f.FormStatus
	if from == to {
		return nil
	}
	if !CanTransition(from, to) {
		return &IllegalTransitionError{From: from, To: to}
	}
	if from == formModel.FormStatusClosed && to == formModel.FormStatusActive &&
		f.FormEventDate.Before(now) {
		return ErrDeadlinePassed
	}
	f.FormStatus = to
	return nil
}

// CanMutateForm: the owning teacher, an edit-capable share, or an admin.
// Role admission has already happened at the route; this is the row-level
// ownership decision.
func CanMutateForm(f *formModel.FormModel, userID uuid.UUID, role string, hasEditShare bool) bool {
	if role == constants.RoleAdmin || role == constants.RoleSuperAdmin {
		return true
	}
	if f.FormTeacherID == userID {
		return true
	}
	return hasEditShare
}
