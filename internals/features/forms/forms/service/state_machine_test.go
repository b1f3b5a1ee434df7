// file: internals/features/forms/forms/service/state_machine_test.go
package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"izinku_backend/internals/constants"
	formModel "izinku_backend/internals/features/forms/forms/model"
)

func TestApplyTransition(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)
	past := now.Add(-72 * time.Hour)

	cases := []struct {
		name      string
		from, to  string
		eventDate time.Time
		wantErr   error
		wantState string
	}{
		{"draft to active", formModel.FormStatusDraft, formModel.FormStatusActive, future, nil, formModel.FormStatusActive},
		{"active to closed", formModel.FormStatusActive, formModel.FormStatusClosed, future, nil, formModel.FormStatusClosed},
		{"reopen before event", formModel.FormStatusClosed, formModel.FormStatusActive, future, nil, formModel.FormStatusActive},
		{"reopen after event", formModel.FormStatusClosed, formModel.FormStatusActive, past, ErrDeadlinePassed, formModel.FormStatusClosed},
		{"draft to closed is illegal", formModel.FormStatusDraft, formModel.FormStatusClosed, future, &IllegalTransitionError{}, formModel.FormStatusDraft},
		{"active to draft is illegal", formModel.FormStatusActive, formModel.FormStatusDraft, future, &IllegalTransitionError{}, formModel.FormStatusActive},
		{"closed to draft is illegal", formModel.FormStatusClosed, formModel.FormStatusDraft, future, &IllegalTransitionError{}, formModel.FormStatusClosed},
		{"no-op active to active", formModel.FormStatusActive, formModel.FormStatusActive, past, nil, formModel.FormStatusActive},
		{"no-op closed to closed", formModel.FormStatusClosed, formModel.FormStatusClosed, past, nil, formModel.FormStatusClosed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &formModel.FormModel{FormStatus: tc.from, FormEventDate: tc.eventDate}
			err := ApplyTransition(f, tc.to, now)

			switch want := tc.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("ApplyTransition() = %v, want nil", err)
				}
			case *IllegalTransitionError:
				var ite *IllegalTransitionError
				if !errors.As(err, &ite) {
					t.Fatalf("ApplyTransition() = %v, want IllegalTransitionError", err)
				}
				if ite.From != tc.from || ite.To != tc.to {
					t.Fatalf("IllegalTransitionError = %s→%s, want %s→%s", ite.From, ite.To, tc.from, tc.to)
				}
			default:
				if !errors.Is(err, want) {
					t.Fatalf("ApplyTransition() = %v, want %v", err, want)
				}
			}
			if f.FormStatus != tc.wantState {
				t.Fatalf("FormStatus = %s, want %s", f.FormStatus, tc.wantState)
			}
		})
	}
}

func TestApplyTransitionReopenExactlyAtEventDate(t *testing.T) {
	// The event date itself is still reopenable; only strictly-after fails.
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	f := &formModel.FormModel{FormStatus: formModel.FormStatusClosed, FormEventDate: now}
	if err := ApplyTransition(f, formModel.FormStatusActive, now); err != nil {
		t.Fatalf("reopen at event date: %v", err)
	}
}

func TestCanMutateForm(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	f := &formModel.FormModel{FormTeacherID: owner}

	cases := []struct {
		name         string
		userID       uuid.UUID
		role         string
		hasEditShare bool
		want         bool
	}{
		{"owning teacher", owner, constants.RoleTeacher, false, true},
		{"other teacher", other, constants.RoleTeacher, false, false},
		{"other teacher with edit share", other, constants.RoleTeacher, true, true},
		{"admin", other, constants.RoleAdmin, false, true},
		{"super admin", other, constants.RoleSuperAdmin, false, true},
		{"parent never", other, constants.RoleParent, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanMutateForm(f, tc.userID, tc.role, tc.hasEditShare); got != tc.want {
				t.Fatalf("CanMutateForm() = %v, want %v", got, tc.want)
			}
		})
	}
}
