// file: internals/features/forms/submissions/dto/submission_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	subService "izinku_backend/internals/features/forms/submissions/service"
)

/* =========================
   REQUEST
   ========================= */

type AnswerUpsert struct {
	FieldID uuid.UUID `json:"field_id" validate:"required"`
	Value   string    `json:"value" validate:"max=4000"`
}

type SignSubmissionRequest struct {
	StudentID     uuid.UUID      `json:"student_id" validate:"required"`
	SignatureData string         `json:"signature_data" validate:"required"`
	Answers       []AnswerUpsert `json:"answers" validate:"dive"`
}

func (r *SignSubmissionRequest) ToAnswers() []subService.Answer {
	out := make([]subService.Answer, 0, len(r.Answers))
	for _, a := range r.Answers {
		out = append(out, subService.Answer{FieldID: a.FieldID, Value: a.Value})
	}
	return out
}

type DeclineSubmissionRequest struct {
	StudentID uuid.UUID      `json:"student_id" validate:"required"`
	Answers   []AnswerUpsert `json:"answers" validate:"dive"`
}

/* =========================
   RESPONSE
   ========================= */

// StudentSubmissionState is the per-student slice of the parent's form view.
type StudentSubmissionState struct {
	StudentID    uuid.UUID  `json:"student_id"`
	StudentName  string     `json:"student_name"`
	Relationship string     `json:"relationship"`
	SubmissionID *uuid.UUID `json:"submission_id,omitempty"`
	Status       string     `json:"status"`
	SignedAt     *time.Time `json:"signed_at,omitempty"`
}

// ParentFormView answers "what do I still have to sign here". FullySigned is
// true only when every linked student is SIGNED — "already signed" is a
// per-student statement, not a per-form one.
type ParentFormView struct {
	FormID       uuid.UUID                `json:"form_id"`
	FormTitle    string                   `json:"form_title"`
	FormStatus   string                   `json:"form_status"`
	FormDeadline time.Time                `json:"form_deadline"`
	Students     []StudentSubmissionState `json:"students"`
	FullySigned  bool                     `json:"fully_signed"`
}
