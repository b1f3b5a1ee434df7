// file: internals/features/forms/forms/dto/form_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "izinku_backend/internals/features/forms/forms/model"
)

/* =========================
   REQUEST
   ========================= */

type FormFieldUpsert struct {
	FormFieldLabel    string `json:"form_field_label" validate:"required,max=200"`
	FormFieldType     string `json:"form_field_type" validate:"omitempty,oneof=text checkbox select"`
	FormFieldRequired bool   `json:"form_field_required"`
}

func (u *FormFieldUpsert) Normalize() {
	u.FormFieldLabel = strings.TrimSpace(u.FormFieldLabel)
	if u.FormFieldType == "" {
		u.FormFieldType = model.FieldTypeText
	}
}

type FormDocumentUpsert struct {
	FormDocumentFileName string `json:"form_document_file_name" validate:"required,max=200"`
	FormDocumentURL      string `json:"form_document_url" validate:"required,url"`
}

type CreateFormRequest struct {
	FormTitle       string               `json:"form_title" validate:"required,max=200"`
	FormDescription *string              `json:"form_description"`
	FormEventDate   time.Time            `json:"form_event_date" validate:"required"`
	FormDeadline    time.Time            `json:"form_deadline" validate:"required"`
	FormFields      []FormFieldUpsert    `json:"form_fields" validate:"dive"`
	FormDocuments   []FormDocumentUpsert `json:"form_documents" validate:"dive"`
}

func (r *CreateFormRequest) ToModel(teacherID uuid.UUID, schoolID *uuid.UUID, requiresReview bool) *model.FormModel {
	f := &model.FormModel{
		FormSchoolID:       schoolID,
		FormTeacherID:      teacherID,
		FormTitle:          strings.TrimSpace(r.FormTitle),
		FormDescription:    r.FormDescription,
		FormEventDate:      r.FormEventDate,
		FormDeadline:       r.FormDeadline,
		FormStatus:         model.FormStatusDraft,
		FormRequiresReview: requiresReview,
	}
	for i := range r.FormFields {
		r.FormFields[i].Normalize()
		f.FormFields = append(f.FormFields, model.FormFieldModel{
			FormFieldLabel:    r.FormFields[i].FormFieldLabel,
			FormFieldType:     r.FormFields[i].FormFieldType,
			FormFieldRequired: r.FormFields[i].FormFieldRequired,
			FormFieldPosition: i,
		})
	}
	for i, d := range r.FormDocuments {
		f.FormDocuments = append(f.FormDocuments, model.FormDocumentModel{
			FormDocumentFileName: strings.TrimSpace(d.FormDocumentFileName),
			FormDocumentURL:      d.FormDocumentURL,
			FormDocumentPosition: i,
		})
	}
	return f
}

// UpdateFormRequest: pointer fields, nil = leave untouched. Fields/documents,
// when present, replace the existing children wholesale.
type UpdateFormRequest struct {
	FormTitle       *string               `json:"form_title" validate:"omitempty,max=200"`
	FormDescription *string               `json:"form_description"`
	FormEventDate   *time.Time            `json:"form_event_date"`
	FormDeadline    *time.Time            `json:"form_deadline"`
	FormFields      *[]FormFieldUpsert    `json:"form_fields" validate:"omitempty,dive"`
	FormDocuments   *[]FormDocumentUpsert `json:"form_documents" validate:"omitempty,dive"`
}

func (r *UpdateFormRequest) Apply(f *model.FormModel) {
	if r.FormTitle != nil {
		f.FormTitle = strings.TrimSpace(*r.FormTitle)
	}
	if r.FormDescription != nil {
		f.FormDescription = r.FormDescription
	}
	if r.FormEventDate != nil {
		f.FormEventDate = *r.FormEventDate
	}
	if r.FormDeadline != nil {
		f.FormDeadline = *r.FormDeadline
	}
}

/* =========================
   RESPONSE
   ========================= */

type FormResponse struct {
	FormID             uuid.UUID  `json:"form_id"`
	FormSchoolID       *uuid.UUID `json:"form_school_id,omitempty"`
	FormTeacherID      uuid.UUID  `json:"form_teacher_id"`
	FormTitle          string     `json:"form_title"`
	FormDescription    *string    `json:"form_description,omitempty"`
	FormEventDate      time.Time  `json:"form_event_date"`
	FormDeadline       time.Time  `json:"form_deadline"`
	FormStatus         string     `json:"form_status"`
	FormRequiresReview bool       `json:"form_requires_review"`
	FormReviewStatus   *string    `json:"form_review_status,omitempty"`
	FormReviewedBy     *uuid.UUID `json:"form_reviewed_by,omitempty"`
	FormReviewedAt     *time.Time `json:"form_reviewed_at,omitempty"`
	FormReviewComments *string    `json:"form_review_comments,omitempty"`
	FormCreatedAt      time.Time  `json:"form_created_at"`

	FormFields    []model.FormFieldModel    `json:"form_fields,omitempty"`
	FormDocuments []model.FormDocumentModel `json:"form_documents,omitempty"`
}

func FromModel(f *model.FormModel) *FormResponse {
	return &FormResponse{
		FormID:             f.FormID,
		FormSchoolID:       f.FormSchoolID,
		FormTeacherID:      f.FormTeacherID,
		FormTitle:          f.FormTitle,
		FormDescription:    f.FormDescription,
		FormEventDate:      f.FormEventDate,
		FormDeadline:       f.FormDeadline,
		FormStatus:         f.FormStatus,
		FormRequiresReview: f.FormRequiresReview,
		FormReviewStatus:   f.FormReviewStatus,
		FormReviewedBy:     f.FormReviewedBy,
		FormReviewedAt:     f.FormReviewedAt,
		FormReviewComments: f.FormReviewComments,
		FormCreatedAt:      f.FormCreatedAt,
		FormFields:         f.FormFields,
		FormDocuments:      f.FormDocuments,
	}
}
