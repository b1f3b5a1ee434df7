// file: internals/features/forms/submissions/service/store_gorm.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	subModel "izinku_backend/internals/features/forms/submissions/model"
)

// GormStore backs the signing transaction with the relational store.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

func (s *GormStore) FormByID(ctx context.Context, formID uuid.UUID) (*FormInfo, error) {
	var row struct {
		FormID       uuid.UUID `gorm:"column:form_id"`
		FormTitle    string    `gorm:"column:form_title"`
		FormStatus   string    `gorm:"column:form_status"`
		FormDeadline time.Time `gorm:"column:form_deadline"`
	}
	err := s.DB.WithContext(ctx).Table("forms").
		Select("form_id, form_title, form_status, form_deadline").
		Where("form_id = ? AND form_deleted_at IS NULL", formID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &FormInfo{
		ID:       row.FormID,
		Title:    row.FormTitle,
		Status:   row.FormStatus,
		Deadline: row.FormDeadline,
	}, nil
}

func (s *GormStore) ParentLinked(ctx context.Context, parentID, studentID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Table("parent_links").
		Where("parent_link_parent_id = ? AND parent_link_student_id = ?", parentID, studentID).
		Count(&n).Error
	return n > 0, err
}

func (s *GormStore) ParentEmail(ctx context.Context, parentID uuid.UUID) (string, error) {
	var email string
	err := s.DB.WithContext(ctx).Table("users").
		Select("user_email").
		Where("user_id = ? AND user_deleted_at IS NULL", parentID).
		Take(&email).Error
	return email, err
}

func (s *GormStore) InTx(ctx context.Context, fn func(tx TxStore) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxStore{tx: tx})
	})
}

type gormTxStore struct {
	tx *gorm.DB
}

func (t *gormTxStore) SubmissionForKey(ctx context.Context, formID, parentID, studentID uuid.UUID) (*subModel.FormSubmissionModel, error) {
	var sub subModel.FormSubmissionModel
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("form_submission_form_id = ? AND form_submission_parent_id = ? AND form_submission_student_id = ?",
			formID, parentID, studentID).
		Take(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (t *gormTxStore) SaveSubmission(ctx context.Context, sub *subModel.FormSubmissionModel) error {
	if err := t.tx.WithContext(ctx).Save(sub).Error; err != nil {
		if isUniqueViolation(err) {
			return errDuplicateKey
		}
		return err
	}
	return nil
}

func (t *gormTxStore) ReplaceFieldResponses(ctx context.Context, submissionID uuid.UUID, rows []subModel.FieldResponseModel) error {
	if err := t.tx.WithContext(ctx).
		Where("field_response_submission_id = ?", submissionID).
		Delete(&subModel.FieldResponseModel{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return t.tx.WithContext(ctx).Create(&rows).Error
}

// isUniqueViolation matches Postgres 23505 without binding to driver types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key value")
}
