// file: internals/features/forms/distribution/service/store_gorm.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	formModel "izinku_backend/internals/features/forms/forms/model"
	subModel "izinku_backend/internals/features/forms/submissions/model"
)

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

func (s *GormStore) InTx(ctx context.Context, fn func(tx TxStore) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxStore{tx: tx})
	})
}

type gormTxStore struct {
	tx *gorm.DB
}

func (t *gormTxStore) FormForUpdate(ctx context.Context, formID uuid.UUID) (*formModel.FormModel, error) {
	var form formModel.FormModel
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("form_id = ?", formID).
		Take(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (t *gormTxStore) SaveFormStatus(ctx context.Context, formID uuid.UUID, status string) error {
	return t.tx.WithContext(ctx).Model(&formModel.FormModel{}).
		Where("form_id = ?", formID).
		Update("form_status", status).Error
}

func (t *gormTxStore) scopeStudents(q *gorm.DB, schoolID *uuid.UUID, groupIDs []uuid.UUID) *gorm.DB {
	if schoolID != nil {
		q = q.Where("s.student_school_id = ?", *schoolID)
	}
	if len(groupIDs) > 0 {
		q = q.Where(
			"s.student_id IN (SELECT student_group_member_student_id FROM student_group_members WHERE student_group_member_group_id IN ?)",
			groupIDs,
		)
	}
	return q
}

func (t *gormTxStore) CountStudents(ctx context.Context, schoolID *uuid.UUID, groupIDs []uuid.UUID) (int64, error) {
	var n int64
	q := t.tx.WithContext(ctx).Table("students s").
		Where("s.student_deleted_at IS NULL")
	err := t.scopeStudents(q, schoolID, groupIDs).Count(&n).Error
	return n, err
}

func (t *gormTxStore) TargetPairs(ctx context.Context, schoolID *uuid.UUID, groupIDs []uuid.UUID) ([]Pair, error) {
	var rows []struct {
		StudentID   uuid.UUID `gorm:"column:student_id"`
		StudentName string    `gorm:"column:student_name"`
		ParentID    uuid.UUID `gorm:"column:parent_id"`
		ParentName  string    `gorm:"column:parent_name"`
		ParentEmail string    `gorm:"column:parent_email"`
	}
	q := t.tx.WithContext(ctx).Table("students s").
		Select(`s.student_id AS student_id,
			s.student_full_name AS student_name,
			u.user_id AS parent_id,
			u.user_full_name AS parent_name,
			u.user_email AS parent_email`).
		Joins("JOIN parent_links pl ON pl.parent_link_student_id = s.student_id").
		Joins("JOIN users u ON u.user_id = pl.parent_link_parent_id AND u.user_deleted_at IS NULL").
		Where("s.student_deleted_at IS NULL")
	q = t.scopeStudents(q, schoolID, groupIDs)
	if err := q.Order("s.student_full_name, u.user_email").Scan(&rows).Error; err != nil {
		return nil, err
	}
	pairs := make([]Pair, 0, len(rows))
	for _, r := range rows {
		pairs = append(pairs, Pair{
			StudentID:   r.StudentID,
			StudentName: r.StudentName,
			ParentID:    r.ParentID,
			ParentName:  r.ParentName,
			ParentEmail: r.ParentEmail,
		})
	}
	return pairs, nil
}

func (t *gormTxStore) InsertPendingSubmissions(ctx context.Context, rows []subModel.FormSubmissionModel) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	// DoNothing on the composite key: an existing submission (PENDING,
	// SIGNED or DECLINED) is never touched — distribution is idempotent.
	res := t.tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "form_submission_form_id"},
				{Name: "form_submission_parent_id"},
				{Name: "form_submission_student_id"},
			},
			DoNothing: true,
		}).
		Create(&rows)
	return res.RowsAffected, res.Error
}
