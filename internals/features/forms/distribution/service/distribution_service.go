// file: internals/features/forms/distribution/service/distribution_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	auditService "izinku_backend/internals/features/audit/service"
	formModel "izinku_backend/internals/features/forms/forms/model"
	formService "izinku_backend/internals/features/forms/forms/service"
	subModel "izinku_backend/internals/features/forms/submissions/model"
	"izinku_backend/internals/helpers/mailer"
)

var (
	ErrFormNotFound = errors.New("form not found")

	// ErrFormClosed: distribution starts only from DRAFT or ACTIVE.
	ErrFormClosed = errors.New("form is closed")

	// ErrReviewNotApproved: the form requires review and has not been approved.
	ErrReviewNotApproved = errors.New("form review is not approved")

	// The two empty-target failures are distinct so the caller can present
	// an actionable remedy: add students vs link parents.
	ErrNoStudentsInSchool    = errors.New("no students in this school")
	ErrNoStudentsWithParents = errors.New("no students have a linked parent")
)

// Pair is one (student, parent) target produced by the snapshot query.
type Pair struct {
	StudentID   uuid.UUID
	StudentName string
	ParentID    uuid.UUID
	ParentName  string
	ParentEmail string
}

// Store is the transactional boundary of the engine; the gorm adapter lives
// in store_gorm.go.
type Store interface {
	InTx(ctx context.Context, fn func(tx TxStore) error) error
}

type TxStore interface {
	FormForUpdate(ctx context.Context, formID uuid.UUID) (*formModel.FormModel, error)
	SaveFormStatus(ctx context.Context, formID uuid.UUID, status string) error

	// CountStudents counts students in scope regardless of parent links —
	// used to tell the two empty-target failures apart.
	CountStudents(ctx context.Context, schoolID *uuid.UUID, groupIDs []uuid.UUID) (int64, error)

	// TargetPairs snapshots every (student, parent) pair in scope.
	TargetPairs(ctx context.Context, schoolID *uuid.UUID, groupIDs []uuid.UUID) ([]Pair, error)

	// InsertPendingSubmissions inserts PENDING rows, silently skipping
	// keys that already exist (never touching them), and reports how many
	// were actually created.
	InsertPendingSubmissions(ctx context.Context, rows []subModel.FormSubmissionModel) (int64, error)
}

type Result struct {
	SubmissionsCreated int      `json:"submissions_created"`
	EmailsSent         []string `json:"emails_sent"`
	EmailErrors        []string `json:"email_errors"`
}

type Engine struct {
	Store     Store
	Audit     auditService.Recorder
	Mailer    mailer.Mailer
	BaseURL   string
	BatchSize int
	Now       func() time.Time
}

func NewEngine(store Store, audit auditService.Recorder, m mailer.Mailer, baseURL string) *Engine {
	return &Engine{
		Store:     store,
		Audit:     audit,
		Mailer:    m,
		BaseURL:   baseURL,
		BatchSize: mailer.DefaultBatchSize,
		Now:       time.Now,
	}
}

// Distribute materializes one PENDING submission per (student, parent) pair
// and notifies each parent. Steps 1–4 (status flip + snapshot + upserts) run
// in one transaction; the mail fan-out runs after commit and is best-effort.
func (e *Engine) Distribute(ctx context.Context, formID uuid.UUID, groupIDs []uuid.UUID, actorID uuid.UUID, ip string) (*Result, error) {
	var (
		form    *formModel.FormModel
		pairs   []Pair
		created int64
	)

	err := e.Store.InTx(ctx, func(tx TxStore) error {
		var err error
		form, err = tx.FormForUpdate(ctx, formID)
		if err != nil {
			return err
		}
		if form == nil {
			return ErrFormNotFound
		}
		if form.FormStatus == formModel.FormStatusClosed {
			return ErrFormClosed
		}
		if form.FormRequiresReview &&
			(form.FormReviewStatus == nil || *form.FormReviewStatus != formModel.ReviewStatusApproved) {
			return ErrReviewNotApproved
		}

		if form.FormStatus == formModel.FormStatusDraft {
			if err := formService.ApplyTransition(form, formModel.FormStatusActive, e.Now()); err != nil {
				return err
			}
			if err := tx.SaveFormStatus(ctx, form.FormID, form.FormStatus); err != nil {
				return err
			}
		}

		pairs, err = tx.TargetPairs(ctx, form.FormSchoolID, groupIDs)
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			n, err := tx.CountStudents(ctx, form.FormSchoolID, groupIDs)
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrNoStudentsInSchool
			}
			return ErrNoStudentsWithParents
		}

		rows := make([]subModel.FormSubmissionModel, 0, len(pairs))
		for _, p := range pairs {
			rows = append(rows, subModel.FormSubmissionModel{
				FormSubmissionFormID:    form.FormID,
				FormSubmissionParentID:  p.ParentID,
				FormSubmissionStudentID: p.StudentID,
				FormSubmissionStatus:    subModel.SubmissionStatusPending,
			})
		}
		created, err = tx.InsertPendingSubmissions(ctx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		SubmissionsCreated: int(created),
		EmailsSent:         []string{},
		EmailErrors:        []string{},
	}

	// Outside the transaction: best-effort notification, one mail per
	// distinct parent, children grouped.
	if e.Mailer != nil {
		msgs := buildParentMessages(GroupByParent(pairs), form.FormTitle, e.BaseURL, form.FormID)
		for _, r := range mailer.SendInBatches(ctx, e.Mailer, msgs, e.BatchSize) {
			if r.Err != nil {
				result.EmailErrors = append(result.EmailErrors, r.To)
			} else {
				result.EmailsSent = append(result.EmailsSent, r.To)
			}
		}
	}

	e.Audit.Record(ctx, auditService.Entry{
		Action:       auditService.ActionFormDistribute,
		ActorID:      &actorID,
		ResourceType: "form",
		ResourceID:   &formID,
		Metadata: map[string]any{
			"submissions_created": result.SubmissionsCreated,
			"emails_sent":         len(result.EmailsSent),
			"email_errors":        len(result.EmailErrors),
		},
		IPAddress: ip,
	})
	return result, nil
}

// ParentTarget is one parent with every student of theirs in the target set.
type ParentTarget struct {
	ParentID     uuid.UUID
	ParentName   string
	ParentEmail  string
	StudentNames []string
}

// GroupByParent collapses pairs so each parent gets exactly one notification
// listing all of their students, in stable order.
func GroupByParent(pairs []Pair) []ParentTarget {
	byParent := map[uuid.UUID]*ParentTarget{}
	order := []uuid.UUID{}
	for _, p := range pairs {
		t, ok := byParent[p.ParentID]
		if !ok {
			t = &ParentTarget{
				ParentID:    p.ParentID,
				ParentName:  p.ParentName,
				ParentEmail: p.ParentEmail,
			}
			byParent[p.ParentID] = t
			order = append(order, p.ParentID)
		}
		t.StudentNames = append(t.StudentNames, p.StudentName)
	}
	out := make([]ParentTarget, 0, len(order))
	for _, id := range order {
		t := byParent[id]
		sort.Strings(t.StudentNames)
		out = append(out, *t)
	}
	return out
}

func buildParentMessages(targets []ParentTarget, formTitle, baseURL string, formID uuid.UUID) []mailer.Message {
	msgs := make([]mailer.Message, 0, len(targets))
	link := fmt.Sprintf("%s/api/u/forms/%s", baseURL, formID)
	for _, t := range targets {
		msgs = append(msgs, mailer.Message{
			To:      t.ParentEmail,
			Subject: fmt.Sprintf("Permission slip: %s", formTitle),
			HTML: fmt.Sprintf(
				"<p>Hi %s,</p><p>A permission slip <b>%s</b> needs your signature for: %s.</p><p><a href=%q>Open the form</a></p>",
				t.ParentName, formTitle, strings.Join(t.StudentNames, ", "), link,
			),
		})
	}
	return msgs
}
