// file: internals/features/forms/submissions/service/signing_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	auditService "izinku_backend/internals/features/audit/service"
	formModel "izinku_backend/internals/features/forms/forms/model"
	subModel "izinku_backend/internals/features/forms/submissions/model"
	"izinku_backend/internals/helpers/mailer"
)

// Failure ladder of the signing preconditions — each one is distinct so the
// handler can answer with the right sub-code.
var (
	ErrFormNotFound     = errors.New("form not found")
	ErrFormNotActive    = errors.New("form is not active")
	ErrDeadlinePassed   = errors.New("signing deadline has passed")
	ErrStudentNotLinked = errors.New("student is not linked to this parent")
	ErrAlreadySigned    = errors.New("submission already signed")

	// errDuplicateKey is the store-level backstop signal: the unique
	// constraint on (form_id, parent_id, student_id) fired.
	errDuplicateKey = errors.New("duplicate submission key")
)

// FormInfo is the slice of the form the signing path needs.
type FormInfo struct {
	ID       uuid.UUID
	Title    string
	Status   string
	Deadline time.Time
}

type Answer struct {
	FieldID uuid.UUID
	Value   string
}

type SignInput struct {
	FormID        uuid.UUID
	ParentID      uuid.UUID
	StudentID     uuid.UUID
	SignatureData string
	Answers       []Answer
	IPAddress     string
	UserAgent     string
}

// Store is the persistence boundary of the signing transaction. The gorm
// adapter lives in store_gorm.go; tests use a fake.
type Store interface {
	FormByID(ctx context.Context, formID uuid.UUID) (*FormInfo, error)
	ParentLinked(ctx context.Context, parentID, studentID uuid.UUID) (bool, error)
	ParentEmail(ctx context.Context, parentID uuid.UUID) (string, error)

	// InTx runs fn inside one database transaction; any error rolls the
	// whole transaction back.
	InTx(ctx context.Context, fn func(tx TxStore) error) error
}

type TxStore interface {
	// SubmissionForKey reads (and row-locks) the submission for the
	// composite key; (nil, nil) when absent.
	SubmissionForKey(ctx context.Context, formID, parentID, studentID uuid.UUID) (*subModel.FormSubmissionModel, error)

	// SaveSubmission creates or updates. A concurrent insert on the same
	// key surfaces as errDuplicateKey (via IsDuplicateKey).
	SaveSubmission(ctx context.Context, sub *subModel.FormSubmissionModel) error

	// ReplaceFieldResponses deletes every existing response row for the
	// submission and inserts the given ones.
	ReplaceFieldResponses(ctx context.Context, submissionID uuid.UUID, rows []subModel.FieldResponseModel) error
}

func IsDuplicateKey(err error) bool { return errors.Is(err, errDuplicateKey) }

type SigningService struct {
	Store   Store
	Audit   auditService.Recorder
	Mailer  mailer.Mailer
	BaseURL string
	Now     func() time.Time
}

func NewSigningService(store Store, audit auditService.Recorder, m mailer.Mailer, baseURL string) *SigningService {
	return &SigningService{Store: store, Audit: audit, Mailer: m, BaseURL: baseURL, Now: time.Now}
}

// Sign records the parent's signature for one child exactly once, atomically
// with the custom field answers.
func (s *SigningService) Sign(ctx context.Context, in SignInput) (*subModel.FormSubmissionModel, error) {
	return s.submit(ctx, in, subModel.SubmissionStatusSigned)
}

// Decline records a DECLINED decision through the same ladder and transaction.
func (s *SigningService) Decline(ctx context.Context, in SignInput) (*subModel.FormSubmissionModel, error) {
	return s.submit(ctx, in, subModel.SubmissionStatusDeclined)
}

func (s *SigningService) submit(ctx context.Context, in SignInput, status string) (*subModel.FormSubmissionModel, error) {
	now := s.Now()

	// Precondition ladder — checked in order, before any mutation.
	form, err := s.Store.FormByID(ctx, in.FormID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	if form.Status != formModel.FormStatusActive {
		return nil, ErrFormNotActive
	}
	if now.After(form.Deadline) {
		return nil, ErrDeadlinePassed
	}
	linked, err := s.Store.ParentLinked(ctx, in.ParentID, in.StudentID)
	if err != nil {
		return nil, err
	}
	if !linked {
		return nil, ErrStudentNotLinked
	}

	var result *subModel.FormSubmissionModel
	err = s.Store.InTx(ctx, func(tx TxStore) error {
		sub, err := tx.SubmissionForKey(ctx, in.FormID, in.ParentID, in.StudentID)
		if err != nil {
			return err
		}
		if sub != nil && sub.FormSubmissionStatus == subModel.SubmissionStatusSigned {
			// Never overwrite a prior signature.
			return ErrAlreadySigned
		}
		if sub == nil {
			sub = &subModel.FormSubmissionModel{
				FormSubmissionFormID:    in.FormID,
				FormSubmissionParentID:  in.ParentID,
				FormSubmissionStudentID: in.StudentID,
			}
		}
		sub.FormSubmissionStatus = status
		// signature_data and signed_at are signature artifacts; a decline
		// carries neither.
		if status == subModel.SubmissionStatusSigned {
			sub.FormSubmissionSignatureData = in.SignatureData
			sub.FormSubmissionSignedAt = &now
		} else {
			sub.FormSubmissionSignatureData = ""
			sub.FormSubmissionSignedAt = nil
		}
		ip := in.IPAddress
		sub.FormSubmissionIPAddress = &ip

		if err := tx.SaveSubmission(ctx, sub); err != nil {
			if IsDuplicateKey(err) {
				// Lost the race against a concurrent submit on the
				// same key: exactly one wins, the rest see this.
				return ErrAlreadySigned
			}
			return err
		}

		rows := make([]subModel.FieldResponseModel, 0, len(in.Answers))
		for _, a := range in.Answers {
			rows = append(rows, subModel.FieldResponseModel{
				FieldResponseSubmissionID: sub.FormSubmissionID,
				FieldResponseFieldID:      a.FieldID,
				FieldResponseValue:        a.Value,
			})
		}
		if err := tx.ReplaceFieldResponses(ctx, sub.FormSubmissionID, rows); err != nil {
			return err
		}
		result = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit, best effort: neither the audit write nor the mail may
	// undo the recorded signature.
	s.afterSubmit(ctx, in, form, result, status)
	return result, nil
}

func (s *SigningService) afterSubmit(ctx context.Context, in SignInput, form *FormInfo, sub *subModel.FormSubmissionModel, status string) {
	action := auditService.ActionSignatureSubmit
	if status == subModel.SubmissionStatusDeclined {
		action = auditService.ActionSignatureDecline
	}
	parentID := in.ParentID
	subID := sub.FormSubmissionID
	s.Audit.Record(ctx, auditService.Entry{
		Action:       action,
		ActorID:      &parentID,
		ResourceType: "form_submission",
		ResourceID:   &subID,
		Metadata: map[string]any{
			"form_id":    in.FormID.String(),
			"student_id": in.StudentID.String(),
			"status":     status,
		},
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
	})

	if status != subModel.SubmissionStatusSigned || s.Mailer == nil {
		return
	}
	email, err := s.Store.ParentEmail(ctx, in.ParentID)
	if err != nil || strings.TrimSpace(email) == "" {
		log.Printf("[SIGN][WARN] confirmation mail skipped, no parent email: %v", err)
		return
	}
	link := fmt.Sprintf("%s/api/u/submissions/%s/pdf", s.BaseURL, sub.FormSubmissionID)
	subject := fmt.Sprintf("Signed: %s", form.Title)
	html := fmt.Sprintf(
		"<p>Your signature for <b>%s</b> has been recorded.</p><p><a href=%q>Download the signed document</a></p>",
		form.Title, link,
	)
	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.Mailer.Send(bg, email, subject, html); err != nil {
			log.Printf("[SIGN][WARN] confirmation mail failed to=%s err=%v", email, err)
		}
	}()
}
