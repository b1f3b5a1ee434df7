// file: internals/features/forms/submissions/service/signing_service_test.go
package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	auditService "izinku_backend/internals/features/audit/service"
	formModel "izinku_backend/internals/features/forms/forms/model"
	subModel "izinku_backend/internals/features/forms/submissions/model"
)

type fakeRecorder struct {
	mu      sync.Mutex
	entries []auditService.Entry
}

func (r *fakeRecorder) Record(_ context.Context, e auditService.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *fakeRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// fakeStore keeps submissions in a map keyed by the composite key and
// serves as both Store and TxStore. InTx is not a real transaction — the
// tests assert call behavior, not rollback mechanics.
type fakeStore struct {
	mu    sync.Mutex
	form  *FormInfo
	links map[[2]uuid.UUID]bool // (parent, student)
	email string

	subs      map[[3]uuid.UUID]*subModel.FormSubmissionModel
	responses map[uuid.UUID][]subModel.FieldResponseModel

	saveErr error // forced SaveSubmission failure, consumed once
}

func newFakeStore(form *FormInfo) *fakeStore {
	return &fakeStore{
		form:      form,
		links:     map[[2]uuid.UUID]bool{},
		subs:      map[[3]uuid.UUID]*subModel.FormSubmissionModel{},
		responses: map[uuid.UUID][]subModel.FieldResponseModel{},
	}
}

func (s *fakeStore) link(parentID, studentID uuid.UUID) {
	s.links[[2]uuid.UUID{parentID, studentID}] = true
}

func (s *fakeStore) FormByID(_ context.Context, formID uuid.UUID) (*FormInfo, error) {
	if s.form == nil || s.form.ID != formID {
		return nil, nil
	}
	cp := *s.form
	return &cp, nil
}

func (s *fakeStore) ParentLinked(_ context.Context, parentID, studentID uuid.UUID) (bool, error) {
	return s.links[[2]uuid.UUID{parentID, studentID}], nil
}

func (s *fakeStore) ParentEmail(_ context.Context, _ uuid.UUID) (string, error) {
	return s.email, nil
}

func (s *fakeStore) InTx(_ context.Context, fn func(tx TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func (s *fakeStore) SubmissionForKey(_ context.Context, formID, parentID, studentID uuid.UUID) (*subModel.FormSubmissionModel, error) {
	sub, ok := s.subs[[3]uuid.UUID{formID, parentID, studentID}]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (s *fakeStore) SaveSubmission(_ context.Context, sub *subModel.FormSubmissionModel) error {
	if s.saveErr != nil {
		err := s.saveErr
		s.saveErr = nil
		return err
	}
	if sub.FormSubmissionID == uuid.Nil {
		sub.FormSubmissionID = uuid.New()
	}
	cp := *sub
	s.subs[[3]uuid.UUID{sub.FormSubmissionFormID, sub.FormSubmissionParentID, sub.FormSubmissionStudentID}] = &cp
	return nil
}

func (s *fakeStore) ReplaceFieldResponses(_ context.Context, submissionID uuid.UUID, rows []subModel.FieldResponseModel) error {
	s.responses[submissionID] = rows
	return nil
}

func newTestService(store *fakeStore, audit *fakeRecorder) *SigningService {
	svc := NewSigningService(store, audit, nil, "http://example.test")
	svc.Now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func activeForm() *FormInfo {
	return &FormInfo{
		ID:       uuid.New(),
		Title:    "Zoo excursion",
		Status:   formModel.FormStatusActive,
		Deadline: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestSignHappyPath(t *testing.T) {
	form := activeForm()
	store := newFakeStore(form)
	audit := &fakeRecorder{}
	svc := newTestService(store, audit)

	parentID, studentID := uuid.New(), uuid.New()
	store.link(parentID, studentID)

	fieldID := uuid.New()
	sub, err := svc.Sign(context.Background(), SignInput{
		FormID:        form.ID,
		ParentID:      parentID,
		StudentID:     studentID,
		SignatureData: "data:image/png;base64,abc",
		Answers:       []Answer{{FieldID: fieldID, Value: "no allergies"}},
		IPAddress:     "203.0.113.7",
	})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if sub.FormSubmissionStatus != subModel.SubmissionStatusSigned {
		t.Fatalf("status = %s, want SIGNED", sub.FormSubmissionStatus)
	}
	if sub.FormSubmissionSignedAt == nil {
		t.Fatal("SignedAt not set")
	}
	if got := store.responses[sub.FormSubmissionID]; len(got) != 1 || got[0].FieldResponseValue != "no allergies" {
		t.Fatalf("field responses = %+v", got)
	}
	if actions := audit.actions(); len(actions) != 1 || actions[0] != auditService.ActionSignatureSubmit {
		t.Fatalf("audit actions = %v", actions)
	}
}

func TestSignPreconditionLadder(t *testing.T) {
	parentID, studentID := uuid.New(), uuid.New()

	cases := []struct {
		name    string
		mutate  func(f *FormInfo, s *fakeStore)
		wantErr error
	}{
		{
			"unknown form",
			func(f *FormInfo, s *fakeStore) { s.form = nil },
			ErrFormNotFound,
		},
		{
			"draft form",
			func(f *FormInfo, s *fakeStore) { f.Status = formModel.FormStatusDraft; s.link(parentID, studentID) },
			ErrFormNotActive,
		},
		{
			"closed form",
			func(f *FormInfo, s *fakeStore) { f.Status = formModel.FormStatusClosed; s.link(parentID, studentID) },
			ErrFormNotActive,
		},
		{
			"deadline passed",
			func(f *FormInfo, s *fakeStore) {
				f.Deadline = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
				s.link(parentID, studentID)
			},
			ErrDeadlinePassed,
		},
		{
			"student not linked",
			func(f *FormInfo, s *fakeStore) {},
			ErrStudentNotLinked,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := activeForm()
			store := newFakeStore(form)
			tc.mutate(form, store)
			svc := newTestService(store, &fakeRecorder{})

			_, err := svc.Sign(context.Background(), SignInput{
				FormID: form.ID, ParentID: parentID, StudentID: studentID, SignatureData: "sig",
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Sign() = %v, want %v", err, tc.wantErr)
			}
			if len(store.subs) != 0 {
				t.Fatal("precondition failure must not persist anything")
			}
		})
	}
}

func TestSignTwiceReturnsAlreadySigned(t *testing.T) {
	form := activeForm()
	store := newFakeStore(form)
	svc := newTestService(store, &fakeRecorder{})

	parentID, studentID := uuid.New(), uuid.New()
	store.link(parentID, studentID)

	in := SignInput{FormID: form.ID, ParentID: parentID, StudentID: studentID, SignatureData: "first"}
	first, err := svc.Sign(context.Background(), in)
	if err != nil {
		t.Fatalf("first Sign(): %v", err)
	}

	in.SignatureData = "second"
	if _, err := svc.Sign(context.Background(), in); !errors.Is(err, ErrAlreadySigned) {
		t.Fatalf("second Sign() = %v, want ErrAlreadySigned", err)
	}

	// The stored signature is untouched.
	kept := store.subs[[3]uuid.UUID{form.ID, parentID, studentID}]
	if kept.FormSubmissionSignatureData != "first" {
		t.Fatalf("signature overwritten: %q", kept.FormSubmissionSignatureData)
	}
	if kept.FormSubmissionID != first.FormSubmissionID {
		t.Fatal("submission replaced instead of kept")
	}
}

func TestSignDuplicateKeyRaceMapsToAlreadySigned(t *testing.T) {
	// Simulates losing the insert race: the row-lock read saw nothing but
	// the unique constraint fired on save.
	form := activeForm()
	store := newFakeStore(form)
	store.saveErr = errDuplicateKey
	svc := newTestService(store, &fakeRecorder{})

	parentID, studentID := uuid.New(), uuid.New()
	store.link(parentID, studentID)

	_, err := svc.Sign(context.Background(), SignInput{
		FormID: form.ID, ParentID: parentID, StudentID: studentID, SignatureData: "sig",
	})
	if !errors.Is(err, ErrAlreadySigned) {
		t.Fatalf("Sign() = %v, want ErrAlreadySigned", err)
	}
}

func TestSignOverwritesPendingSubmission(t *testing.T) {
	// Distribution pre-creates a PENDING row; signing fills it in rather
	// than inserting a second one.
	form := activeForm()
	store := newFakeStore(form)
	svc := newTestService(store, &fakeRecorder{})

	parentID, studentID := uuid.New(), uuid.New()
	store.link(parentID, studentID)
	pendingID := uuid.New()
	store.subs[[3]uuid.UUID{form.ID, parentID, studentID}] = &subModel.FormSubmissionModel{
		FormSubmissionID:        pendingID,
		FormSubmissionFormID:    form.ID,
		FormSubmissionParentID:  parentID,
		FormSubmissionStudentID: studentID,
		FormSubmissionStatus:    subModel.SubmissionStatusPending,
	}

	sub, err := svc.Sign(context.Background(), SignInput{
		FormID: form.ID, ParentID: parentID, StudentID: studentID, SignatureData: "sig",
	})
	if err != nil {
		t.Fatalf("Sign(): %v", err)
	}
	if sub.FormSubmissionID != pendingID {
		t.Fatal("new row created instead of updating the PENDING one")
	}
	if len(store.subs) != 1 {
		t.Fatalf("submissions = %d, want 1", len(store.subs))
	}
}

func TestDeclineRecordsDeclinedStatus(t *testing.T) {
	form := activeForm()
	store := newFakeStore(form)
	audit := &fakeRecorder{}
	svc := newTestService(store, audit)

	parentID, studentID := uuid.New(), uuid.New()
	store.link(parentID, studentID)

	sub, err := svc.Decline(context.Background(), SignInput{
		FormID: form.ID, ParentID: parentID, StudentID: studentID, SignatureData: "sig",
	})
	if err != nil {
		t.Fatalf("Decline(): %v", err)
	}
	if sub.FormSubmissionStatus != subModel.SubmissionStatusDeclined {
		t.Fatalf("status = %s, want DECLINED", sub.FormSubmissionStatus)
	}
	// A decline is not a signature: no signature artifacts on the row.
	if sub.FormSubmissionSignatureData != "" {
		t.Fatalf("signature_data = %q, want empty on decline", sub.FormSubmissionSignatureData)
	}
	if sub.FormSubmissionSignedAt != nil {
		t.Fatalf("signed_at = %v, want nil on decline", sub.FormSubmissionSignedAt)
	}
	if actions := audit.actions(); len(actions) != 1 || actions[0] != auditService.ActionSignatureDecline {
		t.Fatalf("audit actions = %v", actions)
	}

	// A DECLINED decision may still be replaced by a signature.
	signed, err := svc.Sign(context.Background(), SignInput{
		FormID: form.ID, ParentID: parentID, StudentID: studentID, SignatureData: "changed my mind",
	})
	if err != nil {
		t.Fatalf("Sign() after Decline(): %v", err)
	}
	if signed.FormSubmissionStatus != subModel.SubmissionStatusSigned {
		t.Fatalf("status = %s, want SIGNED", signed.FormSubmissionStatus)
	}
	if signed.FormSubmissionSignedAt == nil || signed.FormSubmissionSignatureData != "changed my mind" {
		t.Fatalf("signature artifacts missing after re-sign: data=%q signed_at=%v",
			signed.FormSubmissionSignatureData, signed.FormSubmissionSignedAt)
	}
}
