// file: internals/features/forms/distribution/service/distribution_service_test.go
package service

import (
	"context"
	"errors"
	"strings"
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

type fakeMailer struct {
	mu     sync.Mutex
	sent   []string
	failTo map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[to] {
		return errors.New("smtp refused")
	}
	m.sent = append(m.sent, to)
	return nil
}

// fakeEngineStore serves both Store and TxStore, keeping submissions keyed
// by (form, parent, student) so repeated Distribute calls exercise the
// insert-if-absent behavior.
type fakeEngineStore struct {
	form         *formModel.FormModel
	pairs        []Pair
	studentCount int64

	saved map[[3]uuid.UUID]bool
}

func newFakeEngineStore(form *formModel.FormModel, pairs []Pair, studentCount int64) *fakeEngineStore {
	return &fakeEngineStore{form: form, pairs: pairs, studentCount: studentCount, saved: map[[3]uuid.UUID]bool{}}
}

func (s *fakeEngineStore) InTx(_ context.Context, fn func(tx TxStore) error) error { return fn(s) }

func (s *fakeEngineStore) FormForUpdate(_ context.Context, formID uuid.UUID) (*formModel.FormModel, error) {
	if s.form == nil || s.form.FormID != formID {
		return nil, nil
	}
	return s.form, nil
}

func (s *fakeEngineStore) SaveFormStatus(_ context.Context, _ uuid.UUID, status string) error {
	s.form.FormStatus = status
	return nil
}

func (s *fakeEngineStore) CountStudents(_ context.Context, _ *uuid.UUID, _ []uuid.UUID) (int64, error) {
	return s.studentCount, nil
}

func (s *fakeEngineStore) TargetPairs(_ context.Context, _ *uuid.UUID, _ []uuid.UUID) ([]Pair, error) {
	return s.pairs, nil
}

func (s *fakeEngineStore) InsertPendingSubmissions(_ context.Context, rows []subModel.FormSubmissionModel) (int64, error) {
	var created int64
	for _, r := range rows {
		key := [3]uuid.UUID{r.FormSubmissionFormID, r.FormSubmissionParentID, r.FormSubmissionStudentID}
		if s.saved[key] {
			continue // existing key is never touched
		}
		s.saved[key] = true
		created++
	}
	return created, nil
}

func newTestEngine(store *fakeEngineStore, m *fakeMailer) *Engine {
	e := NewEngine(store, &fakeRecorder{}, m, "http://example.test")
	e.Now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return e
}

func draftForm(schoolID uuid.UUID) *formModel.FormModel {
	return &formModel.FormModel{
		FormID:        uuid.New(),
		FormSchoolID:  &schoolID,
		FormTeacherID: uuid.New(),
		FormTitle:     "Museum trip",
		FormStatus:    formModel.FormStatusDraft,
		FormEventDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		FormDeadline:  time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC),
	}
}

func somePairs() []Pair {
	parentA, parentB := uuid.New(), uuid.New()
	return []Pair{
		{StudentID: uuid.New(), StudentName: "Budi", ParentID: parentA, ParentName: "Ani", ParentEmail: "ani@example.test"},
		{StudentID: uuid.New(), StudentName: "Citra", ParentID: parentA, ParentName: "Ani", ParentEmail: "ani@example.test"},
		{StudentID: uuid.New(), StudentName: "Dewi", ParentID: parentB, ParentName: "Rudi", ParentEmail: "rudi@example.test"},
	}
}

func TestDistributeActivatesAndCreatesSubmissions(t *testing.T) {
	form := draftForm(uuid.New())
	pairs := somePairs()
	store := newFakeEngineStore(form, pairs, 3)
	mail := &fakeMailer{}
	engine := newTestEngine(store, mail)

	res, err := engine.Distribute(context.Background(), form.FormID, nil, uuid.New(), "203.0.113.9")
	if err != nil {
		t.Fatalf("Distribute(): %v", err)
	}
	if form.FormStatus != formModel.FormStatusActive {
		t.Fatalf("form status = %s, want ACTIVE", form.FormStatus)
	}
	if res.SubmissionsCreated != 3 {
		t.Fatalf("SubmissionsCreated = %d, want 3", res.SubmissionsCreated)
	}
	// One mail per distinct parent, not per pair.
	if len(res.EmailsSent) != 2 {
		t.Fatalf("EmailsSent = %v, want 2 parents", res.EmailsSent)
	}
}

func TestDistributeIsIdempotent(t *testing.T) {
	form := draftForm(uuid.New())
	store := newFakeEngineStore(form, somePairs(), 3)
	engine := newTestEngine(store, &fakeMailer{})

	if _, err := engine.Distribute(context.Background(), form.FormID, nil, uuid.New(), ""); err != nil {
		t.Fatalf("first Distribute(): %v", err)
	}
	res, err := engine.Distribute(context.Background(), form.FormID, nil, uuid.New(), "")
	if err != nil {
		t.Fatalf("second Distribute(): %v", err)
	}
	if res.SubmissionsCreated != 0 {
		t.Fatalf("second run created %d submissions, want 0", res.SubmissionsCreated)
	}
	if form.FormStatus != formModel.FormStatusActive {
		t.Fatalf("form status = %s, want ACTIVE", form.FormStatus)
	}
}

func TestDistributeEmptyTargets(t *testing.T) {
	t.Run("no students at all", func(t *testing.T) {
		form := draftForm(uuid.New())
		store := newFakeEngineStore(form, nil, 0)
		engine := newTestEngine(store, &fakeMailer{})

		_, err := engine.Distribute(context.Background(), form.FormID, nil, uuid.New(), "")
		if !errors.Is(err, ErrNoStudentsInSchool) {
			t.Fatalf("Distribute() = %v, want ErrNoStudentsInSchool", err)
		}
	})
	t.Run("students without parents", func(t *testing.T) {
		form := draftForm(uuid.New())
		store := newFakeEngineStore(form, nil, 12)
		engine := newTestEngine(store, &fakeMailer{})

		_, err := engine.Distribute(context.Background(), form.FormID, nil, uuid.New(), "")
		if !errors.Is(err, ErrNoStudentsWithParents) {
			t.Fatalf("Distribute() = %v, want ErrNoStudentsWithParents", err)
		}
	})
}

func TestDistributeGates(t *testing.T) {
	t.Run("closed form", func(t *testing.T) {
		form := draftForm(uuid.New())
		form.FormStatus = formModel.FormStatusClosed
		engine := newTestEngine(newFakeEngineStore(form, somePairs(), 3), &fakeMailer{})

		if _, err := engine.Distribute(context.Background(), form.FormID, nil, uuid.New(), ""); !errors.Is(err, ErrFormClosed) {
			t.Fatalf("Distribute() = %v, want ErrFormClosed", err)
		}
	})
	t.Run("review required but not approved", func(t *testing.T) {
		form := draftForm(uuid.New())
		form.FormRequiresReview = true
		pending := formModel.ReviewStatusPending
		form.FormReviewStatus = &pending
		engine := newTestEngine(newFakeEngineStore(form, somePairs(), 3), &fakeMailer{})

		if _, err := engine.Distribute(context.Background(), form.FormID, nil, uuid.New(), ""); !errors.Is(err, ErrReviewNotApproved) {
			t.Fatalf("Distribute() = %v, want ErrReviewNotApproved", err)
		}
	})
	t.Run("review approved passes", func(t *testing.T) {
		form := draftForm(uuid.New())
		form.FormRequiresReview = true
		approved := formModel.ReviewStatusApproved
		form.FormReviewStatus = &approved
		engine := newTestEngine(newFakeEngineStore(form, somePairs(), 3), &fakeMailer{})

		if _, err := engine.Distribute(context.Background(), form.FormID, nil, uuid.New(), ""); err != nil {
			t.Fatalf("Distribute(): %v", err)
		}
	})
	t.Run("unknown form", func(t *testing.T) {
		engine := newTestEngine(newFakeEngineStore(nil, nil, 0), &fakeMailer{})
		if _, err := engine.Distribute(context.Background(), uuid.New(), nil, uuid.New(), ""); !errors.Is(err, ErrFormNotFound) {
			t.Fatalf("Distribute() = %v, want ErrFormNotFound", err)
		}
	})
}

func TestDistributeToleratesMailFailures(t *testing.T) {
	form := draftForm(uuid.New())
	pairs := somePairs()
	store := newFakeEngineStore(form, pairs, 3)
	mail := &fakeMailer{failTo: map[string]bool{"ani@example.test": true}}
	engine := newTestEngine(store, mail)

	res, err := engine.Distribute(context.Background(), form.FormID, nil, uuid.New(), "")
	if err != nil {
		t.Fatalf("Distribute(): %v", err)
	}
	if res.SubmissionsCreated != 3 {
		t.Fatalf("SubmissionsCreated = %d, want 3 despite mail failure", res.SubmissionsCreated)
	}
	if len(res.EmailErrors) != 1 || res.EmailErrors[0] != "ani@example.test" {
		t.Fatalf("EmailErrors = %v", res.EmailErrors)
	}
	if len(res.EmailsSent) != 1 || res.EmailsSent[0] != "rudi@example.test" {
		t.Fatalf("EmailsSent = %v", res.EmailsSent)
	}
}

func TestGroupByParent(t *testing.T) {
	parentA, parentB := uuid.New(), uuid.New()
	pairs := []Pair{
		{StudentName: "Zaki", ParentID: parentA, ParentName: "Ani", ParentEmail: "ani@example.test"},
		{StudentName: "Budi", ParentID: parentB, ParentName: "Rudi", ParentEmail: "rudi@example.test"},
		{StudentName: "Ayu", ParentID: parentA, ParentName: "Ani", ParentEmail: "ani@example.test"},
	}

	targets := GroupByParent(pairs)
	if len(targets) != 2 {
		t.Fatalf("targets = %d, want 2", len(targets))
	}
	// First-seen parent order is preserved; student names are sorted.
	if targets[0].ParentID != parentA || targets[1].ParentID != parentB {
		t.Fatal("parent order not preserved")
	}
	if got := strings.Join(targets[0].StudentNames, ","); got != "Ayu,Zaki" {
		t.Fatalf("student names = %q, want sorted", got)
	}
	if len(targets[1].StudentNames) != 1 || targets[1].StudentNames[0] != "Budi" {
		t.Fatalf("second target students = %v", targets[1].StudentNames)
	}

	if GroupByParent(nil) == nil {
		// empty input yields an empty, non-nil slice
		t.Fatal("GroupByParent(nil) returned nil")
	}
}
