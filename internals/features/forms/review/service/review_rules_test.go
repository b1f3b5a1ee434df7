// file: internals/features/forms/review/service/review_rules_test.go
package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	formModel "izinku_backend/internals/features/forms/forms/model"
)

func strPtr(s string) *string { return &s }

func TestValidateReviewable(t *testing.T) {
	cases := []struct {
		name    string
		status  *string
		wantErr error
	}{
		{"pending review", strPtr(formModel.ReviewStatusPending), nil},
		{"revision needed", strPtr(formModel.ReviewStatusRevisionNeeded), nil},
		{"already approved", strPtr(formModel.ReviewStatusApproved), ErrInvalidReviewState},
		{"never submitted", nil, ErrInvalidReviewState},
		{"garbage status", strPtr("WHATEVER"), ErrInvalidReviewState},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateReviewable(tc.status); !errors.Is(err, tc.wantErr) {
				t.Fatalf("ValidateReviewable() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateRevisionComments(t *testing.T) {
	if err := ValidateRevisionComments("please fix the deadline"); err != nil {
		t.Fatalf("non-empty comments rejected: %v", err)
	}
	for _, c := range []string{"", "   ", "\t\n"} {
		if err := ValidateRevisionComments(c); !errors.Is(err, ErrCommentsRequired) {
			t.Fatalf("ValidateRevisionComments(%q) = %v, want ErrCommentsRequired", c, err)
		}
	}
}

func TestSameSchool(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	cases := []struct {
		name     string
		reviewer *uuid.UUID
		form     *uuid.UUID
		want     bool
	}{
		{"same school", &a, &a, true},
		{"different schools", &a, &b, false},
		{"reviewer without school", nil, &a, false},
		{"form without school", &a, nil, false},
		{"both nil", nil, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SameSchool(tc.reviewer, tc.form); got != tc.want {
				t.Fatalf("SameSchool() = %v, want %v", got, tc.want)
			}
		})
	}
}
