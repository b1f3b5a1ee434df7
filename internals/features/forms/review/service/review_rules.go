// file: internals/features/forms/review/service/review_rules.go
package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	formModel "izinku_backend/internals/features/forms/forms/model"
)

var (
	// ErrInvalidReviewState: the form is not awaiting review (approved,
	// never submitted, or review not required at all).
	ErrInvalidReviewState = errors.New("form is not awaiting review")

	// ErrCommentsRequired: a revision request without comments.
	ErrCommentsRequired = errors.New("revision comments are required")

	// ErrWrongSchool: reviewer and form belong to different tenants.
	ErrWrongSchool = errors.New("reviewer does not belong to the form's school")
)

// ValidateReviewable admits approve / request-revision only from
// PENDING_REVIEW or REVISION_NEEDED.
func ValidateReviewable(reviewStatus *string) error {
	if reviewStatus == nil {
		return ErrInvalidReviewState
	}
	switch *reviewStatus {
	case formModel.ReviewStatusPending, formModel.ReviewStatusRevisionNeeded:
		return nil
	default:
		return ErrInvalidReviewState
	}
}

// ValidateRevisionComments rejects empty or whitespace-only comments.
func ValidateRevisionComments(comments string) error {
	if strings.TrimSpace(comments) == "" {
		return ErrCommentsRequired
	}
	return nil
}

// SameSchool: both sides must carry the same non-nil school id. A reviewer
// or form without a school never passes — the tenant boundary is strict.
func SameSchool(reviewerSchoolID, formSchoolID *uuid.UUID) bool {
	if reviewerSchoolID == nil || formSchoolID == nil {
		return false
	}
	return *reviewerSchoolID == *formSchoolID
}
