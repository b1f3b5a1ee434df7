// file: internals/features/forms/review/dto/review_dto.go
package dto

type ApproveFormRequest struct {
	Comments *string `json:"comments" validate:"omitempty,max=2000"`
}

type RequestRevisionRequest struct {
	Comments string `json:"comments" validate:"required,max=2000"`
}
