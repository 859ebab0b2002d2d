package dto

import "taskboard/apperrors"

type ErrorBody struct {
	Kind    apperrors.Kind         `json:"kind"`
	Message string                 `json:"message"`
	Fields  []apperrors.FieldError `json:"fields,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
