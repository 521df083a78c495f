package entity

import "errors"

// Domain errors
var (
	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Knowledge base errors
	ErrKnowledgeBaseNotFound = errors.New("knowledge base not found")
	ErrDuplicateID           = errors.New("duplicate document id")
	ErrCollectionNotFound    = errors.New("collection not found")

	// Classification errors
	ErrClassificationFailed  = errors.New("classification failed")
	ErrInvalidModelOutput    = errors.New("invalid model output")
	ErrEmptyModelResponse    = errors.New("empty model response")
	ErrClassifierUnavailable = errors.New("classifier unavailable")
)
