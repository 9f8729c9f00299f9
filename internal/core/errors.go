package core

import "errors"

// Error kinds mapped to HTTP status codes at the API boundary. Anything
// that is neither of these is an upstream failure.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// kindError carries the exact text shown to clients while still matching
// its kind with errors.Is
type kindError struct {
	kind   error
	detail string
}

func (e *kindError) Error() string {
	return e.detail
}

func (e *kindError) Unwrap() error {
	return e.kind
}

var (
	ErrImageNotFound = &kindError{kind: ErrNotFound, detail: "image not found"}
	ErrNoImages      = &kindError{kind: ErrNotFound, detail: "no images found"}
)

// NewValidationError creates an ErrValidation error with the given text
func NewValidationError(detail string) error {
	return &kindError{kind: ErrValidation, detail: detail}
}
