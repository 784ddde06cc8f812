package usecase

import "errors"

// Failure taxonomy of the gap pipeline. Callers match with errors.Is; every
// returned error wraps one of these and carries the underlying cause in its
// message.
var (
	ErrInvalidIdentifier = errors.New("invalid occupation identifier")
	ErrConfiguration     = errors.New("external source is not configured")
	ErrNotFound          = errors.New("occupation not found")
	ErrService           = errors.New("upstream service error")
	ErrParse             = errors.New("generative reply could not be parsed")
	ErrSchemaMismatch    = errors.New("generative reply envelope mismatch")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternal          = errors.New("internal error")
)
