package apperrors

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrDictionaryUnavailable = errors.New("dictionary store unavailable")
)
