package service

import "errors"

var (
	// ErrAllocExhausted means every identifier allocation attempt hit
	// an existing record. Surfaced only after the retry budget is spent.
	ErrAllocExhausted = errors.New("unable to generate unique short URL")

	ErrEmptyID  = errors.New("short URL is required")
	ErrNotFound = errors.New("URL not found")
	ErrExpired  = errors.New("URL has expired")
)

// ValidationError carries a URL admissibility failure across the
// operation boundary. Security distinguishes blocked/dangerous URLs
// from plain format mistakes.
type ValidationError struct {
	Security bool
	Message  string
}

func (e *ValidationError) Error() string {
	return e.Message
}
