package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Every validation error below wraps it.
	ErrInvalidInput = errors.New("invalid input")

	// Input Errors.

	// ErrEmptyInput indicates a missing or empty file.
	ErrEmptyInput = fmt.Errorf("%w: empty input", ErrInvalidInput)

	// ErrUnsupportedFormat indicates a file extension no normaliser handles.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", ErrInvalidInput)

	// ErrNotChatExport indicates extracted text does not look like a chat export.
	ErrNotChatExport = fmt.Errorf("%w: content is not a chat export", ErrInvalidInput)

	// ErrMalformedRecord indicates a structured record without a sender or body.
	ErrMalformedRecord = fmt.Errorf("%w: malformed record", ErrInvalidInput)

	// Search Errors.

	// ErrMissingMessages indicates a search was requested without a message set.
	ErrMissingMessages = fmt.Errorf("%w: messages are required", ErrInvalidInput)

	// ErrEmptyQuery indicates a blank search query.
	ErrEmptyQuery = fmt.Errorf("%w: query is required", ErrInvalidInput)

	// ErrInvalidMode indicates an unrecognised search mode.
	ErrInvalidMode = fmt.Errorf("%w: invalid search mode", ErrInvalidInput)

	// External Errors.

	// ErrSummarizerUnavailable indicates no semantic summarizer is configured.
	// Semantic search degrades to keyword search without one.
	ErrSummarizerUnavailable = errors.New("summarizer unavailable")

	// ErrAnalysisFailed is the user-facing category for summarizer failures.
	ErrAnalysisFailed = errors.New("AI analysis failed")

	// ErrRateLimited indicates the summarizer rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// IsValidationError reports whether err is caused by invalid caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
