package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrEmptyQuestion indicates a question was empty or whitespace
	// only. The submission is rejected before any request is made.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrBusy indicates an exchange is already in flight. Only one
	// exchange may be active per conversation.
	ErrBusy = errors.New("an exchange is already in flight")

	// ErrUnsupportedFileType indicates an upload was rejected before
	// any network call because the file is not a PDF.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrTransport indicates the chat stream or upload failed at the
	// network level. The current exchange is aborted and no
	// assistant message is recorded.
	ErrTransport = errors.New("transport failure")

	// ErrMissingBody indicates the chat endpoint answered without a
	// response body to stream from.
	ErrMissingBody = errors.New("response has no body")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
