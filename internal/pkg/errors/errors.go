package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicateDocument signals a raw document whose content hash and
	// instance GUID match an existing non-archived submission.
	ErrDuplicateDocument = errors.New("duplicate document")
)
