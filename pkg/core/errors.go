package core

import "errors"

// Common errors.
var (
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrDuplicateName       = errors.New("category name already exists")
	ErrPinLimitExceeded    = errors.New("pinned category limit reached")
	ErrNotFound            = errors.New("not found")
	ErrInvalidImportFormat = errors.New("invalid import format")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInvalidInput        = errors.New("invalid input")
	ErrReservedName        = errors.New("category name is reserved")
	ErrUnknownCategory     = errors.New("unknown category")

	// ErrStale is returned by conditional updates when the note changed after it was read.
	ErrStale = errors.New("note changed since it was read")

	ErrReadOnly     = errors.New("note is read-only")
	ErrEditorClosed = errors.New("editor is closed")

	// ErrDuplicateNote signals that a save is waiting for duplicate confirmation.
	ErrDuplicateNote = errors.New("an identical note already exists")

	// ErrConfirmationPending is returned when a transition is attempted while a prompt is open.
	ErrConfirmationPending = errors.New("confirmation pending")
)
