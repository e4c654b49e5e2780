package documents

import "errors"

var (
	// ErrInvalidInput marks malformed or missing caller input. No side effects.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUserNotFound marks an upload bound to an unknown user. No side effects.
	ErrUserNotFound = errors.New("user not found")

	// ErrStorageUnavailable marks a failed object-store operation before any
	// blob was written.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrUploadFailed marks a failed blob write. The request is aborted and no
	// metadata record is created.
	ErrUploadFailed = errors.New("file upload failed")

	// ErrNotFound marks a missing document.
	ErrNotFound = errors.New("document not found")
)
