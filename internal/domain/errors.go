package domain

import "fmt"

// ValidationError marks a malformed submission; it aborts the pipeline
// before any side-effecting work.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s: %s", e.Field, e.Reason)
}

// FetchError marks an unreachable or non-success source URL during
// archiving. Non-fatal: the pipeline continues without an archive copy.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StorageError marks a failed durable write of the source file.
// Non-fatal: the pipeline continues without an archive copy.
type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ExtractionError marks a failed text extraction. Non-fatal: the pipeline
// substitutes fallback text.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed (%s)", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extraction failure reasons.
const (
	ExtractReasonFetch       = "fetch"
	ExtractReasonUnsupported = "unsupported-format"
	ExtractReasonBackend     = "backend"
)

// GenerationError marks a failed generative rewrite. Never propagated out
// of the draft generator; recorded on degraded results only.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PersistenceError marks a failed content store write. Fatal: without a
// persisted record there is nothing to review.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("content store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError marks a failed best-effort channel delivery. Always
// swallowed after logging.
type NotificationError struct {
	Channel string
	Err     error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Channel, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
