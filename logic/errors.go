package logic

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage rejects a missing or whitespace-only user message.
var ErrEmptyMessage = errors.New("user_message is required")

// UpstreamError is a failed inference call: the provider answered non-2xx,
// timed out, or was unreachable. Never retried; the caller must resend.
type UpstreamError struct {
	Status  int // provider HTTP status, 0 for transport failures
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("inference provider unreachable: %s", e.Message)
	}
	return fmt.Sprintf("inference provider error (status %d): %s", e.Status, e.Message)
}

// PersistenceError is a failed conversation-turn insert. The generated
// reply is discarded on this path.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save conversation turn: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
