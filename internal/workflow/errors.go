package workflow

import "fmt"

// User-facing messages for recoverable failures. The interactive surface
// shows these inline; the session never aborts on a single bad input.
const (
	MsgInvalidAccountNumber = "Invalid Account Number"
	MsgInvalidAmount        = "Invalid Amount. Please enter a positive number."
	MsgInvalidOTP           = "Invalid OTP. Please try again."
	MsgInvalidPIN           = "Invalid PIN."
	MsgMissingPIN           = "Please enter a PIN."
)

// ValidationError indicates bad or missing input format. Always recoverable;
// the workflow stays in place.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// NotFoundError indicates an unknown account. Recoverable; no retry limit.
type NotFoundError struct {
	Message string
}

func (e NotFoundError) Error() string {
	return e.Message
}

// AuthError indicates a PIN or OTP mismatch. Recoverable; there is no
// lockout or backoff.
type AuthError struct {
	Message string
}

func (e AuthError) Error() string {
	return e.Message
}

// StoreError indicates a store-level failure (connectivity, write failure).
// Surfaced as a generic message; the session does not advance and no
// automatic retry or compensating rollback is attempted.
type StoreError struct {
	Err error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store operation failed: %v", e.Err)
}

func (e StoreError) Unwrap() error {
	return e.Err
}
