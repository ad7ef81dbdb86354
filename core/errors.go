package core

import "fmt"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// RemoteError is returned by the REST and document-store clients whenever a
// call cannot be treated as usable data: transport failures, non-success
// statuses, body-level failure flags and content-type mismatches all end up
// here. Callers own the user-facing presentation.
type RemoteError struct {
	Op      string // e.g. "GET /api/classes"
	Status  int    // HTTP status; 0 on transport errors
	Message string
}

func NewRemoteError(op string, status int, message string) *RemoteError {
	return &RemoteError{Op: op, Status: status, Message: message}
}

func (err RemoteError) Error() string {
	if err.Status == 0 {
		return fmt.Sprintf("%s: %s", err.Op, err.Message)
	}
	return fmt.Sprintf("%s: (%d) %s", err.Op, err.Status, err.Message)
}
