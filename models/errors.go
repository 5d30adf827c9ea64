package models

// ValidationError reports invalid user input. The HTTP boundary maps it to a
// 400 response carrying the message; anything else is a server-side failure.
type ValidationError struct {
	msg string
}

// NewValidationError creates a validation error with a human-readable message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}
