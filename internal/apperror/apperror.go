package apperror

import "errors"

// Sentinel errors for the error taxonomy. Services wrap these in an *AppError;
// the handler layer maps them to HTTP status codes with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
)

// ForbiddenMessage is the fixed body for every ownership violation — the same
// message is used for event and user mutations so a caller can't distinguish
// "exists but not yours" cases by wording.
const ForbiddenMessage = "Unauthorized access"

// AppError is a domain error with a client-facing message.
//
// For validation failures Fields carries one message per offending field
// (first offending rule wins); Message is unused and the handler renders
// {"errors": {...}}. For every other kind Fields is nil and the handler
// renders {"message": "..."}.
type AppError struct {
	Err     error             // sentinel cause, for errors.Is
	Message string            // human-readable error message
	Fields  map[string]string // per-field validation messages
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound returns a 404-mapped error with the given fixed message
// (e.g. "User not found", "Resource not found").
func NotFound(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

// ValidationFailed returns a 422-mapped error carrying the field→message map.
func ValidationFailed(fields map[string]string) *AppError {
	return &AppError{Err: ErrValidation, Fields: fields}
}

// InvalidCredentials returns the 422-mapped login failure. The message is
// fixed so the response never reveals whether the email or the password was
// wrong.
func InvalidCredentials() *AppError {
	return &AppError{Err: ErrInvalidCredentials, Message: "Invalid user credentials"}
}

// Forbidden returns a 403-mapped ownership violation with the fixed message.
func Forbidden() *AppError {
	return &AppError{Err: ErrForbidden, Message: ForbiddenMessage}
}

// ForbiddenWithMessage returns a 403-mapped error with a custom message, used
// by the attendance rules (host can't join, event full, ...).
func ForbiddenWithMessage(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

// Conflict returns a 409-mapped error for unique-constraint races that slip
// past validation.
func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}
