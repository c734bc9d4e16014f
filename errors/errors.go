package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &AppError{Code: code})
}

// --- Common Error Constructors ---

// DiscoveryFailed creates an error for a failed deployment resource lookup.
func DiscoveryFailed(location string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDiscoveryFailed, Message: fmt.Sprintf("Failed to discover deployment resources in %q.", location),
		Details: map[string]any{"location": location}, Cause: cause,
	}
}

// MissingCollaborator creates an error for a required dependency that was not provided.
func MissingCollaborator(name string) *AppError {
	return &AppError{
		Code: ErrCodeMissingCollaborator, Message: fmt.Sprintf("Required collaborator %s is not available.", name),
		Details: map[string]any{"collaborator": name},
	}
}

// ConditionFailed creates an error for a condition that could not be evaluated.
func ConditionFailed(condition string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConditionFailed, Message: fmt.Sprintf("Condition %s could not be evaluated.", condition),
		Details: map[string]any{"condition": condition}, Cause: cause,
	}
}

// OrderingCycle creates an error for auto-configurations whose ordering cannot be satisfied.
func OrderingCycle(names []string) *AppError {
	return &AppError{
		Code: ErrCodeOrderingCycle, Message: fmt.Sprintf("Auto-configuration ordering contains a cycle among %v.", names),
		Details: map[string]any{"auto_configurations": names},
	}
}

// NotRegistered creates an error for a bean lookup that found nothing.
func NotRegistered(key string) *AppError {
	return &AppError{
		Code: ErrCodeNotRegistered, Message: fmt.Sprintf("Bean %s is not registered.", key),
		Details: map[string]any{"bean": key},
	}
}

// AlreadyRegistered creates an error for a duplicate registration.
func AlreadyRegistered(key string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyRegistered, Message: fmt.Sprintf("%s is already registered.", key),
		Details: map[string]any{"name": key},
	}
}

// InvalidProperties creates an error for properties that failed validation.
func InvalidProperties(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidProperties, Message: message}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// EngineBuild creates an error for an engine that failed to build.
func EngineBuild(engine string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeEngineBuild, Message: fmt.Sprintf("The %s engine could not be built.", engine),
		Details: map[string]any{"engine": engine}, Cause: cause,
	}
}

// DataSource creates an error for a data source that could not be opened.
func DataSource(driver string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDataSource, Message: fmt.Sprintf("The %s data source could not be opened.", driver),
		Details: map[string]any{"driver": driver}, Cause: cause,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.", Cause: cause,
	}
}
