package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Bootstrap errors
const (
	// ErrCodeDiscoveryFailed indicates deployment resource discovery failed (bad path, I/O error).
	ErrCodeDiscoveryFailed ErrorCode = "DISCOVERY_FAILED"
	// ErrCodeMissingCollaborator indicates a required collaborator (data source, transaction manager) is absent.
	ErrCodeMissingCollaborator ErrorCode = "MISSING_COLLABORATOR"
	// ErrCodeConditionFailed indicates an activation condition could not be evaluated.
	ErrCodeConditionFailed ErrorCode = "CONDITION_FAILED"
	// ErrCodeOrderingCycle indicates auto-configuration ordering declarations form a cycle.
	ErrCodeOrderingCycle ErrorCode = "ORDERING_CYCLE"
)

// Registry errors
const (
	// ErrCodeNotRegistered indicates a requested bean is not registered.
	ErrCodeNotRegistered ErrorCode = "NOT_REGISTERED"
	// ErrCodeAlreadyRegistered indicates a bean or component name is already taken.
	ErrCodeAlreadyRegistered ErrorCode = "ALREADY_REGISTERED"
)

// Configuration errors
const (
	// ErrCodeInvalidProperties indicates bound properties failed validation.
	ErrCodeInvalidProperties ErrorCode = "INVALID_PROPERTIES"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Engine errors
const (
	// ErrCodeEngineBuild indicates an engine could not be built from its configuration.
	ErrCodeEngineBuild ErrorCode = "ENGINE_BUILD_FAILED"
	// ErrCodeDataSource indicates the data source could not be opened or reached.
	ErrCodeDataSource ErrorCode = "DATASOURCE_FAILED"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
