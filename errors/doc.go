// Package errors provides the structured error type used across dmnkit.
//
// Every failure surfaced during bootstrap is an *AppError carrying a
// machine-readable code, so callers can tell a discovery failure from a
// missing collaborator without string matching. Startup failures are never
// transient, so no code is retryable.
package errors
