// Package engine holds the configuration shared by every embedded engine
// (decision and process) and the steps that apply it.
//
// Engine-specific configurations embed Configuration and expose it through
// Configurable, so the same ConfigureTransactions and ConfigureEngine steps
// run for every engine kind. Configurer is the user hook applied last.
package engine
