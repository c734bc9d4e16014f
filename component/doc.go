// Package component defines the lifecycle interface shared by the data
// source and the engines built during bootstrap.
//
// Components are started in registration order and stopped in reverse.
// Auto-configurations register the engines they build; the bootstrap App
// owns the registry.
//
// # Interfaces
//
//   - Component: lifecycle (Start/Stop) and health reporting
//   - Describable: one-line description for the bootstrap summary
//   - Func: a Component assembled from plain functions
package component
