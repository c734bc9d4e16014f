// Package resource finds engine deployment files (decision tables, process
// definitions) beneath a location on an afero filesystem.
//
// A location is a directory, optionally prefixed with file:, classpath: or
// classpath*:. Each suffix is a glob joined onto the location, where **
// crosses directory boundaries:
//
//	resources, err := resource.Discover(afero.NewOsFs(), "dmn/", []string{"**.dmn", "**.dmn.xml"}, true)
package resource
