// Package version carries the build version of the dmnkit binary.
//
// Version, git commit, branch and build time are set at compile time
// via -ldflags and fall back to the VCS stamps in the build info:
//
//	go build -ldflags "-X github.com/kbukum/dmnkit/version.Version=1.0.0" ./cmd/dmnkit
package version
