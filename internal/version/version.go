// Package version exposes build metadata set via -ldflags at release
// time. The zero values identify a local development build.
package version

var (
	// Version is the release version string.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)
