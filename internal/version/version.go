// Package version holds the application version string.
package version

// Version is the current modelgate release. Overridden at build time via
// -ldflags "-X github.com/jlekram/modelgate/internal/version.Version=...".
var Version = "0.2.0-dev"
