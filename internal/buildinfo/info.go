// Package buildinfo carries version information stamped into the nlbank binary.
package buildinfo

var (
	// Version is set via -ldflags "-X .../buildinfo.Version=..." at release time.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
