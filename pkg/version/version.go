package version

import "runtime"

// Build holds the build identifier, injected via -ldflags. Default "dev".
var Build = "dev"

// String returns Build with the Go toolchain it was compiled with.
func String() string {
	return Build + " (" + runtime.Version() + ")"
}
