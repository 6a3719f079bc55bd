//go:build linux || freebsd || netbsd || openbsd || dragonfly || solaris

package paths

import "os"

// PlatformHints returns the system data directories for Unix-like platforms.
func PlatformHints() []string {
	return XDGDataHints(os.Getenv)
}
