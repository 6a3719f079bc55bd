//go:build !linux && !freebsd && !netbsd && !openbsd && !dragonfly && !solaris && !windows

package paths

// PlatformHints has no extra search directories on platforms that bundle
// assets with the application (macOS, mobile, consoles). Fixed-storage
// device roots are covered by the extra_search_dirs config option.
func PlatformHints() []string {
	return nil
}
