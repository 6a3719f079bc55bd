// Package paths resolves the directories the client reads game data from:
// the install directory, the per-user data and config directories, and
// platform-specific system locations.
//
// All returned directories are slash-terminated so that callers can build
// file paths by plain concatenation, matching the search-path convention of
// the asset mounting code. The empty string is reserved for "current working
// directory" and is never returned from this package.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// productSubpath is appended to system-wide data directories
// (e.g. /usr/share/shadowed-pilgrims/shadow-of-the-west/).
const productSubpath = "shadowed-pilgrims/shadow-of-the-west/"

// gogProductID identifies the game in the GOG Galaxy registry.
const gogProductID = "1412601690"

// Paths holds the three user-level directories consulted before any
// platform hints. Resolved once at startup.
type Paths struct {
	// Base is the application install directory (where the executable lives),
	// or a user-supplied override.
	Base string

	// Pref is the per-user data directory (saves, downloaded archives).
	Pref string

	// Config is the per-user configuration directory.
	Config string
}

// Resolve builds the user-level paths. baseOverride, when non-empty,
// replaces the executable-derived install directory (the --data-dir flag).
func Resolve(baseOverride string) Paths {
	return Paths{
		Base:   basePath(baseOverride),
		Pref:   prefPath(),
		Config: configPath(),
	}
}

func basePath(override string) string {
	if override != "" {
		return withSlash(filepath.Clean(override))
	}
	exe, err := os.Executable()
	if err != nil {
		return "./"
	}
	return withSlash(filepath.Dir(exe))
}

func prefPath() string {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "./"
			}
			return withSlash(filepath.Join(home, "Shadow of the West"))
		}
		return withSlash(filepath.Join(appData, "Shadow of the West"))
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return withSlash(dataHome) + productSubpath
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return prefPath()
	}
	return withSlash(filepath.Join(dir, "sotw"))
}

// withSlash terminates dir with a forward slash. Forward slashes are valid
// path separators on every supported platform and keep search-path entries
// directly concatenable with archive names.
func withSlash(dir string) string {
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, `\`) {
		return dir
	}
	return dir + "/"
}
