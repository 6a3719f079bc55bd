package paths

import "strings"

// HintFunc supplies platform-specific extra search directories. The no-op
// value used in tests is func() []string { return nil }.
type HintFunc func() []string

// XDGDataHints expands the colon-separated XDG_DATA_DIRS variable into
// product data directories. When the variable is unset it falls back to the
// two conventional system-wide locations. getenv is injected so the
// expansion logic is testable without touching the process environment.
//
// XDG_DATA_HOME is deliberately not consulted here: it is already the root
// of the per-user pref path.
func XDGDataHints(getenv func(string) string) []string {
	dataDirs := getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		return []string{
			"/usr/local/share/" + productSubpath,
			"/usr/share/" + productSubpath,
		}
	}

	var hints []string
	for _, dir := range strings.Split(dataDirs, ":") {
		full := dir
		if dir != "" && !strings.HasSuffix(dir, "/") {
			full += "/"
		}
		hints = append(hints, full+productSubpath)
	}
	return hints
}
