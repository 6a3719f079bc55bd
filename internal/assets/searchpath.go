package assets

import (
	"fmt"
	"strings"

	"github.com/shadowed-pilgrims/sotw/internal/log"
	"github.com/shadowed-pilgrims/sotw/internal/paths"
)

// SearchPaths builds the ordered archive search list, highest priority
// first: install dir, user data dir, user config dir, platform hints, any
// configured extra directories, and finally "" for the working directory.
//
// Deduplication is applied only between the first three entries, by exact
// string equality. A hint that coincides with an earlier entry comes from an
// independent source and is deliberately kept.
func SearchPaths(p paths.Paths, hints paths.HintFunc, extra []string) []string {
	list := make([]string, 0, 8)
	list = append(list, p.Base, p.Pref)
	if list[0] == list[1] {
		list = list[:1]
	}
	list = append(list, p.Config)
	if n := len(list); list[0] == list[1] || (n == 3 && (list[0] == list[2] || list[1] == list[2])) {
		list = list[:n-1]
	}

	if hints != nil {
		list = append(list, hints()...)
	}
	for _, dir := range extra {
		list = append(list, terminated(dir))
	}

	list = append(list, "") // PWD

	var b strings.Builder
	for i, dir := range list {
		fmt.Fprintf(&b, "\n%6d. '%s'", i+1, dir)
	}
	log.Verbose(log.CatPaths, "Archive search paths:"+b.String(),
		"base", p.Base, "pref", p.Pref, "config", p.Config)

	return list
}

func terminated(dir string) string {
	if dir == "" || strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, `\`) {
		return dir
	}
	return dir + "/"
}
