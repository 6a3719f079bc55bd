package assets

import (
	"errors"
	"io/fs"

	"github.com/spf13/afero"

	"github.com/shadowed-pilgrims/sotw/internal/log"
)

// Locator resolves an archive or dataset name against a search path. The two
// implementations correspond to the two mutually exclusive content layouts;
// a deployment configures exactly one.
type Locator interface {
	// Find tries each search-path directory in order and returns the first
	// mount that resolves, or nil when the name is absent everywhere.
	// A directory whose candidate exists but fails to open is logged and
	// skipped; it never aborts the search.
	Find(searchPath []string, name string) *Mount

	// ArchiveName maps a bare dataset name to the on-disk name this layout
	// uses ("de" -> "de.mpq" packed, "de" unpacked).
	ArchiveName(dataset string) string

	// Unpacked reports whether this locator resolves directory trees
	// instead of containers.
	Unpacked() bool
}

// Packed opens archive containers through an injected opener.
type Packed struct {
	Open ContainerOpener
}

func (p Packed) Find(searchPath []string, name string) *Mount {
	structural := false
	for _, dir := range searchPath {
		path := dir + name
		container, err := p.Open(path)
		if err == nil {
			log.Verbose(log.CatAssets, "Found archive", "archive", name, "in", dir)
			return &Mount{Name: name, Source: dir, Container: container}
		}
		if !errors.Is(err, fs.ErrNotExist) {
			// A corrupt archive in one directory must not mask a good copy
			// further down the search path.
			log.ErrorErr(log.CatAssets, "Opening archive", err, "path", path)
			structural = true
		}
	}
	if !structural {
		log.Verbose(log.CatAssets, "Missing archive", "archive", name)
	}
	return nil
}

func (p Packed) ArchiveName(dataset string) string { return dataset + ".mpq" }

func (p Packed) Unpacked() bool { return false }

// Unpacked resolves dataset directories by existence alone.
type Unpacked struct {
	Fs afero.Fs
}

func (u Unpacked) Find(searchPath []string, name string) *Mount {
	for _, dir := range searchPath {
		target := dir + name + "/"
		if ok, _ := afero.DirExists(u.Fs, target); ok {
			log.Verbose(log.CatAssets, "Found unpacked dataset", "dir", target)
			return &Mount{Name: name, Source: dir, Dir: target}
		}
	}
	log.Verbose(log.CatAssets, "Missing unpacked dataset", "dataset", name)
	return nil
}

func (u Unpacked) ArchiveName(dataset string) string { return dataset }

func (u Unpacked) Unpacked() bool { return true }
