// Package assets locates and mounts the archives that supply the game's art,
// audio, text and level data. It reconciles packed archives and unpacked
// directory trees, multiple optional add-on archives, and platform install
// conventions into a fixed set of named slots.
package assets

import (
	"errors"

	"github.com/shadowed-pilgrims/sotw/internal/log"
)

var (
	// ErrRecoveryDeclined is returned when the user gives up on the
	// insert-media prompt for a required archive.
	ErrRecoveryDeclined = errors.New("media recovery declined")

	// ErrExpansionIncomplete is returned when only part of the mandatory
	// expansion archive set is present. Downstream systems assume
	// all-or-nothing expansion availability, so this is fatal.
	ErrExpansionIncomplete = errors.New("expansion archives incomplete")

	// ErrArchiveNotFound is returned for a missing required archive when no
	// recovery flow is attached (dry runs, headless verification).
	ErrArchiveNotFound = errors.New("archive not found")
)

// Container is the narrow view of an opened archive this subsystem needs.
// The container's internal structure (hash tables, compression) stays behind
// this interface.
type Container interface {
	// HasFile reports whether the archive contains the named asset.
	HasFile(name string) bool
	Close() error
}

// ContainerOpener opens the archive file at path. An error satisfying
// errors.Is(err, fs.ErrNotExist) means the file is absent; any other error
// is a structural failure of a file that does exist.
type ContainerOpener func(path string) (Container, error)

// Mount is one populated archive slot: either an opened container (packed
// mode) or a located dataset directory (unpacked mode), never both.
type Mount struct {
	// Name is the archive or dataset name that was searched for.
	Name string

	// Source is the search-path directory the mount resolved from
	// ("" means the working directory).
	Source string

	// Container is the opened archive in packed mode, nil otherwise.
	Container Container

	// Dir is the slash-terminated dataset directory in unpacked mode,
	// "" otherwise.
	Dir string
}

// Close releases the mount's container, if any. Safe on a nil mount.
func (m *Mount) Close() {
	if m == nil || m.Container == nil {
		return
	}
	if err := m.Container.Close(); err != nil {
		log.ErrorErr(log.CatAssets, "Closing archive", err, "archive", m.Name)
	}
}
