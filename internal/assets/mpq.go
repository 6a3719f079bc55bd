package assets

import (
	mpq "github.com/suprsokr/go-mpq"
)

// OpenMPQ is the production ContainerOpener backed by the MPQ reader.
func OpenMPQ(path string) (Container, error) {
	archive, err := mpq.Open(path)
	if err != nil {
		return nil, err
	}
	return mpqContainer{archive}, nil
}

type mpqContainer struct {
	archive *mpq.Archive
}

func (c mpqContainer) HasFile(name string) bool { return c.archive.HasFile(name) }

func (c mpqContainer) Close() error { return c.archive.Close() }
