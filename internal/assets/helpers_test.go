package assets

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/shadowed-pilgrims/sotw/internal/paths"
)

// fakeContainer is an in-memory Container.
type fakeContainer struct {
	files  map[string]bool
	closed bool
}

func (c *fakeContainer) HasFile(name string) bool { return c.files[name] }

func (c *fakeContainer) Close() error {
	c.closed = true
	return nil
}

// fakeOpener serves containers keyed by full path and records every attempt.
type fakeOpener struct {
	archives map[string]*fakeContainer
	corrupt  map[string]bool
	attempts []string
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{
		archives: make(map[string]*fakeContainer),
		corrupt:  make(map[string]bool),
	}
}

// add registers an archive at path containing the given asset names.
func (o *fakeOpener) add(path string, files ...string) *fakeContainer {
	c := &fakeContainer{files: make(map[string]bool)}
	for _, f := range files {
		c.files[f] = true
	}
	o.archives[path] = c
	return c
}

func (o *fakeOpener) open(path string) (Container, error) {
	o.attempts = append(o.attempts, path)
	if o.corrupt[path] {
		return nil, errors.New("invalid MPQ magic: 0xDEADBEEF")
	}
	if c, ok := o.archives[path]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("open file: %w", fs.ErrNotExist)
}

// fakeDialog scripts prompt responses and records calls.
type fakeDialog struct {
	insertCalls []string
	responses   []bool
	onInsert    func(name string) // runs before each scripted response
	errorTitles []string
}

func (d *fakeDialog) InsertMedia(name string) bool {
	d.insertCalls = append(d.insertCalls, name)
	if d.onInsert != nil {
		d.onInsert(name)
	}
	if len(d.responses) == 0 {
		return false
	}
	resp := d.responses[0]
	d.responses = d.responses[1:]
	return resp
}

func (d *fakeDialog) Error(title, message string) {
	d.errorTitles = append(d.errorTitles, title)
}

var testPaths = paths.Paths{
	Base:   "/install/",
	Pref:   "/home/user/.data/",
	Config: "/home/user/.config/",
}

// allGamePacked registers the full packed archive set at dir, with the title
// art inside the primary archive.
func (o *fakeOpener) allGamePacked(dir string) {
	o.add(dir+primaryArchiveUpper, titleArtPacked)
	o.add(dir + expansionArchive)
	o.add(dir + monkArchive)
	o.add(dir + bardArchive)
	o.add(dir + barbarianArchive)
	o.add(dir + musicArchive)
	o.add(dir + voiceArchive)
}
