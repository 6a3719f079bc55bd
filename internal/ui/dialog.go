// Package ui presents the blocking dialogs the mount sequence needs before
// the renderer exists: the insert-media prompt and the fatal error box.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shadowed-pilgrims/sotw/internal/log"
)

// Dialog is the presentation collaborator of the mount sequence. Both calls
// block until the user responds; neither returns an error (presentation
// failures degrade to log lines, never to mount failures).
type Dialog interface {
	// InsertMedia asks the user to make the named archive available.
	// Returns true to retry the search, false when the user gives up.
	InsertMedia(name string) bool

	// Error shows a fatal configuration error. The caller decides whether
	// to terminate afterwards.
	Error(title, message string)
}

var (
	promptBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().Bold(true)

	errorTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))
)

// Term renders dialogs on a terminal, reading responses line-wise.
type Term struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTerm creates a terminal dialog bound to the given streams
// (os.Stdin/os.Stderr in production, buffers in tests).
func NewTerm(in io.Reader, out io.Writer) *Term {
	return &Term{in: bufio.NewScanner(in), out: out}
}

func (t *Term) InsertMedia(name string) bool {
	body := fmt.Sprintf("%s\n\nCould not find %s in any search location.\nCopy the file into the game directory, then retry.",
		titleStyle.Render("Data File Not Found"), name)
	fmt.Fprintln(t.out, promptBorder.Render(body))

	for {
		fmt.Fprint(t.out, "[r]etry / [q]uit: ")
		if !t.in.Scan() {
			// Closed stdin: nothing more to ask, give up.
			fmt.Fprintln(t.out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(t.in.Text())) {
		case "", "r", "retry":
			return true
		case "q", "quit", "n":
			return false
		}
	}
}

func (t *Term) Error(title, message string) {
	body := errorTitleStyle.Render(title) + "\n\n" + message
	fmt.Fprintln(t.out, promptBorder.Render(body))
}

// Headless never prompts: recovery is declined immediately and errors go to
// the log. Used by --headless runs and the verify command.
type Headless struct{}

func (Headless) InsertMedia(name string) bool {
	log.Error(log.CatUI, "Required archive missing and no terminal to prompt on", "archive", name)
	return false
}

func (Headless) Error(title, message string) {
	log.Error(log.CatUI, title, "detail", strings.ReplaceAll(message, "\n", " "))
}
