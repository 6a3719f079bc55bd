// Package app wires configuration, path resolution and the archive registry
// into the client's startup and teardown sequence.
package app

import (
	"github.com/spf13/afero"

	"github.com/shadowed-pilgrims/sotw/internal/assets"
	"github.com/shadowed-pilgrims/sotw/internal/config"
	"github.com/shadowed-pilgrims/sotw/internal/log"
	"github.com/shadowed-pilgrims/sotw/internal/paths"
	"github.com/shadowed-pilgrims/sotw/internal/ui"
)

// SessionStore persists player state before the archives go away. The game
// loop owns the implementation; startup only needs the teardown calls.
type SessionStore interface {
	WriteHero(writeGameData bool) error
	WriteStash() error
}

// Network releases multiplayer resources at teardown.
type Network interface {
	Close() error
}

// App owns the archive registry for the lifetime of the process.
type App struct {
	cfg      config.Config
	registry *assets.Registry

	// Session and Net are attached by the game loop once one starts.
	Session SessionStore
	Net     Network

	// Multiplayer and GameRan describe the session that just ended; they
	// decide whether teardown persists pending player state.
	Multiplayer bool
	GameRan     bool
}

// New builds the application with interactive recovery through dialog.
func New(cfg config.Config, dialog ui.Dialog) *App {
	return build(cfg, dialog, assets.NewRecovery(dialog, true))
}

// NewDryRun builds the application without recovery: missing required
// archives return errors instead of prompting. Used by the verify command
// and headless runs.
func NewDryRun(cfg config.Config) *App {
	return build(cfg, ui.Headless{}, nil)
}

func build(cfg config.Config, dialog ui.Dialog, recovery *assets.Recovery) *App {
	p := paths.Resolve(cfg.DataDir)

	osFs := afero.NewOsFs()
	var locator assets.Locator
	if cfg.Unpacked {
		locator = assets.Unpacked{Fs: osFs}
	} else {
		locator = assets.Packed{Open: assets.OpenMPQ}
	}

	registry := assets.NewRegistry(assets.Options{
		Locator:   locator,
		Fs:        osFs,
		Paths:     p,
		Hints:     paths.PlatformHints,
		ExtraDirs: cfg.ExtraSearchDirs,
		Language:  func() string { return cfg.Language },
		Dialog:    dialog,
		Recovery:  recovery,
		Headless:  cfg.Headless,
	})

	return &App{cfg: cfg, registry: registry}
}

// Registry exposes the archive slot table.
func (a *App) Registry() *assets.Registry { return a.registry }

// Mount runs the three load stages in their fixed order. An error means the
// process must not continue into a game session.
func (a *App) Mount() error {
	a.registry.LoadCoreArchives()
	a.registry.LoadLanguageArchive()
	return a.registry.LoadGameArchives()
}

// Shutdown persists pending session state, clears every archive slot, then
// releases network resources. Safe to call more than once.
func (a *App) Shutdown() {
	if a.Multiplayer && a.GameRan && a.Session != nil {
		if err := a.Session.WriteHero(false); err != nil {
			log.ErrorErr(log.CatApp, "Writing hero state", err)
		}
		if err := a.Session.WriteStash(); err != nil {
			log.ErrorErr(log.CatApp, "Writing stash state", err)
		}
	}

	a.registry.Clear()

	if a.Net != nil {
		if err := a.Net.Close(); err != nil {
			log.ErrorErr(log.CatNet, "Closing network session", err)
		}
		a.Net = nil
	}
}
