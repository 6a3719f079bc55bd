package assets

import (
	"fmt"
	"runtime"

	"github.com/spf13/afero"

	"github.com/shadowed-pilgrims/sotw/internal/flags"
	"github.com/shadowed-pilgrims/sotw/internal/log"
	"github.com/shadowed-pilgrims/sotw/internal/paths"
	"github.com/shadowed-pilgrims/sotw/internal/ui"
)

// defaultLanguage mounts no language archive.
const defaultLanguage = "en"

// Archive file names. Retail CD and GOG media ship the primary archive
// upper-case, so primaryArchiveUpper is tried before primaryArchive.
const (
	coreArchive         = "sotw.mpq"
	fontsArchive        = "fonts.mpq"
	primaryArchiveUpper = "DIABDAT.MPQ"
	primaryArchive      = "diabdat.mpq"
	expansionArchive    = "hellfire.mpq"
	monkArchive         = "hfmonk.mpq"
	bardArchive         = "hfbard.mpq"
	barbarianArchive    = "hfbarb.mpq"
	musicArchive        = "hfmusic.mpq"
	voiceArchive        = "hfvoice.mpq"
)

// Dataset names used in unpacked mode.
const (
	fontsDataset     = "fonts"
	primaryDataset   = "diabdat"
	expansionDataset = "hellfire"
)

// Sentinel assets used to verify that a mount actually carries the content
// it is supposed to.
const (
	titleArtPacked   = `ui_art\title.pcx`
	titleArtUnpacked = "ui_art/title.clx"

	monkSentinel   = "plrgfx/monk/mha/mhaas.clx"
	musicSentinel  = "music/dlvlf.wav"
	musicSentinel2 = "music/dlvlf.mp3"
	voiceSentinel  = "sfx/hellfire/cowsut1.wav"
	voiceSentinel2 = "sfx/hellfire/cowsut1.mp3"
)

// Options wires the registry's collaborators.
type Options struct {
	// Locator selects the content layout (packed or unpacked).
	Locator Locator

	// Fs is used for sentinel probes in unpacked mode. Defaults to the OS
	// filesystem.
	Fs afero.Fs

	// Paths are the resolved user-level directories.
	Paths paths.Paths

	// Hints supplies platform-specific extra search directories.
	// Nil means no hints (tests).
	Hints paths.HintFunc

	// ExtraDirs are user-configured additional search directories.
	ExtraDirs []string

	// Language is the localization collaborator returning the active
	// language code. Nil means the default language.
	Language func() string

	// Dialog presents the fatal expansion error. Required.
	Dialog ui.Dialog

	// Recovery drives the insert-media flow for required archives. Nil
	// turns required-archive absence into ErrArchiveNotFound instead of
	// prompting (dry runs).
	Recovery *Recovery

	// Flags receives the derived feature flags. Defaults to a fresh
	// registry.
	Flags *flags.Registry

	// Headless skips the title-art verification of the primary archive.
	Headless bool
}

// Registry is the process-wide table of archive slots. Slots are populated
// sequentially by the three load stages during startup and read thereafter;
// nothing else writes to them.
type Registry struct {
	opts Options

	sotw      *Mount
	fonts     *Mount
	lang      *Mount
	primary   *Mount
	expansion *Mount
	monk      *Mount
	bard      *Mount
	barbarian *Mount
	music     *Mount
	voice     *Mount

	// Sentinel probe results; only meaningful in unpacked mode, where the
	// expansion data lives in one dataset instead of per-feature archives.
	monkData  bool
	musicData bool
	voiceData bool
}

// NewRegistry creates an empty registry. Every slot starts absent.
func NewRegistry(opts Options) *Registry {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Flags == nil {
		opts.Flags = flags.New()
	}
	if opts.Language == nil {
		opts.Language = func() string { return defaultLanguage }
	}
	return &Registry{opts: opts}
}

// Flags exposes the derived feature flags.
func (r *Registry) Flags() *flags.Registry { return r.opts.Flags }

// searchPaths builds a fresh search list. Each resolution pass rebuilds it
// because the set can depend on runtime state (current language, storefront
// installs appearing between retries).
func (r *Registry) searchPaths() []string {
	return SearchPaths(r.opts.Paths, r.opts.Hints, r.opts.ExtraDirs)
}

// LoadCoreArchives mounts the archives needed before any error message can
// be rendered. Absence here degrades error presentation, it is never a
// failure.
func (r *Registry) LoadCoreArchives() {
	sp := r.searchPaths()
	if r.opts.Locator.Unpacked() {
		r.fonts = r.opts.Locator.Find(sp, fontsDataset)
		return
	}
	if !coreArchiveBundled() {
		// sotw.mpq first so the error-message font is available.
		r.sotw = r.opts.Locator.Find(sp, coreArchive)
	}
	r.fonts = r.opts.Locator.Find(sp, fontsArchive) // Extra fonts
}

// coreArchiveBundled reports platforms that ship the core archive inside the
// application bundle, where searching the filesystem for it is pointless.
func coreArchiveBundled() bool {
	switch runtime.GOOS {
	case "darwin", "ios", "android":
		return true
	}
	return false
}

// LoadLanguageArchive mounts the archive for the active language, unloading
// the previous one first. The default language mounts nothing; a missing
// language archive is not an error (built-in strings remain in use).
// Safe to call again on a language switch.
func (r *Registry) LoadLanguageArchive() {
	r.lang.Close()
	r.lang = nil

	code := r.opts.Language()
	if code == defaultLanguage {
		return
	}
	r.lang = r.opts.Locator.Find(r.searchPaths(), r.opts.Locator.ArchiveName(code))
}

// LoadGameArchives mounts the primary archive, the expansion archives, and
// the optional add-ons, deriving feature flags from the optional ones.
// Returns ErrRecoveryDeclined, ErrArchiveNotFound or ErrExpansionIncomplete;
// all of them mean the process must not continue into a game session.
func (r *Registry) LoadGameArchives() error {
	if r.opts.Locator.Unpacked() {
		return r.loadGameDatasets()
	}

	sp := r.searchPaths()

	r.primary = r.findPrimary(sp)
	if r.primary == nil {
		mount, err := r.reacquire(primaryArchive, func() *Mount {
			return r.findPrimary(r.searchPaths())
		})
		if err != nil {
			return err
		}
		r.primary = mount
	}

	r.expansion = r.opts.Locator.Find(sp, expansionArchive)
	if r.expansion == nil {
		mount, err := r.reacquire(expansionArchive, func() *Mount {
			return r.opts.Locator.Find(r.searchPaths(), expansionArchive)
		})
		if err != nil {
			return err
		}
		r.expansion = mount
	}

	r.monk = r.opts.Locator.Find(sp, monkArchive)
	r.bard = r.opts.Locator.Find(sp, bardArchive)
	r.barbarian = r.opts.Locator.Find(sp, barbarianArchive)
	r.music = r.opts.Locator.Find(sp, musicArchive)
	r.voice = r.opts.Locator.Find(sp, voiceArchive)

	r.opts.Flags.Set(flags.FlagBard, r.bard != nil)
	r.opts.Flags.Set(flags.FlagBarbarian, r.barbarian != nil)
	r.opts.Flags.Set(flags.FlagExpansionMusic, r.music != nil)
	r.opts.Flags.Set(flags.FlagExpansionVoice, r.voice != nil)

	if r.monk == nil || r.music == nil || r.voice == nil {
		return r.expansionIncomplete()
	}
	return nil
}

// findPrimary searches for the primary archive, retrying with the
// lower-case name after a full upper-case pass fails. A hit that lacks the
// title art is rejected here so that recovery retries are verified too.
func (r *Registry) findPrimary(sp []string) *Mount {
	mount := r.opts.Locator.Find(sp, primaryArchiveUpper)
	if mount == nil {
		mount = r.opts.Locator.Find(sp, primaryArchive)
	}
	if mount != nil && !r.opts.Headless && !mount.Container.HasFile(titleArtPacked) {
		log.Error(log.CatAssets, "Primary archive has no title art, treating as missing",
			"archive", mount.Name, "in", mount.Source)
		mount.Close()
		return nil
	}
	return mount
}

// findPrimaryDataset is the unpacked-mode counterpart of findPrimary.
func (r *Registry) findPrimaryDataset(sp []string) *Mount {
	mount := r.opts.Locator.Find(sp, primaryDataset)
	if mount != nil && !r.opts.Headless {
		if ok, _ := afero.Exists(r.opts.Fs, mount.Dir+titleArtUnpacked); !ok {
			log.Error(log.CatAssets, "Primary dataset has no title art, treating as missing",
				"dir", mount.Dir)
			return nil
		}
	}
	return mount
}

// loadGameDatasets is the unpacked-mode game-data stage.
func (r *Registry) loadGameDatasets() error {
	sp := r.searchPaths()

	r.primary = r.findPrimaryDataset(sp)
	if r.primary == nil {
		mount, err := r.reacquire(primaryDataset, func() *Mount {
			return r.findPrimaryDataset(r.searchPaths())
		})
		if err != nil {
			return err
		}
		r.primary = mount
	}

	r.expansion = r.opts.Locator.Find(sp, expansionDataset)
	if r.expansion == nil {
		mount, err := r.reacquire(expansionDataset, func() *Mount {
			return r.opts.Locator.Find(r.searchPaths(), expansionDataset)
		})
		if err != nil {
			return err
		}
		r.expansion = mount
	}

	r.monkData = r.datasetFile(r.expansion.Dir + monkSentinel)
	r.musicData = r.datasetFile(r.expansion.Dir+musicSentinel) || r.datasetFile(r.expansion.Dir+musicSentinel2)
	r.voiceData = r.datasetFile(r.expansion.Dir+voiceSentinel) || r.datasetFile(r.expansion.Dir+voiceSentinel2)

	// Bard and barbarian stay disabled in unpacked mode because their data
	// shares paths with the rogue and warrior.
	r.opts.Flags.Set(flags.FlagBard, false)
	r.opts.Flags.Set(flags.FlagBarbarian, false)
	r.opts.Flags.Set(flags.FlagExpansionMusic, r.musicData)
	r.opts.Flags.Set(flags.FlagExpansionVoice, r.voiceData)

	if !r.monkData || !r.musicData || !r.voiceData {
		return r.expansionIncomplete()
	}
	return nil
}

func (r *Registry) datasetFile(path string) bool {
	ok, _ := afero.Exists(r.opts.Fs, path)
	return ok
}

func (r *Registry) reacquire(name string, retry func() *Mount) (*Mount, error) {
	if r.opts.Recovery == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrArchiveNotFound)
	}
	return r.opts.Recovery.Reacquire(name, r.searchPaths, retry)
}

func (r *Registry) expansionIncomplete() error {
	r.opts.Dialog.Error("Some game archives are missing",
		"Not all expansion archives were found.\nPlease copy all the hf*.mpq files.")
	return ErrExpansionIncomplete
}

// Clear empties every slot, closing containers and discarding dataset paths.
// Idempotent: clearing an empty registry is a no-op.
func (r *Registry) Clear() {
	for _, slot := range []**Mount{
		&r.lang, &r.fonts, &r.sotw,
		&r.voice, &r.music, &r.barbarian, &r.bard, &r.monk,
		&r.expansion, &r.primary,
	} {
		(*slot).Close()
		*slot = nil
	}
	r.monkData, r.musicData, r.voiceData = false, false, false
}

// SlotStatus describes one slot for diagnostics (the verify command).
type SlotStatus struct {
	Name     string
	Required bool
	Found    bool

	// Source is where the content was found: directory plus archive name in
	// packed mode, the dataset directory in unpacked mode, or "" when the
	// presence is sentinel-derived.
	Source string
}

func slotStatus(name string, required bool, m *Mount) SlotStatus {
	s := SlotStatus{Name: name, Required: required}
	if m == nil {
		return s
	}
	s.Found = true
	switch {
	case m.Dir != "":
		s.Source = m.Dir
	case m.Source == "":
		s.Source = "./" + m.Name
	default:
		s.Source = m.Source + m.Name
	}
	return s
}

// Slots reports every slot in mount order. In unpacked mode the expansion
// content lives in one dataset, so the monk, music and voice rows report the
// sentinel probe results instead of per-archive mounts.
func (r *Registry) Slots() []SlotStatus {
	langName := "<language>"
	if r.lang != nil {
		langName = r.lang.Name
	}
	if r.opts.Locator.Unpacked() {
		return []SlotStatus{
			slotStatus(fontsDataset, false, r.fonts),
			slotStatus(langName, false, r.lang),
			slotStatus(primaryDataset, true, r.primary),
			slotStatus(expansionDataset, true, r.expansion),
			{Name: "monk graphics", Required: true, Found: r.monkData},
			{Name: "expansion music", Required: true, Found: r.musicData},
			{Name: "expansion voice", Required: true, Found: r.voiceData},
		}
	}
	return []SlotStatus{
		slotStatus(coreArchive, false, r.sotw),
		slotStatus(fontsArchive, false, r.fonts),
		slotStatus(langName, false, r.lang),
		slotStatus(primaryArchive, true, r.primary),
		slotStatus(expansionArchive, true, r.expansion),
		slotStatus(monkArchive, true, r.monk),
		slotStatus(bardArchive, false, r.bard),
		slotStatus(barbarianArchive, false, r.barbarian),
		slotStatus(musicArchive, true, r.music),
		slotStatus(voiceArchive, true, r.voice),
	}
}
