package assets

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/shadowed-pilgrims/sotw/internal/flags"
)

func newPackedRegistry(o *fakeOpener, d *fakeDialog, lang string) *Registry {
	return NewRegistry(Options{
		Locator:  Packed{Open: o.open},
		Paths:    testPaths,
		Language: func() string { return lang },
		Dialog:   d,
		Headless: true,
	})
}

func TestLoadCoreArchives_AbsenceIsSilent(t *testing.T) {
	o := newFakeOpener()
	d := &fakeDialog{}
	r := newPackedRegistry(o, d, "en")

	r.LoadCoreArchives()
	require.Nil(t, r.fonts)
	require.Empty(t, d.errorTitles)
}

func TestLoadCoreArchives_MountsFonts(t *testing.T) {
	o := newFakeOpener()
	o.add("/home/user/.data/fonts.mpq")
	r := newPackedRegistry(o, &fakeDialog{}, "en")

	r.LoadCoreArchives()
	require.NotNil(t, r.fonts)
	require.Equal(t, "/home/user/.data/", r.fonts.Source)
}

func TestLoadLanguageArchive_DefaultMountsNothing(t *testing.T) {
	o := newFakeOpener()
	o.add("/install/en.mpq") // present but must not be consulted
	r := newPackedRegistry(o, &fakeDialog{}, "en")

	r.LoadLanguageArchive()
	require.Nil(t, r.lang)
	require.Empty(t, o.attempts)
}

func TestLoadLanguageArchive_MissingStaysEmpty(t *testing.T) {
	o := newFakeOpener()
	r := newPackedRegistry(o, &fakeDialog{}, "de")

	r.LoadLanguageArchive()
	require.Nil(t, r.lang, "missing language archive is not an error")
}

func TestLoadLanguageArchive_MountsActiveLanguage(t *testing.T) {
	o := newFakeOpener()
	o.add("/install/de.mpq")
	r := newPackedRegistry(o, &fakeDialog{}, "de")

	r.LoadLanguageArchive()
	require.NotNil(t, r.lang)
	require.Equal(t, "de.mpq", r.lang.Name)
}

func TestLoadLanguageArchive_SwitchClosesPrevious(t *testing.T) {
	o := newFakeOpener()
	de := o.add("/install/de.mpq")
	o.add("/install/fr.mpq")

	lang := "de"
	r := NewRegistry(Options{
		Locator:  Packed{Open: o.open},
		Paths:    testPaths,
		Language: func() string { return lang },
		Dialog:   &fakeDialog{},
		Headless: true,
	})

	r.LoadLanguageArchive()
	require.NotNil(t, r.lang)

	lang = "fr"
	r.LoadLanguageArchive()
	require.True(t, de.closed, "previous language archive must be closed before the new one opens")
	require.Equal(t, "fr.mpq", r.lang.Name)
}

func TestLoadGameArchives_FullInstall(t *testing.T) {
	o := newFakeOpener()
	o.allGamePacked("/install/")
	r := newPackedRegistry(o, &fakeDialog{}, "en")

	require.NoError(t, r.LoadGameArchives())
	require.NotNil(t, r.primary)
	require.NotNil(t, r.expansion)
	require.True(t, r.Flags().Enabled(flags.FlagBard))
	require.True(t, r.Flags().Enabled(flags.FlagBarbarian))
}

func TestLoadGameArchives_LowerCaseRetry(t *testing.T) {
	o := newFakeOpener()
	o.allGamePacked("/install/")
	delete(o.archives, "/install/DIABDAT.MPQ")
	// GOG installs ship the primary archive lower-case in the user data dir.
	o.add("/home/user/.data/diabdat.mpq", titleArtPacked)

	r := newPackedRegistry(o, &fakeDialog{}, "en")
	require.NoError(t, r.LoadGameArchives())
	require.Equal(t, "diabdat.mpq", r.primary.Name)
	require.Equal(t, "/home/user/.data/", r.primary.Source)
}

func TestLoadGameArchives_OptionalAbsenceLeavesFlagsFalse(t *testing.T) {
	o := newFakeOpener()
	o.allGamePacked("/install/")
	delete(o.archives, "/install/"+bardArchive)
	delete(o.archives, "/install/"+barbarianArchive)

	d := &fakeDialog{}
	r := newPackedRegistry(o, d, "en")
	require.NoError(t, r.LoadGameArchives(), "optional absence never fails the stage")
	require.False(t, r.Flags().Enabled(flags.FlagBard))
	require.False(t, r.Flags().Enabled(flags.FlagBarbarian))
	require.Empty(t, d.errorTitles)
}

func TestLoadGameArchives_SingleOptionalSetsOnlyItsFlag(t *testing.T) {
	o := newFakeOpener()
	o.allGamePacked("/install/")
	delete(o.archives, "/install/"+barbarianArchive)

	r := newPackedRegistry(o, &fakeDialog{}, "en")
	require.NoError(t, r.LoadGameArchives())
	require.True(t, r.Flags().Enabled(flags.FlagBard))
	require.False(t, r.Flags().Enabled(flags.FlagBarbarian))
}

func TestLoadGameArchives_MandatorySubsetViolationIsFatal(t *testing.T) {
	o := newFakeOpener()
	o.allGamePacked("/install/")
	delete(o.archives, "/install/"+musicArchive)

	d := &fakeDialog{}
	r := newPackedRegistry(o, d, "en")
	err := r.LoadGameArchives()
	require.ErrorIs(t, err, ErrExpansionIncomplete)
	require.NotErrorIs(t, err, ErrRecoveryDeclined, "must be distinguishable from declined recovery")
	require.Len(t, d.errorTitles, 1, "the configuration error is shown before terminating")
}

func TestLoadGameArchives_PrimaryMissingWithoutRecovery(t *testing.T) {
	o := newFakeOpener()
	o.allGamePacked("/install/")
	delete(o.archives, "/install/DIABDAT.MPQ")

	r := newPackedRegistry(o, &fakeDialog{}, "en")
	err := r.LoadGameArchives()
	require.ErrorIs(t, err, ErrArchiveNotFound)
}

func TestLoadGameArchives_RecoveryDeclined(t *testing.T) {
	o := newFakeOpener()
	d := &fakeDialog{} // no scripted responses: declines immediately
	r := NewRegistry(Options{
		Locator:  Packed{Open: o.open},
		Paths:    testPaths,
		Dialog:   d,
		Recovery: NewRecovery(d, false),
		Headless: true,
	})

	err := r.LoadGameArchives()
	require.ErrorIs(t, err, ErrRecoveryDeclined)
	require.Equal(t, []string{"diabdat.mpq"}, d.insertCalls)
}

func TestLoadGameArchives_RecoveryRetrySucceeds(t *testing.T) {
	o := newFakeOpener()
	o.allGamePacked("/install/")
	delete(o.archives, "/install/DIABDAT.MPQ")

	d := &fakeDialog{responses: []bool{true}}
	d.onInsert = func(name string) {
		// The user copies the archive in before confirming the prompt.
		o.add("/install/DIABDAT.MPQ", titleArtPacked)
	}
	r := NewRegistry(Options{
		Locator:  Packed{Open: o.open},
		Paths:    testPaths,
		Dialog:   d,
		Recovery: NewRecovery(d, false),
		Headless: true,
	})

	require.NoError(t, r.LoadGameArchives())
	require.NotNil(t, r.primary)
}

func TestLoadGameArchives_TitleArtVerification(t *testing.T) {
	o := newFakeOpener()
	o.allGamePacked("/install/")
	delete(o.archives, "/install/DIABDAT.MPQ")
	bogus := o.add("/install/DIABDAT.MPQ") // opens fine but has no title art

	r := NewRegistry(Options{
		Locator: Packed{Open: o.open},
		Paths:   testPaths,
		Dialog:  &fakeDialog{},
	})

	err := r.LoadGameArchives()
	require.ErrorIs(t, err, ErrArchiveNotFound)
	require.True(t, bogus.closed, "a rejected primary archive must be closed")
}

func TestClear_Idempotent(t *testing.T) {
	o := newFakeOpener()
	o.allGamePacked("/install/")
	o.add("/install/fonts.mpq")
	primary := o.archives["/install/DIABDAT.MPQ"]

	r := newPackedRegistry(o, &fakeDialog{}, "en")
	r.LoadCoreArchives()
	require.NoError(t, r.LoadGameArchives())

	r.Clear()
	require.True(t, primary.closed)
	require.Nil(t, r.primary)

	r.Clear() // clearing an empty registry is a no-op
	require.Nil(t, r.fonts)
}

func unpackedFs(t *testing.T, sentinels ...string) afero.Fs {
	t.Helper()
	memFs := afero.NewMemMapFs()
	require.NoError(t, memFs.MkdirAll("/install/diabdat", 0755))
	require.NoError(t, afero.WriteFile(memFs, "/install/diabdat/"+titleArtUnpacked, []byte("clx"), 0644))
	require.NoError(t, memFs.MkdirAll("/install/hellfire", 0755))
	for _, s := range sentinels {
		require.NoError(t, afero.WriteFile(memFs, "/install/hellfire/"+s, []byte("x"), 0644))
	}
	return memFs
}

func TestLoadGameDatasets_FullInstall(t *testing.T) {
	memFs := unpackedFs(t, monkSentinel, musicSentinel, voiceSentinel)
	r := NewRegistry(Options{
		Locator: Unpacked{Fs: memFs},
		Fs:      memFs,
		Paths:   testPaths,
		Dialog:  &fakeDialog{},
	})

	require.NoError(t, r.LoadGameArchives())
	require.Equal(t, "/install/diabdat/", r.primary.Dir)
	require.False(t, r.Flags().Enabled(flags.FlagBard), "bard stays disabled in unpacked mode")
	require.True(t, r.Flags().Enabled(flags.FlagExpansionMusic))
}

func TestLoadGameDatasets_Mp3SentinelsAccepted(t *testing.T) {
	memFs := unpackedFs(t, monkSentinel, musicSentinel2, voiceSentinel2)
	r := NewRegistry(Options{
		Locator: Unpacked{Fs: memFs},
		Fs:      memFs,
		Paths:   testPaths,
		Dialog:  &fakeDialog{},
	})

	require.NoError(t, r.LoadGameArchives())
}

func TestLoadGameDatasets_MissingVoiceIsFatal(t *testing.T) {
	memFs := unpackedFs(t, monkSentinel, musicSentinel)
	d := &fakeDialog{}
	r := NewRegistry(Options{
		Locator: Unpacked{Fs: memFs},
		Fs:      memFs,
		Paths:   testPaths,
		Dialog:  d,
	})

	err := r.LoadGameArchives()
	require.ErrorIs(t, err, ErrExpansionIncomplete)
	require.Len(t, d.errorTitles, 1)
}

func TestSlots_ReportsMountState(t *testing.T) {
	o := newFakeOpener()
	o.allGamePacked("/install/")
	r := newPackedRegistry(o, &fakeDialog{}, "en")
	require.NoError(t, r.LoadGameArchives())

	var found int
	for _, s := range r.Slots() {
		if s.Found {
			found++
			require.NotEmpty(t, s.Source)
		}
	}
	require.Equal(t, 7, found, "primary, expansion and the five hf archives")
}

func TestSlots_UnpackedCompleteInstall(t *testing.T) {
	memFs := unpackedFs(t, monkSentinel, musicSentinel, voiceSentinel)
	r := NewRegistry(Options{
		Locator: Unpacked{Fs: memFs},
		Fs:      memFs,
		Paths:   testPaths,
		Dialog:  &fakeDialog{},
	})

	require.NoError(t, r.LoadGameArchives())
	for _, s := range r.Slots() {
		if s.Required {
			require.True(t, s.Found, "required slot %q reported missing on a complete install", s.Name)
		}
	}
}

func TestSlots_UnpackedMissingVoiceReported(t *testing.T) {
	memFs := unpackedFs(t, monkSentinel, musicSentinel)
	r := NewRegistry(Options{
		Locator: Unpacked{Fs: memFs},
		Fs:      memFs,
		Paths:   testPaths,
		Dialog:  &fakeDialog{},
	})

	require.ErrorIs(t, r.LoadGameArchives(), ErrExpansionIncomplete)
	byName := map[string]SlotStatus{}
	for _, s := range r.Slots() {
		byName[s.Name] = s
	}
	require.True(t, byName["monk graphics"].Found)
	require.True(t, byName["expansion music"].Found)
	require.False(t, byName["expansion voice"].Found)
}

func TestLoadGameArchives_RecoveredPrimaryStillVerified(t *testing.T) {
	o := newFakeOpener()
	o.allGamePacked("/install/")
	delete(o.archives, "/install/DIABDAT.MPQ")

	var bogus *fakeContainer
	d := &fakeDialog{responses: []bool{true}} // exhausted responses decline
	d.onInsert = func(name string) {
		if bogus == nil {
			// The user copies in an archive without the title art.
			bogus = o.add("/install/DIABDAT.MPQ")
		}
	}
	r := NewRegistry(Options{
		Locator:  Packed{Open: o.open},
		Paths:    testPaths,
		Dialog:   d,
		Recovery: NewRecovery(d, false),
	})

	err := r.LoadGameArchives()
	require.ErrorIs(t, err, ErrRecoveryDeclined, "a recovered archive without title art must not be accepted")
	require.True(t, bogus.closed)
}
