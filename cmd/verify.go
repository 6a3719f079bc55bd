package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/shadowed-pilgrims/sotw/internal/app"
	"github.com/shadowed-pilgrims/sotw/internal/assets"
	"github.com/shadowed-pilgrims/sotw/internal/flags"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check which game archives can be found",
	Long:  `Runs the full archive search without prompting and reports where each archive was found. Exits non-zero when a required archive is missing, so it can back install scripts.`,
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func runVerify(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cleanup := initLogging()
	defer cleanup()

	a := app.NewDryRun(cfg)
	defer a.Shutdown()

	mountErr := a.Mount()
	if mountErr != nil &&
		!errors.Is(mountErr, assets.ErrArchiveNotFound) &&
		!errors.Is(mountErr, assets.ErrExpansionIncomplete) {
		return mountErr
	}

	out := cmd.OutOrStdout()
	for _, slot := range a.Registry().Slots() {
		switch {
		case slot.Found && slot.Source != "":
			fmt.Fprintf(out, "%-16s %s\n", slot.Name, okStyle.Render(slot.Source))
		case slot.Found:
			fmt.Fprintf(out, "%-16s %s\n", slot.Name, okStyle.Render("present"))
		case slot.Required:
			fmt.Fprintf(out, "%-16s %s\n", slot.Name, missingStyle.Render("MISSING"))
		default:
			fmt.Fprintf(out, "%-16s %s\n", slot.Name, dimStyle.Render("not found (optional)"))
		}
	}

	reg := a.Registry()
	fmt.Fprintf(out, "\nbard: %v  barbarian: %v  music: %v  voice: %v\n",
		reg.Flags().Enabled(flags.FlagBard),
		reg.Flags().Enabled(flags.FlagBarbarian),
		reg.Flags().Enabled(flags.FlagExpansionMusic),
		reg.Flags().Enabled(flags.FlagExpansionVoice))

	if mountErr != nil {
		fmt.Fprintln(os.Stderr, missingStyle.Render("install incomplete"))
		return mountErr
	}
	fmt.Fprintln(out, okStyle.Render("install complete"))
	return nil
}
