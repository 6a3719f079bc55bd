package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shadowed-pilgrims/sotw/internal/config"
)

var langCmd = &cobra.Command{
	Use:   "lang <code>",
	Short: "Set the language the client mounts at startup",
	Long:  `Writes the language code (e.g. de or pt_BR) to the config file, preserving any comments in it. The matching language archive is mounted on the next launch.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLang,
}

func init() {
	rootCmd.AddCommand(langCmd)
}

func runLang(cmd *cobra.Command, args []string) error {
	c := config.Defaults()
	c.Language = args[0]
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := configFilePath()
	if err != nil {
		return err
	}
	if err := config.SaveLanguage(path, c.Language); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "language set to %s\n", c.Language)
	return nil
}

// configFilePath is the file runLang writes: the --config override when
// given, otherwise the default location initConfig reads from.
func configFilePath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "sotw", "config.yaml"), nil
}
