// Package cmd implements the sotw command line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shadowed-pilgrims/sotw/internal/app"
	"github.com/shadowed-pilgrims/sotw/internal/config"
	"github.com/shadowed-pilgrims/sotw/internal/log"
	"github.com/shadowed-pilgrims/sotw/internal/ui"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "sotw",
	Short:   "Shadow of the West game client",
	Long:    `Native client for Shadow of the West. Point it at an existing retail, GOG or Steam install (or copy the .mpq archives next to the executable) and play.`,
	Version: version,
	RunE:    runGame,

	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: <user config dir>/sotw/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "",
		"directory holding the game archives (default: the executable's directory)")
	rootCmd.PersistentFlags().String("lang", "",
		"language code, e.g. de or pt_BR (default: en)")
	rootCmd.PersistentFlags().Bool("unpacked", false,
		"read assets from unpacked directory trees instead of .mpq archives")
	rootCmd.PersistentFlags().Bool("headless", false,
		"never prompt; fail immediately when required archives are missing")
	rootCmd.PersistentFlags().Bool("debug", false,
		"verbose diagnostic logging")

	// Bind flags to viper
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("lang"))
	_ = viper.BindPFlag("unpacked", rootCmd.PersistentFlags().Lookup("unpacked"))
	_ = viper.BindPFlag("headless", rootCmd.PersistentFlags().Lookup("headless"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("language", defaults.Language)
	viper.SetDefault("unpacked", defaults.Unpacked)
	viper.SetDefault("headless", defaults.Headless)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(dir, "sotw"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SOTW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "reading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parsing config: %v\n", err)
		os.Exit(1)
	}
}

func initLogging() func() {
	cleanup := func() {}
	if cfg.LogFile != "" {
		if c, err := log.Init(cfg.LogFile); err == nil {
			cleanup = c
		} else {
			fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
			log.InitStderr()
		}
	} else {
		log.InitStderr()
	}
	if cfg.Debug {
		log.SetMinLevel(log.LevelVerbose)
	}
	return cleanup
}

func runGame(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cleanup := initLogging()
	defer cleanup()

	var a *app.App
	if cfg.Headless {
		a = app.NewDryRun(cfg)
	} else {
		a = app.New(cfg, ui.NewTerm(os.Stdin, os.Stderr))
	}
	defer a.Shutdown()

	if err := a.Mount(); err != nil {
		return fmt.Errorf("mounting game data: %w", err)
	}
	log.Info(log.CatApp, "Game data mounted", "flags", a.Registry().Flags().All())

	// The renderer and game loop attach here.
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string displayed by --version.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
