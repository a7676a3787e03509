// Command ember provisions ESP32 sensor nodes: it renders firmware from
// templates, drives arduino-cli to compile and upload, and monitors the
// device's serial output. Run without arguments it starts the TUI;
// subcommands expose the same operations for scripting.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kiotlab/ember/internal/config"
	"github.com/kiotlab/ember/internal/store"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ember",
	Short: "Provision ESP32 sensor nodes over arduino-cli",
	Long: `ember provisions ESP32 sensor nodes: it renders firmware source from
templates, installs library dependencies, compiles and uploads with
arduino-cli, and monitors the device over its serial port.

Run without arguments to start the interactive TUI.

Configuration is read from .ember.yml (current directory or
~/.config/ember), with EMBER_* environment variable overrides.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .ember.yml)")
}

func loadConfig() (config.Config, error) {
	return config.Load(config.New(), cfgFile)
}

// stateDir resolves where history records live.
func stateDir(cfg config.Config) string {
	if cfg.StateDir != "" {
		return cfg.StateDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ember"
	}
	return filepath.Join(home, ".config", "ember")
}

func openHistory(cfg config.Config) *store.Store {
	return store.New(stateDir(cfg))
}
