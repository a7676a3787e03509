package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kiotlab/ember/internal/arduino"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print ember and arduino-cli versions",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ember %s\n", version)

		cfg, err := loadConfig()
		if err != nil {
			return
		}
		cli := arduino.NewCLI(cfg.CLIPath)
		if v, err := cli.Version(); err == nil {
			fmt.Println(v)
		} else {
			fmt.Printf("%s not available: %v\n", cfg.CLIPath, err)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
