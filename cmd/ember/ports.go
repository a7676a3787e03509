package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kiotlab/ember/internal/serial"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List detected serial ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.ListPorts()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Println("No serial ports detected.")
			return nil
		}
		for _, p := range ports {
			if p.IsUSB {
				fmt.Printf("%-24s USB %s:%s", p.Name, p.VID, p.PID)
				if p.SerialNumber != "" {
					fmt.Printf("  sn %s", p.SerialNumber)
				}
				fmt.Println()
			} else {
				fmt.Println(p.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
