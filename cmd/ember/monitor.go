package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiotlab/ember/internal/serial"
	"github.com/kiotlab/ember/internal/store"
)

var monitorFlags struct {
	port string
	baud int
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print serial output from a device until interrupted",
	RunE:  runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorFlags.port, "port", "", "serial port (default from config)")
	monitorCmd.Flags().IntVar(&monitorFlags.baud, "baud", 0, "baud rate (default from config)")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	port := monitorFlags.port
	if port == "" {
		port = cfg.SerialPort
	}
	if port == "" {
		return errors.New("no serial port given (--port) or configured (serial_port)")
	}
	baud := monitorFlags.baud
	if baud == 0 {
		baud = cfg.SerialBaudRate
	}

	mon := serial.NewMonitor(func(line string) { fmt.Println(line) })
	mon.SetPollInterval(cfg.PollInterval())
	if err := mon.Start(port, baud); err != nil {
		return fmt.Errorf("open %s: %w", port, err)
	}
	fmt.Fprintf(os.Stderr, "Connected to %s @ %d (ctrl+c to exit)\n", port, baud)

	openHistory(cfg).AddMonitor(store.MonitorRecord{
		Port:      port,
		BaudRate:  baud,
		Timestamp: time.Now(),
	})

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	<-ctx.Done()

	mon.Stop()
	return nil
}
