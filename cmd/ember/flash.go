package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiotlab/ember/internal/arduino"
	"github.com/kiotlab/ember/internal/deviceid"
	"github.com/kiotlab/ember/internal/flash"
	"github.com/kiotlab/ember/internal/template"
	"github.com/kiotlab/ember/internal/verify"
)

var flashFlags struct {
	sensor        string
	port          string
	ssid          string
	password      string
	server        string
	serverPort    string
	deviceID      string
	verify        bool
	verifyTimeout time.Duration
}

var flashCmd = &cobra.Command{
	Use:   "flash",
	Short: "Render firmware for a sensor and compile/upload it",
	RunE:  runFlash,
}

func init() {
	f := flashCmd.Flags()
	f.StringVar(&flashFlags.sensor, "sensor", "", "sensor category (one of: BME280, DHT, HX711, MPU6050)")
	f.StringVar(&flashFlags.port, "port", "", "serial port (default from config)")
	f.StringVar(&flashFlags.ssid, "ssid", "", "WiFi network name")
	f.StringVar(&flashFlags.password, "password", "", "WiFi password")
	f.StringVar(&flashFlags.server, "server", "", "MQTT broker address baked into the firmware")
	f.StringVar(&flashFlags.serverPort, "server-port", "1883", "MQTT broker port baked into the firmware")
	f.StringVar(&flashFlags.deviceID, "device-id", "", "device ID (default: auto-generated)")
	f.BoolVar(&flashFlags.verify, "verify", false, "wait for the device's first MQTT publish after flashing")
	f.DurationVar(&flashFlags.verifyTimeout, "verify-timeout", verify.DefaultTimeout, "how long to wait for the first publish")
	flashCmd.MarkFlagRequired("sensor")
	flashCmd.MarkFlagRequired("ssid")
	rootCmd.AddCommand(flashCmd)
}

func runFlash(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sensor, ok := template.SensorByCategory(flashFlags.sensor)
	if !ok {
		return fmt.Errorf("unknown sensor category %q", flashFlags.sensor)
	}

	registry, err := template.OpenRegistry(cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	source, ok := registry.Template(sensor.Category)
	if !ok {
		return fmt.Errorf("no template for %s in %s", sensor.Category, cfg.TemplatesDir)
	}

	port := flashFlags.port
	if port == "" {
		port = cfg.SerialPort
	}
	if port == "" {
		return errors.New("no serial port given (--port) or configured (serial_port)")
	}

	id := flashFlags.deviceID
	if id == "" {
		id = deviceid.AutoID(sensor.Category, time.Now())
	}

	params := template.Params{
		SSID:          flashFlags.ssid,
		Password:      flashFlags.password,
		ServerAddress: flashFlags.server,
		ServerPort:    flashFlags.serverPort,
		DeviceID:      id,
	}
	rendered := template.Render(source, params.Substitutions(sensor.Topics))

	job := flash.NewJob(sensor.SketchName, sensor.Category, port, rendered)
	job.DeviceID = id

	cli := arduino.NewCLI(cfg.CLIPath)
	orch := flash.NewOrchestrator(cli, cfg.FQBN)
	svc := flash.NewService(orch, nil, openHistory(cfg))

	res := svc.Provision(job, func(line string) { fmt.Println(line) })
	if !res.OK() {
		return fmt.Errorf("flash failed: %s", res)
	}
	fmt.Printf("Device ID: %s\n", id)

	if !flashFlags.verify {
		return nil
	}
	if cfg.BrokerURL == "" {
		return errors.New("cannot verify: broker_url not configured")
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	checker := verify.NewChecker(cfg.BrokerURL)
	checker.Timeout = flashFlags.verifyTimeout
	fmt.Printf("Waiting for %s to publish on %s...\n", id, cfg.BrokerURL)
	topic, err := checker.WaitForDevice(ctx, id)
	if err != nil {
		return fmt.Errorf("device did not come online: %w", err)
	}
	fmt.Printf("Device online, first message on %s\n", topic)
	return nil
}
