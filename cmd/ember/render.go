package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiotlab/ember/internal/deviceid"
	"github.com/kiotlab/ember/internal/template"
)

var renderFlags struct {
	ssid       string
	password   string
	server     string
	serverPort string
	deviceID   string
}

var renderCmd = &cobra.Command{
	Use:   "render <sensor>",
	Short: "Render a firmware template to stdout without flashing",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderFlags.ssid, "ssid", "", "WiFi network name")
	f.StringVar(&renderFlags.password, "password", "", "WiFi password")
	f.StringVar(&renderFlags.server, "server", "", "MQTT broker address")
	f.StringVar(&renderFlags.serverPort, "server-port", "1883", "MQTT broker port")
	f.StringVar(&renderFlags.deviceID, "device-id", "", "device ID (default: auto-generated)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sensor, ok := template.SensorByCategory(args[0])
	if !ok {
		return fmt.Errorf("unknown sensor category %q", args[0])
	}

	registry, err := template.OpenRegistry(cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	source, ok := registry.Template(sensor.Category)
	if !ok {
		return fmt.Errorf("no template for %s in %s", sensor.Category, cfg.TemplatesDir)
	}

	id := renderFlags.deviceID
	if id == "" {
		id = deviceid.AutoID(sensor.Category, time.Now())
	}
	params := template.Params{
		SSID:          renderFlags.ssid,
		Password:      renderFlags.password,
		ServerAddress: renderFlags.server,
		ServerPort:    renderFlags.serverPort,
		DeviceID:      id,
	}

	fmt.Print(template.Render(source, params.Substitutions(sensor.Topics)))
	return nil
}
