package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err, "an explicit missing file is an error")

	// No file at all falls back to defaults.
	v := New()
	v.AddConfigPath(t.TempDir())
	cfg, err = Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, DefaultCLIPath, cfg.CLIPath)
	assert.Equal(t, DefaultFQBN, cfg.FQBN)
	assert.Equal(t, DefaultBaudRate, cfg.SerialBaudRate)
	assert.Equal(t, DefaultTemplatesDir, cfg.TemplatesDir)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.yml")
	body := "serial_port: /dev/ttyUSB0\nserial_baud_rate: 9600\nbroker_url: tcp://broker.local:1883\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.SerialPort)
	assert.Equal(t, 9600, cfg.SerialBaudRate)
	assert.Equal(t, "tcp://broker.local:1883", cfg.BrokerURL)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultFQBN, cfg.FQBN)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("EMBER_FQBN", "esp32:esp32:esp32wrover")

	v := New()
	v.AddConfigPath(t.TempDir())
	cfg, err := Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, "esp32:esp32:esp32wrover", cfg.FQBN)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"zero baud":     "serial_baud_rate: 0\n",
		"negative poll": "poll_interval_ms: -5\n",
		"empty fqbn":    "fqbn: \"\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ember.yml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			_, err := Load(New(), path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yml")
	in := Config{
		CLIPath:        "/usr/local/bin/arduino-cli",
		FQBN:           DefaultFQBN,
		SerialPort:     "/dev/ttyACM0",
		SerialBaudRate: 115200,
		PollIntervalMS: 250,
		TemplatesDir:   "templates",
		BrokerURL:      "tcp://broker.local:1883",
	}
	require.NoError(t, Save(in, path))

	out, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
