package pages

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiotlab/ember/internal/config"
)

func TestSettingsArrowKeyNavigation(t *testing.T) {
	cfg := config.Defaults()
	p := NewSettingsPage(&cfg, filepath.Join(t.TempDir(), "ember.yml"))

	if p.cursor != 0 {
		t.Fatalf("expected cursor=0, got %d", p.cursor)
	}

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	if p.cursor != 1 {
		t.Fatalf("expected cursor=1 after down, got %d", p.cursor)
	}

	for i := 0; i < len(settingFields); i++ {
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	if p.cursor != len(settingFields)-1 {
		t.Fatalf("expected cursor to clamp at %d, got %d", len(settingFields)-1, p.cursor)
	}

	p.cursor = 0
	p.Update(tea.KeyMsg{Type: tea.KeyUp})
	if p.cursor != 0 {
		t.Fatalf("expected cursor to clamp at 0, got %d", p.cursor)
	}
}

func TestSettingsEnterEditMode(t *testing.T) {
	cfg := config.Defaults()
	p := NewSettingsPage(&cfg, filepath.Join(t.TempDir(), "ember.yml"))

	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !p.editing {
		t.Fatal("expected editing=true after Enter")
	}

	p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.editing {
		t.Fatal("expected editing=false after Esc")
	}
}

func TestSettingsApplyBaudRate(t *testing.T) {
	cfg := config.Defaults()
	p := NewSettingsPage(&cfg, filepath.Join(t.TempDir(), "ember.yml"))

	for settingFields[p.cursor].key != "serial_baud_rate" {
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.input.SetValue("9600")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cfg.SerialBaudRate != 9600 {
		t.Fatalf("expected SerialBaudRate=9600, got %d", cfg.SerialBaudRate)
	}
}

func TestSettingsRejectsInvalidBaudRate(t *testing.T) {
	cfg := config.Defaults()
	original := cfg.SerialBaudRate
	p := NewSettingsPage(&cfg, filepath.Join(t.TempDir(), "ember.yml"))

	for settingFields[p.cursor].key != "serial_baud_rate" {
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p.input.SetValue("not-a-number")
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cfg.SerialBaudRate != original {
		t.Fatalf("expected SerialBaudRate to remain %d, got %d", original, cfg.SerialBaudRate)
	}
	if p.editing {
		t.Fatal("expected editing=false after enter")
	}
}

func TestSettingsSaveWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ember.yml")
	cfg := config.Defaults()
	cfg.SerialPort = "/dev/ttyUSB3"
	p := NewSettingsPage(&cfg, path)

	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})

	if p.message == "" {
		t.Fatal("expected message after save")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("expected config file at %s, not found", path)
	}

	loaded, err := config.Load(config.New(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.SerialPort != "/dev/ttyUSB3" {
		t.Fatalf("expected SerialPort=/dev/ttyUSB3, got %q", loaded.SerialPort)
	}
}
