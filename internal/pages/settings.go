package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiotlab/ember/internal/app"
	"github.com/kiotlab/ember/internal/config"
	"github.com/kiotlab/ember/internal/ui"
)

type settingField struct {
	label string
	key   string
}

var settingFields = []settingField{
	{"CLI Path", "cli_path"},
	{"Board FQBN", "fqbn"},
	{"Serial Port", "serial_port"},
	{"Serial Baud Rate", "serial_baud_rate"},
	{"Poll Interval ms", "poll_interval_ms"},
	{"Templates Dir", "templates_dir"},
	{"Broker URL", "broker_url"},
}

type SettingsPage struct {
	cfg           *config.Config
	configPath    string
	cursor        int
	editing       bool
	input         textinput.Model
	width, height int
	message       string
}

// NewSettingsPage edits cfg in place; s saves it to configPath (empty
// means the global config location).
func NewSettingsPage(cfg *config.Config, configPath string) *SettingsPage {
	ti := textinput.New()
	ti.CharLimit = 128
	return &SettingsPage{
		cfg:        cfg,
		configPath: configPath,
		input:      ti,
	}
}

func (p *SettingsPage) Init() tea.Cmd { return nil }

func (p *SettingsPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case app.PortSelectedMsg:
		p.cfg.SerialPort = msg.Port
		return p, nil

	case tea.KeyMsg:
		if p.editing {
			switch msg.String() {
			case "enter":
				p.applyValue(p.input.Value())
				p.editing = false
				p.input.Blur()
				return p, nil
			case "esc":
				p.editing = false
				p.input.Blur()
				return p, nil
			}
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			return p, cmd
		}

		switch msg.String() {
		case "down":
			if p.cursor < len(settingFields)-1 {
				p.cursor++
			}
		case "up":
			if p.cursor > 0 {
				p.cursor--
			}
		case "enter", "e":
			p.editing = true
			p.input.SetValue(p.getValue(p.cursor))
			p.input.Focus()
			return p, p.input.Focus()
		case "s":
			if err := config.Save(*p.cfg, p.configPath); err != nil {
				p.message = fmt.Sprintf("Error saving: %v", err)
			} else {
				p.message = "Settings saved"
			}
		}
	}
	return p, nil
}

func (p *SettingsPage) View() string {
	var inner strings.Builder

	for i, f := range settingFields {
		cursor := "  "
		if i == p.cursor {
			cursor = ui.BoldStyle.Render("> ")
		}

		val := p.getValue(i)
		if val == "" {
			val = ui.DimStyle.Render("(not set)")
		}

		line := fmt.Sprintf("%s%-20s %s", cursor, f.label, val)
		inner.WriteString(line)
		inner.WriteString("\n")
	}

	if p.editing {
		inner.WriteString("\n")
		inner.WriteString(fmt.Sprintf("  Edit %s:\n", settingFields[p.cursor].label))
		inner.WriteString("  " + p.input.View())
		inner.WriteString("\n")
	}

	if p.message != "" {
		inner.WriteString("\n  " + p.message)
	}

	return ui.Panel("Settings", inner.String(), p.width, 0, false)
}

func (p *SettingsPage) Name() string { return "Settings" }

func (p *SettingsPage) ShortHelp() []key.Binding {
	if p.editing {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save to disk")),
	}
}

func (p *SettingsPage) InputCaptured() bool {
	return p.editing
}

func (p *SettingsPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *SettingsPage) getValue(idx int) string {
	switch settingFields[idx].key {
	case "cli_path":
		return p.cfg.CLIPath
	case "fqbn":
		return p.cfg.FQBN
	case "serial_port":
		return p.cfg.SerialPort
	case "serial_baud_rate":
		return strconv.Itoa(p.cfg.SerialBaudRate)
	case "poll_interval_ms":
		return strconv.Itoa(p.cfg.PollIntervalMS)
	case "templates_dir":
		return p.cfg.TemplatesDir
	case "broker_url":
		return p.cfg.BrokerURL
	}
	return ""
}

func (p *SettingsPage) applyValue(val string) {
	switch settingFields[p.cursor].key {
	case "cli_path":
		p.cfg.CLIPath = val
	case "fqbn":
		p.cfg.FQBN = val
	case "serial_port":
		p.cfg.SerialPort = val
	case "serial_baud_rate":
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			p.cfg.SerialBaudRate = n
		}
	case "poll_interval_ms":
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			p.cfg.PollIntervalMS = n
		}
	case "templates_dir":
		p.cfg.TemplatesDir = val
	case "broker_url":
		p.cfg.BrokerURL = val
	}
	p.message = fmt.Sprintf("%s updated", settingFields[p.cursor].label)
}
