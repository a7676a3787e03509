package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiotlab/ember/internal/app"
	"github.com/kiotlab/ember/internal/serial"
	"github.com/kiotlab/ember/internal/ui"
)

type PortsPage struct {
	ports         []serial.PortInfo
	loaded        bool
	err           error
	width, height int
}

func NewPortsPage() *PortsPage {
	return &PortsPage{}
}

func (p *PortsPage) Init() tea.Cmd {
	return app.LoadPorts()
}

func (p *PortsPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case app.PortsLoadedMsg:
		p.loaded = true
		p.ports = msg.Ports
		p.err = msg.Err
		return p, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			p.loaded = false
			return p, app.LoadPorts()
		}
	}
	return p, nil
}

func (p *PortsPage) View() string {
	var inner strings.Builder

	switch {
	case !p.loaded:
		inner.WriteString(ui.DimStyle.Render("Scanning..."))
	case p.err != nil:
		inner.WriteString(ui.ErrorBadge("ERR") + " " + p.err.Error())
	case len(p.ports) == 0:
		inner.WriteString(ui.DimStyle.Render("No serial ports detected."))
	default:
		for _, port := range p.ports {
			line := fmt.Sprintf("%-24s", port.Name)
			if port.IsUSB {
				line += ui.DimStyle.Render(fmt.Sprintf("USB %s:%s", port.VID, port.PID))
				if port.SerialNumber != "" {
					line += ui.DimStyle.Render("  sn " + port.SerialNumber)
				}
			}
			inner.WriteString(line + "\n")
		}
	}

	return ui.Panel("Ports", inner.String(), p.width, 0, false)
}

func (p *PortsPage) Name() string { return "Ports" }

func (p *PortsPage) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
	}
}

func (p *PortsPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}
