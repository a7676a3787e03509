package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiotlab/ember/internal/app"
	"github.com/kiotlab/ember/internal/config"
	"github.com/kiotlab/ember/internal/store"
	"github.com/kiotlab/ember/internal/ui"
)

// monitorController is the slice of the session coordinator the page
// drives; satisfied by session.Coordinator.
type monitorController interface {
	StartMonitor(port string, baud int) error
	StopMonitor()
	MonitorRunning() bool
}

type monitorLineMsg struct{ line string }

type MonitorPage struct {
	controller monitorController
	lines      <-chan string
	store      *store.Store
	cfg        *config.Config

	port          string
	output        strings.Builder
	viewport      viewport.Model
	width, height int
	message       string
}

// NewMonitorPage builds the monitor page. lines carries output from the
// serial monitor; the page keeps one pending read on it at all times.
func NewMonitorPage(controller monitorController, lines <-chan string, s *store.Store, cfg *config.Config) *MonitorPage {
	return &MonitorPage{
		controller: controller,
		lines:      lines,
		store:      s,
		cfg:        cfg,
		port:       cfg.SerialPort,
		viewport:   viewport.New(0, 0),
	}
}

func (p *MonitorPage) Init() tea.Cmd {
	if p.lines == nil {
		return nil
	}
	return waitForMonitorLine(p.lines)
}

func (p *MonitorPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case app.PortSelectedMsg:
		p.port = msg.Port
		return p, nil

	case monitorLineMsg:
		p.output.WriteString(msg.line + "\n")
		p.viewport.SetContent(p.output.String())
		p.viewport.GotoBottom()
		return p, waitForMonitorLine(p.lines)

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "enter":
			return p, p.start()
		case "d":
			if p.controller != nil && p.controller.MonitorRunning() {
				p.controller.StopMonitor()
				p.message = "Disconnected"
			}
			return p, nil
		case "c":
			p.output.Reset()
			p.viewport.SetContent("")
			p.message = ""
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *MonitorPage) start() tea.Cmd {
	if p.controller == nil {
		return nil
	}
	if p.port == "" {
		p.message = "No serial port selected (press p in the sidebar)"
		return nil
	}
	if p.controller.MonitorRunning() {
		p.message = "Already connected"
		return nil
	}

	baud := p.cfg.SerialBaudRate
	if err := p.controller.StartMonitor(p.port, baud); err != nil {
		p.message = fmt.Sprintf("Failed to connect: %v", err)
		return nil
	}
	p.message = fmt.Sprintf("Connected to %s @ %d", p.port, baud)
	if p.store != nil {
		p.store.AddMonitor(store.MonitorRecord{
			Port:      p.port,
			BaudRate:  baud,
			Timestamp: time.Now(),
		})
	}
	return nil
}

// waitForMonitorLine relays the next serial line into the update loop.
func waitForMonitorLine(lines <-chan string) tea.Cmd {
	return func() tea.Msg {
		return monitorLineMsg{line: <-lines}
	}
}

func (p *MonitorPage) View() string {
	var b strings.Builder
	b.WriteString(ui.Title("Monitor"))
	b.WriteString("\n")

	status := "disconnected"
	if p.controller != nil && p.controller.MonitorRunning() {
		status = fmt.Sprintf("connected: %s @ %d", p.port, p.cfg.SerialBaudRate)
	}
	b.WriteString("  " + ui.DimStyle.Render(status) + "\n")
	if p.message != "" {
		b.WriteString("  " + p.message + "\n")
	}
	b.WriteString("\n")

	if p.output.Len() == 0 {
		b.WriteString(ui.DimStyle.Render("  Press s to connect."))
	} else {
		b.WriteString(p.viewport.View())
	}
	return b.String()
}

func (p *MonitorPage) Name() string { return "Monitor" }

func (p *MonitorPage) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "connect")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "disconnect")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
	}
}

func (p *MonitorPage) SetSize(w, h int) {
	p.width = w
	p.height = h
	vpHeight := h - 6
	if vpHeight < 3 {
		vpHeight = 3
	}
	p.viewport.Width = w - 4
	p.viewport.Height = vpHeight
}
