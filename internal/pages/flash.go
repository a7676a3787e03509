package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"

	"github.com/kiotlab/ember/internal/app"
	"github.com/kiotlab/ember/internal/arduino"
	"github.com/kiotlab/ember/internal/config"
	"github.com/kiotlab/ember/internal/deviceid"
	"github.com/kiotlab/ember/internal/flash"
	"github.com/kiotlab/ember/internal/template"
	"github.com/kiotlab/ember/internal/ui"
)

type formField int

const (
	fieldSensor formField = iota
	fieldPort
	fieldSSID
	fieldPassword
	fieldServer
	fieldServerPort
	fieldDeviceID
	fieldCount
)

type flashState int

const (
	flashStateIdle flashState = iota
	flashStateRunning
	flashStateDone
)

const labelWidth = 11

// flashService runs a prepared job; satisfied by flash.Service.
type flashService interface {
	Provision(job flash.Job, emit arduino.LineFunc) flash.Result
}

// templateSource resolves a sensor category to its firmware template;
// satisfied by template.Registry.
type templateSource interface {
	Template(category string) (string, bool)
}

type flashLineMsg struct{ line string }

type flashDoneMsg struct{ result flash.Result }

type FlashPage struct {
	// Form inputs
	portInput       textinput.Model
	ssidInput       textinput.Model
	passwordInput   textinput.Model
	serverInput     textinput.Model
	serverPortInput textinput.Model
	deviceIDInput   textinput.Model

	// Sensor choice
	sensors      []string
	sensorCursor int

	// State
	focusedField formField
	state        flashState
	result       flash.Result
	output       strings.Builder
	viewport     viewport.Model
	events       chan tea.Msg

	// Dependencies
	service   flashService
	templates templateSource
	cfg       *config.Config

	width, height int
	message       string
}

func NewFlashPage(service flashService, templates templateSource, cfg *config.Config) *FlashPage {
	port := textinput.New()
	port.Placeholder = "/dev/ttyUSB0"
	port.CharLimit = 128
	port.Prompt = ""
	if cfg.SerialPort != "" {
		port.SetValue(cfg.SerialPort)
	}

	ssid := textinput.New()
	ssid.Placeholder = "network name"
	ssid.CharLimit = 64
	ssid.Prompt = ""

	password := textinput.New()
	password.Placeholder = "network password"
	password.CharLimit = 64
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword

	server := textinput.New()
	server.Placeholder = "broker address"
	server.CharLimit = 128
	server.Prompt = ""

	serverPort := textinput.New()
	serverPort.Placeholder = "1883"
	serverPort.CharLimit = 8
	serverPort.Prompt = ""

	deviceID := textinput.New()
	deviceID.Placeholder = "ctrl+a to auto-generate"
	deviceID.CharLimit = 128
	deviceID.Prompt = ""

	p := &FlashPage{
		portInput:       port,
		ssidInput:       ssid,
		passwordInput:   password,
		serverInput:     server,
		serverPortInput: serverPort,
		deviceIDInput:   deviceID,
		sensors:         template.SensorCategories(),
		viewport:        viewport.New(0, 0),
		service:         service,
		templates:       templates,
		cfg:             cfg,
		focusedField:    fieldSensor,
	}
	return p
}

func (p *FlashPage) Init() tea.Cmd { return nil }

func (p *FlashPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case app.PortSelectedMsg:
		p.portInput.SetValue(msg.Port)
		return p, nil

	case flashLineMsg:
		p.output.WriteString(msg.line + "\n")
		p.updateViewportContent()
		p.viewport.GotoBottom()
		return p, waitForFlashEvent(p.events)

	case flashDoneMsg:
		p.state = flashStateDone
		p.result = msg.result
		if msg.result.OK() {
			p.message = "Flash complete"
		} else {
			p.message = fmt.Sprintf("Flash failed: %s", msg.result)
		}
		p.updateViewportContent()
		p.viewport.GotoBottom()
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *FlashPage) handleKey(msg tea.KeyMsg) (app.Page, tea.Cmd) {
	// When running, only viewport scrolling
	if p.state == flashStateRunning {
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return p, cmd
	}

	keyStr := msg.String()

	switch keyStr {
	case "tab", "down":
		if keyStr == "down" && p.inputFocused() {
			p.advanceField(1)
			return p, nil
		}
		if keyStr == "tab" {
			p.advanceField(1)
			return p, nil
		}
	case "shift+tab", "up":
		if keyStr == "up" && p.inputFocused() {
			p.advanceField(-1)
			return p, nil
		}
		if keyStr == "shift+tab" {
			p.advanceField(-1)
			return p, nil
		}
	case "ctrl+f":
		return p, p.startFlash()
	case "ctrl+a":
		p.deviceIDInput.SetValue(deviceid.AutoID(p.sensor(), time.Now()))
		return p, nil
	case "esc":
		if p.state == flashStateDone {
			p.state = flashStateIdle
			p.result = 0
			p.output.Reset()
			p.message = ""
			p.updateViewportContent()
			return p, nil
		}
		p.blurAll()
		return p, nil
	}

	// Field-specific handling
	switch p.focusedField {
	case fieldSensor:
		switch keyStr {
		case "left":
			p.sensorCursor = (p.sensorCursor - 1 + len(p.sensors)) % len(p.sensors)
			return p, nil
		case "right", " ", "enter":
			p.sensorCursor = (p.sensorCursor + 1) % len(p.sensors)
			return p, nil
		case "up":
			p.advanceField(-1)
			return p, nil
		case "down":
			p.advanceField(1)
			return p, nil
		}
		return p, nil
	default:
		if keyStr == "enter" {
			if p.focusedField == fieldDeviceID {
				return p, p.startFlash()
			}
			p.advanceField(1)
			return p, nil
		}
		input := p.currentInput()
		if input == nil {
			return p, nil
		}
		var cmd tea.Cmd
		*input, cmd = input.Update(msg)
		return p, cmd
	}
}

func (p *FlashPage) sensor() string {
	if len(p.sensors) == 0 {
		return ""
	}
	return p.sensors[p.sensorCursor]
}

func (p *FlashPage) currentInput() *textinput.Model {
	switch p.focusedField {
	case fieldPort:
		return &p.portInput
	case fieldSSID:
		return &p.ssidInput
	case fieldPassword:
		return &p.passwordInput
	case fieldServer:
		return &p.serverInput
	case fieldServerPort:
		return &p.serverPortInput
	case fieldDeviceID:
		return &p.deviceIDInput
	}
	return nil
}

func (p *FlashPage) inputFocused() bool {
	in := p.currentInput()
	return in != nil && in.Focused()
}

func (p *FlashPage) advanceField(dir int) {
	if in := p.currentInput(); in != nil {
		in.Blur()
	}
	p.focusedField = formField((int(p.focusedField) + int(fieldCount) + dir) % int(fieldCount))
	if in := p.currentInput(); in != nil {
		in.Focus()
	}
}

func (p *FlashPage) blurAll() {
	p.portInput.Blur()
	p.ssidInput.Blur()
	p.passwordInput.Blur()
	p.serverInput.Blur()
	p.serverPortInput.Blur()
	p.deviceIDInput.Blur()
}

func (p *FlashPage) startFlash() tea.Cmd {
	sensor, ok := template.SensorByCategory(p.sensor())
	if !ok {
		p.message = "Unknown sensor category"
		return nil
	}
	port := p.portInput.Value()
	if port == "" {
		p.message = "Serial port is required"
		return nil
	}
	if p.ssidInput.Value() == "" {
		p.message = "WiFi SSID is required"
		return nil
	}

	source, ok := p.templates.Template(sensor.Category)
	if !ok {
		p.message = fmt.Sprintf("No template for %s", sensor.Category)
		return nil
	}

	deviceID := p.deviceIDInput.Value()
	if deviceID == "" {
		deviceID = deviceid.AutoID(sensor.Category, time.Now())
		p.deviceIDInput.SetValue(deviceID)
	}
	serverPort := p.serverPortInput.Value()
	if serverPort == "" {
		serverPort = "1883"
	}

	params := template.Params{
		SSID:          p.ssidInput.Value(),
		Password:      p.passwordInput.Value(),
		ServerAddress: p.serverInput.Value(),
		ServerPort:    serverPort,
		DeviceID:      deviceID,
	}
	rendered := template.Render(source, params.Substitutions(sensor.Topics))

	job := flash.NewJob(sensor.SketchName, sensor.Category, port, rendered)
	job.DeviceID = deviceID

	p.state = flashStateRunning
	p.result = 0
	p.message = ""
	p.output.Reset()
	p.output.WriteString(fmt.Sprintf("Flashing %s to %s...\n\n", sensor.SketchName, port))
	p.updateViewportContent()

	ch := make(chan tea.Msg, 64)
	p.events = ch
	service := p.service
	go func() {
		res := service.Provision(job, func(line string) {
			ch <- flashLineMsg{line: line}
		})
		ch <- flashDoneMsg{result: res}
		close(ch)
	}()
	return waitForFlashEvent(ch)
}

// waitForFlashEvent relays the next job event into the update loop.
func waitForFlashEvent(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (p *FlashPage) View() string {
	formHeight := 13
	outputHeight := p.height - formHeight - 1
	if outputHeight < 5 {
		outputHeight = 5
		formHeight = p.height - outputHeight - 1
	}

	form := p.viewForm(p.width)
	output := p.viewOutput(p.width, outputHeight)

	return lipgloss.JoinVertical(lipgloss.Left, form, output)
}

func (p *FlashPage) viewForm(width int) string {
	var b strings.Builder
	b.WriteString(ui.Title("Flash"))
	b.WriteString("\n")

	if p.message != "" {
		switch {
		case p.state == flashStateDone && p.result.OK():
			b.WriteString(ui.SuccessBadge("OK") + " " + p.message + "\n\n")
		case p.state == flashStateDone:
			b.WriteString(ui.ErrorBadge("FAIL") + " " + p.message + "\n\n")
		default:
			b.WriteString(ui.WarnStyle.Render(p.message) + "\n\n")
		}
	}

	inputWidth := width - labelWidth - 4
	if inputWidth < 10 {
		inputWidth = 10
	}
	p.portInput.Width = inputWidth
	p.ssidInput.Width = inputWidth
	p.passwordInput.Width = inputWidth
	p.serverInput.Width = inputWidth
	p.serverPortInput.Width = inputWidth
	p.deviceIDInput.Width = inputWidth

	focusedLabel := lipgloss.NewStyle().Foreground(ui.Primary).Bold(true)
	normalLabel := lipgloss.NewStyle().Foreground(ui.Text)

	renderLabel := func(name string, field formField) string {
		padded := fmt.Sprintf("%-9s", name)
		if p.focusedField == field {
			return focusedLabel.Render(padded)
		}
		return normalLabel.Render(padded)
	}

	// Sensor choice
	sensorVal := p.sensor()
	if p.focusedField == fieldSensor {
		sensorVal = "< " + sensorVal + " >"
	}
	b.WriteString(renderLabel("Sensor", fieldSensor) + " " + sensorVal + "\n")

	b.WriteString(renderLabel("Port", fieldPort) + " " + p.portInput.View() + "\n")
	b.WriteString(renderLabel("SSID", fieldSSID) + " " + p.ssidInput.View() + "\n")
	b.WriteString(renderLabel("Password", fieldPassword) + " " + p.passwordInput.View() + "\n")
	b.WriteString(renderLabel("Server", fieldServer) + " " + p.serverInput.View() + "\n")
	b.WriteString(renderLabel("Srv Port", fieldServerPort) + " " + p.serverPortInput.View() + "\n")
	b.WriteString(renderLabel("Device ID", fieldDeviceID) + " " + p.deviceIDInput.View() + "\n")

	b.WriteString("\n")
	b.WriteString(ui.DimStyle.Render("ctrl+f: flash  ctrl+a: auto device ID  tab: next field  esc: unfocus"))

	return b.String()
}

func (p *FlashPage) viewOutput(width int, height int) string {
	contentWidth := width - 3
	contentHeight := height - 2
	if contentWidth < 10 {
		contentWidth = 10
	}
	if contentHeight < 3 {
		contentHeight = 3
	}

	oldWidth := p.viewport.Width
	p.viewport.Width = contentWidth
	p.viewport.Height = contentHeight
	if oldWidth != contentWidth && p.output.Len() > 0 {
		p.updateViewportContent()
	}

	style := lipgloss.NewStyle().
		Width(width).
		Height(height).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderTop(true).
		BorderForeground(ui.Surface).
		PaddingLeft(1).
		PaddingTop(0)

	if p.output.Len() == 0 {
		return style.Render(ui.DimStyle.Render("Flash output will appear here..."))
	}
	return style.Render(p.viewport.View())
}

func (p *FlashPage) Name() string { return "Flash" }

func (p *FlashPage) ShortHelp() []key.Binding {
	if p.state == flashStateRunning {
		return []key.Binding{
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "flash")),
		key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "auto ID")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "unfocus")),
	}
}

func (p *FlashPage) InputCaptured() bool {
	return p.state == flashStateIdle && p.inputFocused()
}

func (p *FlashPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *FlashPage) updateViewportContent() {
	if p.viewport.Width > 0 {
		// Hard wrap handles long paths and compiler lines without spaces
		wrapped := wrap.String(p.output.String(), p.viewport.Width)
		lines := strings.Split(wrapped, "\n")
		for i, line := range lines {
			if ansi.PrintableRuneWidth(line) > p.viewport.Width {
				lines[i] = truncate.String(line, uint(p.viewport.Width))
			}
		}
		p.viewport.SetContent(strings.Join(lines, "\n"))
	} else {
		p.viewport.SetContent(p.output.String())
	}
}
