package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiotlab/ember/internal/serial"
)

// PageID identifies each page in the application.
type PageID int

const (
	FlashPage PageID = iota
	MonitorPage
	PortsPage
	HistoryPage
	SettingsPage
)

var PageOrder = []PageID{
	FlashPage,
	MonitorPage,
	PortsPage,
	HistoryPage,
	SettingsPage,
}

// Page is the interface every page in the application implements.
type Page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	View() string
	Name() string
	ShortHelp() []key.Binding
	SetSize(width, height int)
}

// InputCapturer is an optional interface for pages with text inputs.
// When InputCaptured returns true, the app forwards all keys directly
// to the page instead of processing shortcuts like q, ?, left, etc.
type InputCapturer interface {
	InputCaptured() bool
}

// PortSelectedMsg is broadcast to all pages when a serial port is selected.
type PortSelectedMsg struct {
	Port string
}

// PortsLoadedMsg carries the result of a serial port enumeration.
type PortsLoadedMsg struct {
	Ports []serial.PortInfo
	Err   error
}

// LoadPorts enumerates serial ports off the update loop.
func LoadPorts() tea.Cmd {
	return func() tea.Msg {
		ports, err := serial.ListPorts()
		return PortsLoadedMsg{Ports: ports, Err: err}
	}
}
