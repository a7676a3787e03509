package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kiotlab/ember/internal/config"
	"github.com/kiotlab/ember/internal/ui"
)

type FocusArea int

const (
	FocusSidebar FocusArea = iota
	FocusContent
)

type Model struct {
	pages        map[PageID]Page
	activePage   PageID
	focus        FocusArea
	width        int
	height       int
	showHelp     bool
	selectedPort string
	picker       *Picker
	cfg          *config.Config
}

func New(pages map[PageID]Page, cfg *config.Config) Model {
	return Model{
		pages:        pages,
		cfg:          cfg,
		selectedPort: cfg.SerialPort,
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range m.pages {
		if cmd := p.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentWidth := m.width - sidebarWidth
		contentHeight := m.height - 2 - 1 // status bar + port bar
		for _, p := range m.pages {
			p.SetSize(contentWidth, contentHeight)
		}
		return m, nil

	case PortsLoadedMsg:
		// When the picker is open the enumeration was for it; otherwise
		// the result belongs to whichever page requested it.
		if m.picker != nil {
			if msg.Err != nil {
				return m, nil
			}
			var items []PickerItem
			for _, p := range msg.Ports {
				desc := ""
				if p.IsUSB {
					desc = p.VID + ":" + p.PID
				}
				items = append(items, PickerItem{
					Label: p.Name,
					Value: p.Name,
					Desc:  desc,
				})
			}
			m.picker.SetItems(items)
			return m, nil
		}
		return m.broadcast(msg)

	case PickerSelectedMsg:
		m.selectedPort = msg.Value
		m.picker = nil
		// Persist to config
		m.cfg.SerialPort = msg.Value
		config.Save(*m.cfg, "")
		// Broadcast to all pages
		return m, func() tea.Msg { return PortSelectedMsg{Port: msg.Value} }

	case PickerClosedMsg:
		m.picker = nil
		return m, nil

	case tea.KeyMsg:
		// When picker is open, forward all keys to picker
		if m.picker != nil {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}

		// When a page has an active text input, forward all keys
		// directly to the page; only ctrl+c still quits.
		if m.focus == FocusContent {
			if ic, ok := m.pages[m.activePage].(InputCapturer); ok && ic.InputCaptured() {
				if msg.String() == "ctrl+c" {
					return m, tea.Quit
				}
				page := m.pages[m.activePage]
				newPage, cmd := page.Update(msg)
				m.pages[m.activePage] = newPage
				return m, cmd
			}
		}

		// Global key handling
		switch {
		case key.Matches(msg, GlobalKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, GlobalKeys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, GlobalKeys.ToggleFocus):
			if m.focus == FocusSidebar {
				m.focus = FocusContent
				return m, nil
			}
			// When content focused, fall through to page handler
		}

		// Sidebar-only shortcuts
		if m.focus == FocusSidebar {
			if key.Matches(msg, GlobalKeys.PortPicker) {
				m.picker = NewPicker("Select Port")
				contentWidth := m.width - sidebarWidth
				contentHeight := m.height - 2 - 1
				m.picker.SetSize(contentWidth, contentHeight)
				return m, LoadPorts()
			}
		}

		// Handle arrow keys based on focus
		if m.focus == FocusSidebar {
			switch msg.String() {
			case "up":
				m.prevPage()
				return m, nil
			case "down":
				m.nextPage()
				return m, nil
			case "enter", "right":
				m.focus = FocusContent
				return m, nil
			}
		} else if m.focus == FocusContent {
			if msg.String() == "left" {
				m.focus = FocusSidebar
				return m, nil
			}
		}
	}

	// Key messages: only forward to active page when content is focused
	if _, isKey := msg.(tea.KeyMsg); isKey {
		if m.focus != FocusContent {
			return m, nil
		}
		page := m.pages[m.activePage]
		newPage, cmd := page.Update(msg)
		m.pages[m.activePage] = newPage
		return m, cmd
	}

	// Non-key messages (command results, etc.): forward to all pages
	// so responses reach the page that initiated the command
	return m.broadcast(msg)
}

func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for id, page := range m.pages {
		newPage, cmd := page.Update(msg)
		m.pages[id] = newPage
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	contentWidth := m.width - sidebarWidth
	contentHeight := m.height - 2 - 1 // status bar + port bar

	page := m.pages[m.activePage]

	portBar := renderPortBar(m.selectedPort, m.cfg.FQBN, m.width, m.focus == FocusSidebar)
	sidebar := renderSidebar(PageOrder, m.activePage, m.pages, contentHeight, m.focus == FocusSidebar)
	content := ui.ContentStyle.
		Width(contentWidth).
		Height(contentHeight).
		Render(page.View())

	// Overlay picker on content area when open
	if m.picker != nil {
		m.picker.SetSize(contentWidth, contentHeight)
		pickerView := m.picker.View()
		content = lipgloss.Place(
			contentWidth, contentHeight,
			lipgloss.Center, lipgloss.Center,
			pickerView,
		)
	}

	statusBar := renderStatusBar(page.ShortHelp(), m.width, m.focus)

	return renderLayout(portBar, sidebar, content, statusBar)
}

func (m *Model) nextPage() {
	for i, id := range PageOrder {
		if id == m.activePage {
			m.activePage = PageOrder[(i+1)%len(PageOrder)]
			return
		}
	}
}

func (m *Model) prevPage() {
	for i, id := range PageOrder {
		if id == m.activePage {
			m.activePage = PageOrder[(i-1+len(PageOrder))%len(PageOrder)]
			return
		}
	}
}
