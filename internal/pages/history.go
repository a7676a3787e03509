package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiotlab/ember/internal/app"
	"github.com/kiotlab/ember/internal/store"
	"github.com/kiotlab/ember/internal/ui"
)

const maxHistoryRows = 20

type historyLoadedMsg struct {
	flashes []store.FlashRecord
	err     error
}

type HistoryPage struct {
	store         *store.Store
	flashes       []store.FlashRecord
	err           error
	width, height int
}

func NewHistoryPage(s *store.Store) *HistoryPage {
	return &HistoryPage{store: s}
}

func (p *HistoryPage) Init() tea.Cmd {
	return p.load()
}

func (p *HistoryPage) load() tea.Cmd {
	s := p.store
	return func() tea.Msg {
		if s == nil {
			return historyLoadedMsg{}
		}
		flashes, err := s.Flashes()
		return historyLoadedMsg{flashes: flashes, err: err}
	}
}

func (p *HistoryPage) Update(msg tea.Msg) (app.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		p.flashes = msg.flashes
		p.err = msg.err
		return p, nil

	case flashDoneMsg:
		// A flash just finished somewhere; refresh.
		return p, p.load()

	case tea.KeyMsg:
		if msg.String() == "r" {
			return p, p.load()
		}
	}
	return p, nil
}

func (p *HistoryPage) View() string {
	var inner strings.Builder

	switch {
	case p.err != nil:
		inner.WriteString(ui.ErrorBadge("ERR") + " " + p.err.Error())
	case len(p.flashes) == 0:
		inner.WriteString(ui.DimStyle.Render("No flash runs recorded yet."))
	default:
		// Newest first
		start := len(p.flashes) - 1
		shown := 0
		for i := start; i >= 0 && shown < maxHistoryRows; i-- {
			r := p.flashes[i]
			badge := ui.ErrorBadge("FAIL")
			if r.Success {
				badge = ui.SuccessBadge(" OK ")
			}
			line := fmt.Sprintf("%s %s  %-10s %-8s %-14s %s",
				badge,
				r.Timestamp.Format("2006-01-02 15:04"),
				r.Sketch, r.Sensor, r.Port,
				ui.DimStyle.Render(r.Duration))
			inner.WriteString(line + "\n")
			shown++
		}
	}

	return ui.Panel("History", inner.String(), p.width, 0, false)
}

func (p *HistoryPage) Name() string { return "History" }

func (p *HistoryPage) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (p *HistoryPage) SetSize(w, h int) {
	p.width = w
	p.height = h
}
