package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/kiotlab/ember/internal/ui"
)

const sidebarWidth = 22 // 20 content + 2 border/padding

func renderPortBar(selectedPort, fqbn string, width int, sidebarFocused bool) string {
	portDisplay := selectedPort
	if portDisplay == "" {
		portDisplay = "(none)"
	}
	boardDisplay := fqbn
	if boardDisplay == "" {
		boardDisplay = "(none)"
	}
	content := fmt.Sprintf("Port: %s  Board: %s", portDisplay, boardDisplay)
	hint := ""
	if sidebarFocused {
		hint = ui.DimStyle.Render("  [p] change")
	}
	return ui.StatusBarStyle.Width(width).Render(content + hint)
}

func renderSidebar(pages []PageID, active PageID, pageMap map[PageID]Page, height int, focused bool) string {
	var b strings.Builder
	var title string
	if focused {
		title = ui.BoldStyle.Render("ember [FOCUSED]")
	} else {
		title = ui.TitleStyle.Render("ember")
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	for _, id := range pages {
		p := pageMap[id]
		if id == active {
			b.WriteString(ui.SidebarActiveStyle.Render("▸ " + p.Name()))
		} else {
			b.WriteString(ui.SidebarItemStyle.Render("  " + p.Name()))
		}
		b.WriteString("\n")
	}

	style := ui.SidebarStyle.Height(height)
	if focused {
		style = style.BorderForeground(ui.Primary)
	}
	return style.Render(b.String())
}

func renderStatusBar(pageHelp []key.Binding, width int, focus FocusArea) string {
	var parts []string

	// Focus-specific instructions
	if focus == FocusSidebar {
		parts = append(parts,
			ui.StatusKey("↑/↓", "navigate"),
			ui.StatusKey("enter", "select"),
			ui.StatusKey("p", "port"),
		)
	} else {
		// Page-specific keys when content is focused
		for _, kb := range pageHelp {
			if kb.Enabled() {
				parts = append(parts, ui.StatusKey(kb.Help().Key, kb.Help().Desc))
			}
		}
	}

	// Always add global keys
	parts = append(parts,
		ui.StatusKey("tab", "focus"),
		ui.StatusKey("?", "help"),
		ui.StatusKey("q", "quit"),
	)

	line := strings.Join(parts, "  ")
	return ui.StatusBarStyle.Width(width).Render(line)
}

func renderLayout(portBar, sidebar, content, statusBar string) string {
	main := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	return lipgloss.JoinVertical(lipgloss.Left, portBar, main, statusBar)
}
