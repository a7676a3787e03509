package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiotlab/ember/internal/app"
	"github.com/kiotlab/ember/internal/arduino"
	"github.com/kiotlab/ember/internal/flash"
	"github.com/kiotlab/ember/internal/pages"
	"github.com/kiotlab/ember/internal/serial"
	"github.com/kiotlab/ember/internal/session"
	"github.com/kiotlab/ember/internal/template"
)

func runTUI() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry, err := template.OpenRegistry(cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	// Hot reload keeps long provisioning sessions in sync with template
	// edits; failure to watch is not fatal.
	registry.Watch()
	defer registry.Close()

	st := openHistory(cfg)
	cli := arduino.NewCLI(cfg.CLIPath)

	lines := make(chan string, 256)
	mon := serial.NewMonitor(func(line string) {
		// Drop lines when the UI falls behind rather than stalling the
		// read loop.
		select {
		case lines <- line:
		default:
		}
	})
	mon.SetPollInterval(cfg.PollInterval())

	coord := session.NewCoordinator(mon)
	orch := flash.NewOrchestrator(cli, cfg.FQBN)
	svc := flash.NewService(orch, coord, st)

	pageMap := map[app.PageID]app.Page{
		app.FlashPage:    pages.NewFlashPage(svc, registry, &cfg),
		app.MonitorPage:  pages.NewMonitorPage(coord, lines, st, &cfg),
		app.PortsPage:    pages.NewPortsPage(),
		app.HistoryPage:  pages.NewHistoryPage(st),
		app.SettingsPage: pages.NewSettingsPage(&cfg, ""),
	}

	model := app.New(pageMap, &cfg)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	mon.Stop()
	return nil
}
