package pages

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiotlab/ember/internal/arduino"
	"github.com/kiotlab/ember/internal/flash"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// fakeFlashService records jobs and replays scripted output lines.
type fakeFlashService struct {
	mu     sync.Mutex
	jobs   []flash.Job
	lines  []string
	result flash.Result
}

func (f *fakeFlashService) Provision(job flash.Job, emit arduino.LineFunc) flash.Result {
	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	f.mu.Unlock()
	for _, l := range f.lines {
		emit(l)
	}
	return f.result
}

func (f *fakeFlashService) lastJob() (flash.Job, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.jobs) == 0 {
		return flash.Job{}, false
	}
	return f.jobs[len(f.jobs)-1], true
}

// fakeTemplates serves canned template source per category.
type fakeTemplates struct {
	byCategory map[string]string
}

func (f *fakeTemplates) Template(category string) (string, bool) {
	text, ok := f.byCategory[category]
	return text, ok
}

// fakeController implements monitorController.
type fakeController struct {
	running  bool
	startErr error
	port     string
	baud     int
	stops    int
}

func (c *fakeController) StartMonitor(port string, baud int) error {
	if c.startErr != nil {
		return c.startErr
	}
	c.running = true
	c.port, c.baud = port, baud
	return nil
}

func (c *fakeController) StopMonitor() {
	c.running = false
	c.stops++
}

func (c *fakeController) MonitorRunning() bool { return c.running }
