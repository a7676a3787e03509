package serial

import (
	"bytes"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultPollInterval bounds how long the read loop waits for input
	// before checking the stop flag again; stop latency is bounded by it.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultReopenDelay gives the OS time to release a port between a
	// close and the immediately following open, avoiding port-busy errors.
	DefaultReopenDelay = time.Second
)

// LineFunc receives one decoded, trimmed line read from the device.
type LineFunc func(line string)

// devicePort is the slice of go.bug.st/serial.Port the monitor needs.
// Tests inject fakes through the open hook.
type devicePort interface {
	Read(p []byte) (n int, err error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Monitor owns one serial port and emits incoming lines to an observer
// until stopped. It never holds more than one open handle; the session
// coordinator guarantees at most one owner of the port process-wide.
type Monitor struct {
	emit         LineFunc
	pollInterval time.Duration
	reopenDelay  time.Duration

	open func(name string, baud int) (devicePort, error)

	mu      sync.Mutex
	port    string
	baud    int
	running bool
	stop    chan struct{}
	stopped chan struct{}
}

// NewMonitor creates a stopped monitor reporting lines to emit.
func NewMonitor(emit LineFunc) *Monitor {
	return &Monitor{
		emit:         emit,
		pollInterval: DefaultPollInterval,
		reopenDelay:  DefaultReopenDelay,
		open:         openPort,
	}
}

// SetPollInterval overrides the poll interval for subsequent sessions.
func (m *Monitor) SetPollInterval(d time.Duration) {
	if d > 0 {
		m.pollInterval = d
	}
}

func openPort(name string, baud int) (devicePort, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return serial.Open(name, mode)
}

// Start opens the port and begins the background read loop. If a session
// is already running it is stopped first and the monitor pauses briefly
// so the OS releases the port before reopening.
func (m *Monitor) Start(portName string, baud int) error {
	if m.Running() {
		m.Stop()
		time.Sleep(m.reopenDelay)
	}

	dev, err := m.open(portName, baud)
	if err != nil {
		return err
	}
	dev.SetReadTimeout(m.pollInterval)

	m.mu.Lock()
	m.port = portName
	m.baud = baud
	m.running = true
	m.stop = make(chan struct{})
	m.stopped = make(chan struct{})
	stop, stopped := m.stop, m.stopped
	m.mu.Unlock()

	go m.readLoop(dev, stop, stopped)
	return nil
}

// Stop signals the read loop and blocks until it has closed the device
// and exited, so the caller can safely reclaim the port. Safe to call
// when not running.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stop, stopped := m.stop, m.stopped
	m.mu.Unlock()

	close(stop)
	<-stopped
}

// Running reports whether a session is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Port returns the port name of the current or most recent session.
func (m *Monitor) Port() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.port
}

// Baud returns the baud rate of the current or most recent session.
func (m *Monitor) Baud() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baud
}

// readLoop polls the device for input, assembling complete lines and
// checking the stop flag once per iteration. The read timeout set on the
// device bounds each iteration.
func (m *Monitor) readLoop(dev devicePort, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	defer dev.Close()

	buf := make([]byte, 1024)
	var pending []byte
	for {
		select {
		case <-stop:
			m.flush(pending)
			return
		default:
		}

		n, err := dev.Read(buf)
		if err != nil {
			// Device went away (unplugged, or closed under us).
			m.flush(pending)
			m.mu.Lock()
			m.running = false
			m.mu.Unlock()
			return
		}
		if n == 0 {
			continue // read timeout, poll again
		}

		pending = append(pending, buf[:n]...)
		for {
			i := bytes.IndexAny(pending, "\r\n")
			if i < 0 {
				break
			}
			m.flush(pending[:i])
			pending = append(pending[:0], pending[i+1:]...)
		}
	}
}

func (m *Monitor) flush(raw []byte) {
	if len(raw) == 0 || m.emit == nil {
		return
	}
	line := strings.TrimSpace(strings.ToValidUTF8(string(raw), "�"))
	if line == "" {
		return
	}
	m.emit(line)
}
