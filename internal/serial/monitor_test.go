package serial

import (
	"io"
	"sync"
	"testing"
	"time"
)

// fakePort scripts a sequence of read chunks. Once the chunks are
// exhausted it behaves like a port with nothing buffered (timeout reads).
type fakePort struct {
	mu     sync.Mutex
	chunks [][]byte
	closed bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0, io.EOF
	}
	if len(p.chunks) == 0 {
		p.mu.Unlock()
		time.Sleep(time.Millisecond)
		return 0, nil
	}
	c := p.chunks[0]
	p.chunks = p.chunks[1:]
	p.mu.Unlock()
	return copy(b, c), nil
}

func (p *fakePort) SetReadTimeout(time.Duration) error { return nil }

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePort) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// newFakeMonitor wires a monitor to a scripted port and a line channel.
func newFakeMonitor(port *fakePort) (*Monitor, chan string) {
	lines := make(chan string, 16)
	m := NewMonitor(func(line string) { lines <- line })
	m.reopenDelay = 0
	m.open = func(string, int) (devicePort, error) { return port, nil }
	return m, lines
}

func waitLine(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case l := <-lines:
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a line")
		return ""
	}
}

func TestMonitorEmitsLinesAcrossChunkBoundaries(t *testing.T) {
	port := &fakePort{chunks: [][]byte{
		[]byte("temp: 2"),
		[]byte("1\nhum"),
		[]byte("idity: 40\n"),
	}}
	m, lines := newFakeMonitor(port)

	if err := m.Start("/dev/ttyUSB0", 115200); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Stop()

	if got := waitLine(t, lines); got != "temp: 21" {
		t.Errorf("expected first line %q, got %q", "temp: 21", got)
	}
	if got := waitLine(t, lines); got != "humidity: 40" {
		t.Errorf("expected second line %q, got %q", "humidity: 40", got)
	}
}

func TestMonitorStopJoinsAndClosesPort(t *testing.T) {
	port := &fakePort{}
	m, _ := newFakeMonitor(port)

	if err := m.Start("/dev/ttyUSB0", 9600); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !m.Running() {
		t.Fatal("expected monitor to be running")
	}

	m.Stop()

	if m.Running() {
		t.Error("expected monitor to be stopped")
	}
	if !port.isClosed() {
		t.Error("expected Stop to close the device before returning")
	}
}

func TestMonitorStopFlushesPartialLine(t *testing.T) {
	port := &fakePort{chunks: [][]byte{[]byte("no newline yet")}}
	m, lines := newFakeMonitor(port)

	if err := m.Start("/dev/ttyUSB0", 115200); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	// Give the loop a chance to consume the chunk, then stop.
	time.Sleep(20 * time.Millisecond)
	m.Stop()

	if got := waitLine(t, lines); got != "no newline yet" {
		t.Errorf("expected flushed partial line, got %q", got)
	}
}

func TestMonitorStartWhileRunningReplacesSession(t *testing.T) {
	first := &fakePort{}
	second := &fakePort{}
	m, _ := newFakeMonitor(first)

	if err := m.Start("/dev/ttyUSB0", 115200); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}

	m.open = func(string, int) (devicePort, error) { return second, nil }
	if err := m.Start("/dev/ttyUSB1", 9600); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	defer m.Stop()

	if !first.isClosed() {
		t.Error("expected the first handle to be closed before reopening")
	}
	if m.Port() != "/dev/ttyUSB1" || m.Baud() != 9600 {
		t.Errorf("expected session settings to update, got %s @ %d", m.Port(), m.Baud())
	}
}

func TestMonitorStopWhenIdleIsNoOp(t *testing.T) {
	m := NewMonitor(nil)
	m.Stop()
}

func TestMonitorDeviceErrorEndsSession(t *testing.T) {
	port := &fakePort{}
	port.closed = true // reads fail immediately
	m, _ := newFakeMonitor(port)

	if err := m.Start("/dev/ttyUSB0", 115200); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.Running() {
		if time.Now().After(deadline) {
			t.Fatal("expected session to end after device error")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
