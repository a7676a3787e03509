// Package session arbitrates ownership of the serial port between the
// background monitor and a flash run. The port has at most one owner at
// any instant; transfer is always mediated here, never implicit.
package session

import "sync"

// MonitorSession is the slice of the serial monitor the coordinator
// drives. Stop must block until the session has fully exited.
type MonitorSession interface {
	Start(port string, baud int) error
	Stop()
	Running() bool
}

// Coordinator enforces the strict sequence around a flash run: stop the
// monitor and wait for it to exit, run the job, then resume the monitor
// on the same port and baud it used before. Uploads fail with a port-busy
// error if the monitor still holds the handle, so this is mandatory, not
// best-effort.
type Coordinator struct {
	mon MonitorSession

	mu     sync.Mutex
	resume bool
	port   string
	baud   int
}

func NewCoordinator(mon MonitorSession) *Coordinator {
	return &Coordinator{mon: mon}
}

// StartMonitor opens a monitor session and records its settings so a
// later flash run can restore it.
func (c *Coordinator) StartMonitor(port string, baud int) error {
	c.mu.Lock()
	c.port, c.baud = port, baud
	c.mu.Unlock()
	return c.mon.Start(port, baud)
}

// StopMonitor stops the session, blocking until it has exited.
func (c *Coordinator) StopMonitor() {
	c.mon.Stop()
}

// MonitorRunning reports whether a monitor session is active.
func (c *Coordinator) MonitorRunning() bool {
	return c.mon.Running()
}

// Begin releases the serial port ahead of a flash run. If the monitor is
// running it is stopped synchronously and marked for resumption after the
// run. Begin returns only once the port is free.
func (c *Coordinator) Begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resume = c.mon.Running()
	if c.resume {
		c.mon.Stop()
	}
}

// End resumes the monitor on the port and baud recorded at StartMonitor,
// if it was running when Begin was called. Called after every run,
// success or failure.
func (c *Coordinator) End() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.resume {
		return nil
	}
	c.resume = false
	return c.mon.Start(c.port, c.baud)
}

// WithPortReleased runs fn with the monitor fully stopped, then resumes
// it regardless of what fn did with the port.
func (c *Coordinator) WithPortReleased(fn func()) error {
	c.Begin()
	fn()
	return c.End()
}
