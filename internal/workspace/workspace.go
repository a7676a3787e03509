// Package workspace manages the isolated build directories handed to the
// Arduino toolchain. The toolchain requires the sketch source to live in a
// folder whose name exactly matches the sketch name:
//
//	<root>/<sketch>/<sketch>.ino
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SourceExt is the extension arduino-cli expects for sketch sources.
const SourceExt = ".ino"

// Workspace describes one prepared build directory, owned exclusively by a
// single in-flight flash job.
type Workspace struct {
	Root       string
	SketchDir  string
	SketchFile string
}

// Manager creates and destroys build workspaces. Every Prepare yields a
// fresh, uniquely named root; roots are never reused across jobs.
type Manager struct {
	mu   sync.Mutex
	last string
}

func NewManager() *Manager { return &Manager{} }

// Prepare creates a new workspace containing source. Any leftover root
// from the previous job is removed first, best-effort, to prevent stale
// builds; a failure there is reported through warn and does not stop the
// new job. On error, partially created paths are left in place for
// inspection.
func (m *Manager) Prepare(sketchName, source string, warn func(line string)) (*Workspace, error) {
	m.mu.Lock()
	last := m.last
	m.mu.Unlock()
	if last != "" {
		if err := os.RemoveAll(last); err != nil && warn != nil {
			warn(fmt.Sprintf("WARN: could not remove previous workspace %s: %v", last, err))
		}
	}

	root, err := os.MkdirTemp("", "ember_")
	if err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	m.mu.Lock()
	m.last = root
	m.mu.Unlock()

	sketchDir := filepath.Join(root, sketchName)
	if err := os.MkdirAll(sketchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create sketch folder: %w", err)
	}

	sketchFile := filepath.Join(sketchDir, sketchName+SourceExt)
	if err := os.WriteFile(sketchFile, []byte(source), 0o644); err != nil {
		return nil, fmt.Errorf("write sketch source: %w", err)
	}

	return &Workspace{Root: root, SketchDir: sketchDir, SketchFile: sketchFile}, nil
}

// Destroy removes the workspace root recursively. Failures are reported
// through warn and never returned; destroy must not block shutdown. A nil
// workspace is a no-op.
func (m *Manager) Destroy(ws *Workspace, warn func(line string)) {
	if ws == nil {
		return
	}
	if err := os.RemoveAll(ws.Root); err != nil {
		if warn != nil {
			warn(fmt.Sprintf("WARN: could not remove workspace %s: %v", ws.Root, err))
		}
		return
	}
	m.mu.Lock()
	if m.last == ws.Root {
		m.last = ""
	}
	m.mu.Unlock()
}
