package flash

import (
	"fmt"
	"strings"

	"github.com/kiotlab/ember/internal/arduino"
	"github.com/kiotlab/ember/internal/serial"
	"github.com/kiotlab/ember/internal/workspace"
)

// Orchestrator runs flash jobs. A run is linear and non-reentrant: the
// caller must not start a second job before the previous one finished.
// There is no mid-job cancellation; a started run always reaches
// finalization, even when a step fails.
type Orchestrator struct {
	Runner     arduino.Runner
	Workspaces *workspace.Manager

	// FQBN is the fully qualified board name passed to compile and
	// upload. Fixed per deployment, not per job.
	FQBN string

	// ListPorts enumerates serial ports. Defaults to the local
	// enumerator; tests substitute their own.
	ListPorts func() ([]string, error)
}

func NewOrchestrator(runner arduino.Runner, fqbn string) *Orchestrator {
	return &Orchestrator{
		Runner:     runner,
		Workspaces: workspace.NewManager(),
		FQBN:       fqbn,
		ListPorts:  serial.PortNames,
	}
}

// Run executes the job to completion and returns its structured result,
// streaming progress lines to emit. The first failing library install
// aborts the job, a compile failure skips the upload, and workspace
// cleanup always runs. No error crosses the job boundary as a Go error;
// every failure becomes a log line plus an early exit through the
// deferred finalizer.
func (o *Orchestrator) Run(job Job, emit arduino.LineFunc) (res Result) {
	if emit == nil {
		emit = func(string) {}
	}

	var ws *workspace.Workspace
	defer func() {
		o.Workspaces.Destroy(ws, emit)
		emit(fmt.Sprintf("Job finished: %s", res))
	}()

	emit("--- Installing libraries ---")
	for _, lib := range job.Libraries {
		if !o.Runner.Run(emit, "lib", "install", lib) {
			emit(fmt.Sprintf("Failed to install %s library.", lib))
			return DependencyInstallFailed
		}
	}
	emit("--- Libraries installed ---")

	ports, err := o.ListPorts()
	if err != nil {
		emit(fmt.Sprintf("ERROR: could not list serial ports: %v", err))
	}
	emit(fmt.Sprintf("Available ports: [%s]", strings.Join(ports, ", ")))
	if len(ports) == 0 {
		// Diagnostic only: the upload step enforces its own port check.
		emit("ERROR: No serial ports detected. Cannot proceed with upload.")
	} else if !containsPort(ports, job.Port) {
		// Tolerated to allow manually entered ports the enumerator
		// cannot see, but worth flagging.
		emit(fmt.Sprintf("WARN: selected port %s is not among the detected ports.", job.Port))
	}

	ws, err = o.Workspaces.Prepare(job.SketchName, job.Source, emit)
	if err != nil {
		emit(fmt.Sprintf("Error preparing workspace: %v", err))
		return WorkspaceFailed
	}
	emit(fmt.Sprintf("Code generated and saved to: %s", ws.SketchFile))

	emit("--- Starting Compilation ---")
	if !o.Runner.Run(emit, "compile", "--fqbn", o.FQBN, ws.SketchDir) {
		emit("*** FAILED: COMPILATION FAILED ***")
		return CompileFailed
	}

	if len(ports) == 0 {
		emit("*** FAILED: UPLOAD FAILED OR PORT NOT FOUND ***")
		return UploadFailed
	}

	emit(fmt.Sprintf("--- Starting Upload to Port: %s ---", job.Port))
	if !o.Runner.Run(emit, "upload", "--fqbn", o.FQBN, "-p", job.Port, ws.SketchDir) {
		emit("*** FAILED: UPLOAD FAILED OR PORT NOT FOUND ***")
		return UploadFailed
	}

	emit("*** SUCCESS: CODE COMPILED AND UPLOADED ***")
	return Success
}

func containsPort(ports []string, port string) bool {
	for _, p := range ports {
		if p == port {
			return true
		}
	}
	return false
}
