// Package arduino drives the external arduino-cli toolchain: library
// installs, sketch compilation and uploads over a serial port.
package arduino

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCLIPath is the executable name used when none is configured.
// arduino-cli must be on PATH in that case.
const DefaultCLIPath = "arduino-cli"

// LineFunc receives one decoded, trimmed line of toolchain output, in
// arrival order.
type LineFunc func(line string)

// Runner executes one toolchain invocation and reports success. The flash
// orchestrator depends on this interface so tests can script outcomes.
type Runner interface {
	Run(emit LineFunc, args ...string) bool
}

// CLI runs arduino-cli subcommands, streaming merged stdout/stderr to the
// caller line by line. Retry policy belongs to the orchestrator, not here.
type CLI struct {
	Path string
}

func NewCLI(path string) *CLI {
	if path == "" {
		path = DefaultCLIPath
	}
	return &CLI{Path: path}
}

// Run executes one subcommand. Output is read byte by byte so a line is
// emitted as soon as a newline or carriage return arrives, and a trailing
// partial line is flushed when the stream ends; tools that print progress
// without terminators still surface in real time. Returns true iff the
// process exits zero. Launch failures are reported as log lines and never
// propagated as errors.
func (c *CLI) Run(emit LineFunc, args ...string) bool {
	if emit == nil {
		emit = func(string) {}
	}
	emit(fmt.Sprintf("---> Executing: %s %s", c.Path, strings.Join(args, " ")))

	if _, err := exec.LookPath(c.Path); err != nil {
		emit(fmt.Sprintf("ERROR: %q not found. Make sure Arduino CLI is installed and in your PATH.", c.Path))
		return false
	}

	cmd := exec.Command(c.Path, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		emit(fmt.Sprintf("ERROR: could not attach to toolchain output: %v", err))
		return false
	}
	cmd.Stderr = cmd.Stdout // merge stderr into stdout

	if err := cmd.Start(); err != nil {
		emit(fmt.Sprintf("ERROR: could not start toolchain: %v", err))
		return false
	}

	reader := bufio.NewReader(stdout)
	var line bytes.Buffer
	for {
		b, err := reader.ReadByte()
		if err != nil {
			if line.Len() > 0 {
				emit(decodeLine(line.Bytes()))
			}
			break
		}
		if b == '\n' || b == '\r' {
			emit(decodeLine(line.Bytes()))
			line.Reset()
			continue
		}
		line.WriteByte(b)
	}

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			emit(fmt.Sprintf("COMMAND FAILED with return code %d.", exitErr.ExitCode()))
		} else {
			emit(fmt.Sprintf("COMMAND FAILED: %v", err))
		}
		return false
	}

	emit("COMMAND SUCCESSFUL.")
	return true
}

// decodeLine converts raw bytes to text, substituting the replacement
// character for invalid encoding rather than failing, and trims
// surrounding whitespace.
func decodeLine(raw []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(raw), "�"))
}
