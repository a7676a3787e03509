//go:build integration

package integration

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/kiotlab/ember/internal/arduino"
	"github.com/kiotlab/ember/internal/workspace"
)

// requireCLI skips the test unless arduino-cli is on PATH.
func requireCLI(t *testing.T) *arduino.CLI {
	t.Helper()
	if _, err := exec.LookPath(arduino.DefaultCLIPath); err != nil {
		t.Skip("arduino-cli not on PATH; skipping integration tests")
	}
	return arduino.NewCLI("")
}

// TestIntegrationVersion invokes the real arduino-cli and asserts a
// non-empty version string.
func TestIntegrationVersion(t *testing.T) {
	cli := requireCLI(t)

	out, err := cli.Version()
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	t.Logf("arduino-cli version: %s", out)
	if out == "" {
		t.Fatal("expected non-empty version output")
	}
}

// TestIntegrationLibList runs `arduino-cli lib list` through the line
// streaming runner and asserts exit success.
func TestIntegrationLibList(t *testing.T) {
	cli := requireCLI(t)

	var lines []string
	ok := cli.Run(func(line string) { lines = append(lines, line) }, "lib", "list")

	t.Logf("lib list output:\n%s", strings.Join(lines, "\n"))
	if !ok {
		t.Fatal("lib list failed")
	}
	if len(lines) == 0 {
		t.Fatal("expected streamed output lines")
	}
}

// TestIntegrationCompile compiles a minimal sketch in a fresh workspace.
// Requires a board core to be installed; set EMBER_TEST_FQBN to enable.
func TestIntegrationCompile(t *testing.T) {
	cli := requireCLI(t)

	fqbn := os.Getenv("EMBER_TEST_FQBN")
	if fqbn == "" {
		t.Skip("EMBER_TEST_FQBN not set; skipping compile test")
	}

	const source = `void setup() {}
void loop() {}
`
	mgr := workspace.NewManager()
	ws, err := mgr.Prepare("blink_nothing", source, func(line string) { t.Log(line) })
	if err != nil {
		t.Fatalf("prepare workspace: %v", err)
	}
	defer mgr.Destroy(ws, nil)

	var lines []string
	ok := cli.Compile(func(line string) { lines = append(lines, line) }, fqbn, ws.SketchDir)

	t.Logf("compile output:\n%s", strings.Join(lines, "\n"))
	if !ok {
		t.Fatalf("compile failed for %s", fqbn)
	}
}
