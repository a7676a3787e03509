package arduino

import (
	"fmt"
	"os/exec"
	"strings"
)

// LibInstall installs one Arduino library by name.
func (c *CLI) LibInstall(emit LineFunc, name string) bool {
	return c.Run(emit, "lib", "install", name)
}

// Compile builds the sketch folder at sketchPath for the given board.
func (c *CLI) Compile(emit LineFunc, fqbn, sketchPath string) bool {
	return c.Run(emit, "compile", "--fqbn", fqbn, sketchPath)
}

// Upload flashes the compiled sketch at sketchPath to the given serial
// port. The port must be free; a monitor still holding it makes the
// upload fail with a port-busy error.
func (c *CLI) Upload(emit LineFunc, fqbn, port, sketchPath string) bool {
	return c.Run(emit, "upload", "--fqbn", fqbn, "-p", port, sketchPath)
}

// Version returns the arduino-cli version string, or an error if the
// toolchain cannot be invoked.
func (c *CLI) Version() (string, error) {
	out, err := exec.Command(c.Path, "version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.Path, err)
	}
	return strings.TrimSpace(string(out)), nil
}
