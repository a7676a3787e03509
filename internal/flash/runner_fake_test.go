package flash

import (
	"strings"

	"github.com/kiotlab/ember/internal/arduino"
)

// fakeRunner records toolchain invocations and fails the ones whose
// leading subcommand (or "lib <name>" pair) is marked.
type fakeRunner struct {
	calls  [][]string
	failOn map[string]bool
}

func newFakeRunner(failOn ...string) *fakeRunner {
	f := &fakeRunner{failOn: make(map[string]bool)}
	for _, key := range failOn {
		f.failOn[key] = true
	}
	return f
}

func (f *fakeRunner) Run(emit arduino.LineFunc, args ...string) bool {
	copied := append([]string(nil), args...)
	f.calls = append(f.calls, copied)
	if emit != nil {
		emit("ran: " + strings.Join(args, " "))
	}
	if f.failOn[args[0]] {
		return false
	}
	if args[0] == "lib" && len(args) >= 3 && f.failOn["lib "+args[2]] {
		return false
	}
	return true
}

// subcommands returns the first argument of each invocation, in order.
func (f *fakeRunner) subcommands() []string {
	var names []string
	for _, call := range f.calls {
		names = append(names, call[0])
	}
	return names
}

func (f *fakeRunner) invoked(subcommand string) bool {
	for _, name := range f.subcommands() {
		if name == subcommand {
			return true
		}
	}
	return false
}
