// Package flash sequences library installation, workspace preparation,
// compilation and upload for one provisioning job, with guaranteed
// workspace cleanup whatever the outcome.
package flash

// Result is the structured outcome of a flash job, returned alongside the
// log stream so callers never have to parse log text.
type Result int

const (
	Success Result = iota
	DependencyInstallFailed
	WorkspaceFailed
	CompileFailed
	UploadFailed
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case DependencyInstallFailed:
		return "library install failed"
	case WorkspaceFailed:
		return "workspace preparation failed"
	case CompileFailed:
		return "compile failed"
	case UploadFailed:
		return "upload failed"
	}
	return "unknown"
}

// OK reports whether the job fully succeeded.
func (r Result) OK() bool { return r == Success }
