package flash

import "github.com/kiotlab/ember/internal/arduino"

// Job describes one flash request. A job is immutable once created,
// owned by the orchestrator for the duration of the run, and discarded
// afterwards.
type Job struct {
	// SketchName names the sketch; the workspace folder must match it
	// exactly, which the workspace manager guarantees.
	SketchName string

	// Sensor is the sensor category; it selected the libraries below.
	Sensor string

	// Port is the target serial port for the upload.
	Port string

	// Source is the fully rendered sketch source.
	Source string

	// DeviceID identifies the provisioned device; recorded in history and
	// used for post-flash verification. May be empty.
	DeviceID string

	// Libraries is the ordered install list, common library last.
	Libraries []string
}

// NewJob builds a job for a sensor category with the rendered source,
// resolving the library install list from the dependency table.
func NewJob(sketchName, sensor, port, source string) Job {
	return Job{
		SketchName: sketchName,
		Sensor:     sensor,
		Port:       port,
		Source:     source,
		Libraries:  arduino.LibrariesFor(sensor),
	}
}
