package flash

import (
	"fmt"
	"time"

	"github.com/kiotlab/ember/internal/arduino"
	"github.com/kiotlab/ember/internal/session"
	"github.com/kiotlab/ember/internal/store"
)

// Service wraps the orchestrator with serial port arbitration and history
// recording. Every flash entry point, TUI or CLI, goes through here.
type Service struct {
	Orchestrator *Orchestrator
	Sessions     *session.Coordinator
	History      *store.Store

	now func() time.Time
}

// NewService builds a Service. Sessions and history may be nil; the
// corresponding steps are then skipped.
func NewService(o *Orchestrator, sessions *session.Coordinator, history *store.Store) *Service {
	return &Service{
		Orchestrator: o,
		Sessions:     sessions,
		History:      history,
		now:          time.Now,
	}
}

// Provision runs the job with the serial monitor stopped, resumes the
// monitor afterwards and appends a history record. The returned result is
// the orchestrator's, regardless of resume or history failures.
func (s *Service) Provision(job Job, emit arduino.LineFunc) Result {
	if emit == nil {
		emit = func(string) {}
	}
	start := s.now()

	var res Result
	run := func() { res = s.Orchestrator.Run(job, emit) }
	if s.Sessions != nil {
		if err := s.Sessions.WithPortReleased(run); err != nil {
			emit(fmt.Sprintf("WARN: failed to resume serial monitor: %v", err))
		}
	} else {
		run()
	}

	if s.History != nil {
		rec := store.FlashRecord{
			Sketch:    job.SketchName,
			Sensor:    job.Sensor,
			Port:      job.Port,
			DeviceID:  job.DeviceID,
			Result:    res.String(),
			Success:   res.OK(),
			Timestamp: start,
			Duration:  s.now().Sub(start).Round(time.Millisecond).String(),
		}
		if err := s.History.AddFlash(rec); err != nil {
			emit(fmt.Sprintf("WARN: failed to record flash history: %v", err))
		}
	}
	return res
}
