// Package progress forwards ordered status notifications to an observer as
// a run moves through its phases, and writes diagnostic log lines depending
// on the configured verbosity.
package progress

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/moneylens/moneylens/adapter/contract"
)

// Verbosity controls diagnostic output. Off writes nothing, Basic writes
// status lines, Full additionally dumps raw intermediate payloads. It never
// changes what a run returns.
type Verbosity string

const (
	VerbosityOff   Verbosity = "Off"
	VerbosityBasic Verbosity = "Basic"
	VerbosityFull  Verbosity = "Full"
)

func ParseVerbosity(s string) (Verbosity, error) {
	switch Verbosity(strings.TrimSpace(s)) {
	case VerbosityOff, "":
		return VerbosityOff, nil
	case VerbosityBasic:
		return VerbosityBasic, nil
	case VerbosityFull:
		return VerbosityFull, nil
	default:
		return "", fmt.Errorf("unknown debug verbosity %q", s)
	}
}

const (
	StatusInProgress = "in_progress"
	StatusComplete   = "complete"
	StatusError      = "error"
)

// Reporter is bound to one run. It stamps every event with the run id and
// forwards it to the sink, if one is registered.
type Reporter struct {
	adapter   string
	runID     string
	sink      contractx.ProgressSink
	verbosity Verbosity
}

func NewReporter(adapter string, sink contractx.ProgressSink, verbosity Verbosity) *Reporter {
	return &Reporter{
		adapter:   adapter,
		runID:     uuid.NewString(),
		sink:      sink,
		verbosity: verbosity,
	}
}

func (r *Reporter) RunID() string {
	return r.runID
}

// Emit sends one status event. Terminal events pass done=true; every run
// path must end with exactly one of those so observers never hang.
func (r *Reporter) Emit(description, status string, done bool, err error) {
	if r.verbosity != VerbosityOff {
		line := log.Info()
		if status == StatusError {
			line = log.Error()
		}
		line = line.
			Str("adapter", r.adapter).
			Str("run_id", r.runID).
			Str("status", status).
			Bool("done", done)
		if err != nil {
			line = line.Str("cause", err.Error())
		}
		line.Msg(description)
	}

	if r.sink != nil {
		r.sink.Notify(contractx.StatusEvent{
			RunID:       r.runID,
			Status:      status,
			Description: description,
			Done:        done,
		})
	}
}

// Dump logs a raw intermediate payload. Full verbosity only; a debugging
// aid that never reaches the sink.
func (r *Reporter) Dump(label string, payload any) {
	if r.verbosity != VerbosityFull {
		return
	}
	log.Info().
		Str("adapter", r.adapter).
		Str("run_id", r.runID).
		Interface(label, payload).
		Msg("raw payload")
}
