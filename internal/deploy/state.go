// Package deploy executes a deployment plan against the device-client
// capability. Each target runs an independent state machine
// (pending → in_progress → succeeded | failed | skipped) with a retry
// budget; one target's failure never aborts the others unless fail-fast
// is configured. The run report is assembled only after every target has
// reached a terminal state.
package deploy

import (
	"time"

	"github.com/provnet/ztp/internal/device"
)

// State is a target's position in the deployment lifecycle.
type State string

// Target deployment states. Succeeded, failed, and skipped are terminal.
const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
	StateSkipped    State = "skipped"
)

// Terminal reports whether no further transition occurs within a run.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateSkipped:
		return true
	}
	return false
}

// Result records one target's deployment outcome.
type Result struct {
	Target    device.Target `json:"target"`
	State     State         `json:"state"`
	Attempts  int           `json:"attempts"`
	LastError string        `json:"last_error,omitempty"`
	Duration  time.Duration `json:"duration_ns,omitempty"`
}

// advance moves the result to the next state. Terminal states stick:
// once a target is succeeded, failed, or skipped it never transitions
// again within the run.
func (r *Result) advance(next State) {
	if r.State.Terminal() {
		return
	}
	r.State = next
}
