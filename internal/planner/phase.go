package planner

import "fmt"

// Phase is the state of one planning cycle. Completed and Failed are
// terminal.
type Phase string

const (
	PhaseNotStarted     Phase = "not-started"
	PhaseValidating     Phase = "validating"
	PhaseRewriting      Phase = "rewriting"
	PhaseAnalyzingDrift Phase = "analyzing-drift"
	PhaseCompleted      Phase = "completed"
	PhaseFailed         Phase = "failed"
)

var transitions = map[Phase][]Phase{
	PhaseNotStarted:     {PhaseValidating},
	PhaseValidating:     {PhaseRewriting, PhaseFailed},
	PhaseRewriting:      {PhaseAnalyzingDrift, PhaseCompleted},
	PhaseAnalyzingDrift: {PhaseCompleted},
}

// Terminal reports whether no further transition is allowed from p.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed
}

// CanTransition reports whether moving from p to next is a legal step.
func (p Phase) CanTransition(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// run tracks the phase of a single planning invocation.
type run struct {
	phase Phase
}

func newRun() *run {
	return &run{phase: PhaseNotStarted}
}

func (r *run) advance(next Phase) {
	if !r.phase.CanTransition(next) {
		// A broken transition is a programming error, not a data problem.
		panic(fmt.Sprintf("planner: illegal phase transition %s -> %s", r.phase, next))
	}
	r.phase = next
}
