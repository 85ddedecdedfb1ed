package status

import "sync"

// Stage is a snapshot of where the run currently is.
type Stage struct {
	Phase    Phase
	Scenario string // empty outside of PhaseScenario
}

// PhaseHolder stores the current run stage in a thread-safe way.
// the signal handler reads it to report what was interrupted.
type PhaseHolder struct {
	mu       sync.RWMutex
	stage    Stage
	onChange func(old, cur Stage)
}

// OnChange registers a callback that fires when the stage changes.
// only one callback is supported; subsequent calls replace the previous one.
func (h *PhaseHolder) OnChange(fn func(old, cur Stage)) {
	h.mu.Lock()
	h.onChange = fn
	h.mu.Unlock()
}

// Set switches to a new phase and clears the scenario name.
func (h *PhaseHolder) Set(p Phase) {
	h.update(Stage{Phase: p})
}

// Enter marks the given scenario as running.
func (h *PhaseHolder) Enter(scenario string) {
	h.update(Stage{Phase: PhaseScenario, Scenario: scenario})
}

func (h *PhaseHolder) update(s Stage) {
	h.mu.Lock()
	old := h.stage
	h.stage = s
	cb := h.onChange
	h.mu.Unlock()

	if old != s && cb != nil {
		cb(old, s)
	}
}

// Get returns the current stage.
func (h *PhaseHolder) Get() Stage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stage
}
