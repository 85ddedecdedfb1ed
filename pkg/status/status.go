// Package status defines shared run-model types for memories-e2e.
// phase and outcome types are used by runner, progress, report and notify packages.
package status

// Phase represents the run stage for color coding of console narration.
type Phase string

// Phase constants for run stages.
const (
	PhaseSetup    Phase = "setup"    // app startup and browser provisioning (info color)
	PhaseScenario Phase = "scenario" // scenario execution (default color)
	PhaseTeardown Phase = "teardown" // final screenshot, browser close, app stop (info color)
)
