package status

// Outcome is the terminal state of a single scenario.
type Outcome string

// Outcome constants. skipped means the feature under test was not found, which is not a failure.
const (
	Passed  Outcome = "passed"
	Failed  Outcome = "failed"
	Skipped Outcome = "skipped"
)

// Symbol returns a short console marker for the outcome.
func (o Outcome) Symbol() string {
	switch o {
	case Passed:
		return "PASS"
	case Failed:
		return "FAIL"
	case Skipped:
		return "SKIP"
	default:
		return "????"
	}
}
