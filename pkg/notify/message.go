package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/umputun/memories-e2e/pkg/runner"
	"github.com/umputun/memories-e2e/pkg/status"
)

// run statuses carried by Result.Status.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Result is the payload sent to every target. custom scripts get it as json.
type Result struct {
	Status   string    `json:"status"`
	AppURL   string    `json:"app_url,omitempty"`
	Duration string    `json:"duration"`
	Total    int       `json:"total"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Skipped  int       `json:"skipped"`
	Failures []Failure `json:"failures,omitempty"`
	Report   string    `json:"report,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Failure is one failed scenario.
type Failure struct {
	Scenario string `json:"scenario"`
	Message  string `json:"message,omitempty"`
}

// NewResult summarizes a finished run. runErr is set when the run was aborted.
// the report path is kept only when there were results to write it from.
func NewResult(sum runner.Summary, report string, runErr error) Result {
	res := Result{
		Status:   StatusPassed,
		AppURL:   sum.BaseURL,
		Duration: sum.Duration().Round(time.Millisecond).String(),
		Total:    len(sum.Results),
		Passed:   sum.Count(status.Passed),
		Failed:   sum.Count(status.Failed),
		Skipped:  sum.Count(status.Skipped),
	}
	if len(sum.Results) > 0 {
		res.Report = report
	}
	for _, r := range sum.Results {
		if r.Outcome == status.Failed {
			res.Failures = append(res.Failures, Failure{Scenario: r.Name, Message: r.Message})
		}
	}
	if runErr != nil {
		res.Error = runErr.Error()
	}
	if res.Failed > 0 || runErr != nil {
		res.Status = StatusFailed
	}
	return res
}

// Subject is a one-line headline, used for mail subjects.
func (r Result) Subject() string {
	switch {
	case r.Error != "":
		return "memories-e2e aborted"
	case r.Status == StatusFailed:
		return fmt.Sprintf("memories-e2e failed: %d of %d scenarios", r.Failed, r.Total)
	default:
		return fmt.Sprintf("memories-e2e passed: %d scenarios", r.Total)
	}
}

// Text renders the plain-text message for chat and mail targets.
func (r Result) Text(host string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", r.Subject(), host)
	if r.AppURL != "" {
		fmt.Fprintf(&b, "app %s, took %s\n", r.AppURL, r.Duration)
	}
	fmt.Fprintf(&b, "%d passed, %d failed, %d skipped\n", r.Passed, r.Failed, r.Skipped)

	if len(r.Failures) > 0 {
		b.WriteString("\nfailed:\n")
		for _, f := range r.Failures {
			if f.Message == "" {
				fmt.Fprintf(&b, "- %s\n", f.Scenario)
				continue
			}
			fmt.Fprintf(&b, "- %s: %s\n", f.Scenario, firstLine(f.Message))
		}
	}
	if r.Error != "" {
		fmt.Fprintf(&b, "\nerror: %s\n", r.Error)
	}
	if r.Report != "" {
		fmt.Fprintf(&b, "\nreport: %s\n", r.Report)
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
