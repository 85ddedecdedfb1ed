// Package report writes the end-of-run html report and the markdown summary.
package report

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/umputun/memories-e2e/pkg/runner"
	"github.com/umputun/memories-e2e/pkg/status"
)

//go:embed templates
var content embed.FS

// maxInlineImage caps the size of a screenshot embedded into the report.
const maxInlineImage = 4 << 20

type pageData struct {
	Title    string
	BaseURL  string
	Started  string
	Duration string
	Passed   int
	Failed   int
	Skipped  int
	Total    int
	OK       bool
	Results  []resultData
}

type resultData struct {
	Name      string
	Outcome   string
	Symbol    string
	Duration  string
	Message   string
	Narration []string
	Shots     []shotData
}

type shotData struct {
	Name string
	Path string
	Src  template.URL // data uri, empty when the file could not be read
}

// WriteHTML renders a self-contained html report for the run to path.
func WriteHTML(path string, sum runner.Summary) error {
	tmpl, err := template.ParseFS(content, "templates/report.html")
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newPageData(sum)); err != nil {
		return fmt.Errorf("execute report template: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func newPageData(sum runner.Summary) pageData {
	d := pageData{
		Title:    "Memories E2E Report",
		BaseURL:  sum.BaseURL,
		Started:  sum.Started.Format("2006-01-02 15:04:05"),
		Duration: formatDuration(sum.Duration()),
		Passed:   sum.Count(status.Passed),
		Failed:   sum.Count(status.Failed),
		Skipped:  sum.Count(status.Skipped),
		Total:    len(sum.Results),
		OK:       sum.Passed(),
	}
	for _, r := range sum.Results {
		rd := resultData{
			Name:      r.Name,
			Outcome:   string(r.Outcome),
			Symbol:    r.Outcome.Symbol(),
			Duration:  formatDuration(r.Duration),
			Message:   r.Message,
			Narration: r.Narration,
		}
		for _, p := range r.Screenshots {
			rd.Shots = append(rd.Shots, shotData{Name: filepath.Base(p), Path: p, Src: inlineImage(p)})
		}
		d.Results = append(d.Results, rd)
	}
	return d
}

// inlineImage returns the png at path as a data uri, empty when unreadable or too large.
func inlineImage(path string) template.URL {
	st, err := os.Stat(path)
	if err != nil || st.IsDir() || st.Size() > maxInlineImage {
		return ""
	}
	data, err := os.ReadFile(path) //nolint:gosec // path produced by the screenshot writer
	if err != nil {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data)) //nolint:gosec // encoded locally
}

// Markdown returns a short summary table of the run.
func Markdown(sum runner.Summary) string {
	var b strings.Builder
	verdict := "PASSED"
	if !sum.Passed() {
		verdict = "FAILED"
	}
	fmt.Fprintf(&b, "# Memories E2E: %s\n\n", verdict)
	fmt.Fprintf(&b, "App: `%s`, duration: %s\n\n", sum.BaseURL, formatDuration(sum.Duration()))
	b.WriteString("| Scenario | Result | Time | Message |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range sum.Results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Name, r.Outcome.Symbol(), formatDuration(r.Duration), tableCell(r.Message))
	}
	fmt.Fprintf(&b, "\n**%d passed, %d failed, %d skipped** of %d\n",
		sum.Count(status.Passed), sum.Count(status.Failed), sum.Count(status.Skipped), len(sum.Results))
	return b.String()
}

func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}
