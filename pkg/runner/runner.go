// Package runner executes the scenario suite against one application and one browser session.
package runner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/umputun/memories-e2e/pkg/locate"
	"github.com/umputun/memories-e2e/pkg/scenario"
	"github.com/umputun/memories-e2e/pkg/status"
)

// Config holds runner configuration.
type Config struct {
	BaseURL        string              // application under test
	ManageApp      bool                // start and stop the application around the run
	Filter         *regexp.Regexp      // run only scenarios whose name matches, all when nil
	Scenarios      []scenario.Scenario // suite to run, scenario.All() when nil
	Catalog        *locate.Catalog     // selector catalog, built-in when nil
	Settle         time.Duration       // pause after navigation and actions
	MaxLoadTime    time.Duration       // performance budget
	WaitTimeout    time.Duration       // element wait bound
	ViewportWidth  int                 // desktop viewport restored by the responsive check
	ViewportHeight int
	Debug          bool // narrate every selector miss
}

// AppController starts and stops the application under test.
type AppController interface {
	Start(ctx context.Context) error
	Stop()
}

// Session is the browser page scenarios run on.
type Session interface {
	scenario.Page
	Close()
}

// SessionOpener provisions the browser session.
type SessionOpener interface {
	Open(ctx context.Context) (Session, error)
}

// Logger provides run narration.
type Logger interface {
	SetPhase(phase status.Phase)
	Print(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Outcome(name string, o status.Outcome, d time.Duration, msg string)
}

// Result is the outcome of one scenario.
type Result struct {
	Name        string
	Outcome     status.Outcome
	Message     string
	Duration    time.Duration
	Screenshots []string
	Narration   []string // lines narrated while the scenario ran
}

// Summary is the outcome of a whole run.
type Summary struct {
	BaseURL  string
	Started  time.Time
	Finished time.Time
	Results  []Result
}

// Count returns the number of results with the given outcome.
func (s Summary) Count(o status.Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// Passed reports whether no scenario failed. skipped scenarios do not fail a run.
func (s Summary) Passed() bool { return s.Count(status.Failed) == 0 }

// Duration returns the wall time of the run.
func (s Summary) Duration() time.Duration { return s.Finished.Sub(s.Started) }

// Runner runs the suite.
type Runner struct {
	cfg     Config
	app     AppController
	browser SessionOpener
	log     Logger
	phase   *status.PhaseHolder
}

// New creates a runner. app may be nil when the application is managed elsewhere,
// phase may be nil when nobody observes the run stage.
func New(cfg Config, app AppController, browser SessionOpener, log Logger, phase *status.PhaseHolder) *Runner {
	if phase == nil {
		phase = &status.PhaseHolder{}
	}
	return &Runner{cfg: cfg, app: app, browser: browser, log: log, phase: phase}
}

// Run starts the application, opens the browser, runs the selected scenarios one by one and
// tears everything down. teardown happens on every path, including cancellation.
// the returned error reports an aborted run; scenario failures are only in the summary.
func (r *Runner) Run(ctx context.Context) (sum Summary, err error) {
	sum = Summary{BaseURL: r.cfg.BaseURL, Started: time.Now()}
	defer func() { sum.Finished = time.Now() }()

	suite := r.selected()
	if len(suite) == 0 {
		if r.cfg.Filter != nil {
			return sum, fmt.Errorf("no scenarios match %q", r.cfg.Filter.String())
		}
		return sum, errors.New("no scenarios to run")
	}

	cat := r.cfg.Catalog
	if cat == nil {
		if cat, err = locate.DefaultCatalog(); err != nil {
			return sum, fmt.Errorf("load selectors: %w", err)
		}
	}

	r.setPhase(status.PhaseSetup)
	if r.cfg.ManageApp && r.app != nil {
		if err := r.app.Start(ctx); err != nil {
			r.app.Stop()
			if ctx.Err() != nil {
				return interrupted(ctx, sum, suite)
			}
			sum.Results = abortAll(suite, fmt.Errorf("start application: %w", err))
			return sum, fmt.Errorf("start application: %w", err)
		}
		defer func() {
			r.setPhase(status.PhaseTeardown)
			r.app.Stop()
		}()
		if ctx.Err() != nil {
			return interrupted(ctx, sum, suite)
		}
	}

	session, err := r.browser.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return interrupted(ctx, sum, suite)
		}
		r.log.Error("browser setup failed: %v", err)
		sum.Results = abortAll(suite, fmt.Errorf("open browser: %w", err))
		return sum, fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		r.setPhase(status.PhaseTeardown)
		session.Close()
	}()

	env := &scenario.Env{
		Page:           session,
		Catalog:        cat,
		Resolver:       r.resolver(),
		BaseURL:        r.cfg.BaseURL,
		Settle:         r.cfg.Settle,
		MaxLoadTime:    r.cfg.MaxLoadTime,
		WaitTimeout:    r.cfg.WaitTimeout,
		ViewportWidth:  r.cfg.ViewportWidth,
		ViewportHeight: r.cfg.ViewportHeight,
	}

	for i, sc := range suite {
		if ctx.Err() != nil {
			return interrupted(ctx, sum, suite[i:])
		}
		sum.Results = append(sum.Results, r.runOne(ctx, env, sc))
	}
	return sum, nil
}

// interrupted marks scenarios that never started as skipped.
func interrupted(ctx context.Context, sum Summary, rest []scenario.Scenario) (Summary, error) {
	for _, sc := range rest {
		sum.Results = append(sum.Results, Result{Name: sc.Name, Outcome: status.Skipped, Message: "run interrupted"})
	}
	return sum, fmt.Errorf("run interrupted: %w", ctx.Err())
}

// runOne runs a single scenario, converting a panic into a failure.
func (r *Runner) runOne(ctx context.Context, env *scenario.Env, sc scenario.Scenario) (res Result) {
	r.phase.Enter(sc.Name)
	r.log.SetPhase(status.PhaseScenario)
	r.log.Print("--- %s ---", sc.Name)

	capture := &captureLogger{next: r.log}
	env.Log = capture
	env.TakeScreenshots() // drop anything left from a previous scenario
	res = Result{Name: sc.Name}
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			res.Outcome = status.Failed
			res.Message = fmt.Sprintf("panic: %v", p)
			capture.Error("panic in %s: %v\n%s", sc.Name, p, debug.Stack())
		}
		res.Duration = time.Since(start)
		res.Screenshots = env.TakeScreenshots()
		res.Narration = capture.Lines()
		r.log.Outcome(res.Name, res.Outcome, res.Duration, res.Message)
	}()

	res.Outcome, res.Message = scenario.Classify(sc.Run(ctx, env))
	return res
}

func (r *Runner) selected() []scenario.Scenario {
	all := r.cfg.Scenarios
	if all == nil {
		all = scenario.All()
	}
	if r.cfg.Filter == nil {
		return all
	}
	var res []scenario.Scenario
	for _, sc := range all {
		if r.cfg.Filter.MatchString(sc.Name) {
			res = append(res, sc)
		}
	}
	return res
}

func (r *Runner) resolver() *locate.Resolver {
	res := &locate.Resolver{}
	if r.cfg.Debug {
		res.OnMiss = func(c locate.Candidate, err error) {
			r.log.Print("selector miss %s: %v", c, err)
		}
	}
	return res
}

func (r *Runner) setPhase(p status.Phase) {
	r.phase.Set(p)
	r.log.SetPhase(p)
}

// abortAll marks every scenario as failed with the setup error.
func abortAll(suite []scenario.Scenario, err error) []Result {
	res := make([]Result, 0, len(suite))
	for _, sc := range suite {
		res = append(res, Result{Name: sc.Name, Outcome: status.Failed, Message: err.Error()})
	}
	return res
}

// captureLogger forwards narration and keeps a copy for the report.
type captureLogger struct {
	next  Logger
	mu    sync.Mutex
	lines []string
}

func (c *captureLogger) Print(format string, args ...any) {
	c.keep("", format, args...)
	c.next.Print(format, args...)
}

func (c *captureLogger) Warn(format string, args ...any) {
	c.keep("WARN: ", format, args...)
	c.next.Warn(format, args...)
}

func (c *captureLogger) Error(format string, args ...any) {
	c.keep("ERROR: ", format, args...)
	c.next.Error(format, args...)
}

func (c *captureLogger) keep(prefix, format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	c.mu.Lock()
	c.lines = append(c.lines, prefix+msg)
	c.mu.Unlock()
}

// Lines returns the captured narration.
func (c *captureLogger) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}
