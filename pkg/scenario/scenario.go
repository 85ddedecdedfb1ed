// Package scenario contains the browser scenarios run against the Memories application.
//
// Every scenario follows the same shape: navigate, resolve elements through the
// selector catalog, act, let the page settle, assert, and capture screenshots.
// A scenario returns nil on success, a *SkipError when the feature it exercises is
// absent from the page and any other error on failure.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/memories-e2e/pkg/locate"
	"github.com/umputun/memories-e2e/pkg/status"
)

// Page is the browser page the scenarios drive.
type Page interface {
	locate.Querier
	Goto(url string) error
	Reload() error
	URL() string
	Content() (string, error)
	BodyText() (string, error)
	SetViewport(width, height int) error
	Screenshot(name string) (string, error)
	TakeDialog() (string, bool)
}

// Logger receives scenario narration.
type Logger interface {
	Print(format string, args ...any)
	Warn(format string, args ...any)
}

// Scenario is a named check.
type Scenario struct {
	Name string
	Run  func(ctx context.Context, env *Env) error
}

// All returns the suite in execution order. delete_memory relies on create_memory's
// helper when the list is empty, nothing else depends on order.
func All() []Scenario {
	return []Scenario{
		{Name: "homepage_loads", Run: homepageLoads},
		{Name: "navigation_bar", Run: navigationBar},
		{Name: "memories_displayed", Run: memoriesDisplayed},
		{Name: "create_memory", Run: createMemoryScenario},
		{Name: "view_memory_details", Run: viewMemoryDetails},
		{Name: "edit_memory", Run: editMemory},
		{Name: "delete_memory", Run: deleteMemory},
		{Name: "like_memory", Run: likeMemory},
		{Name: "search", Run: search},
		{Name: "tags_filter", Run: tagsFilter},
		{Name: "sort", Run: sortMemories},
		{Name: "form_validation", Run: formValidation},
		{Name: "responsive", Run: responsive},
		{Name: "error_handling", Run: errorHandling},
		{Name: "performance", Run: performance},
	}
}

// SkipError marks a scenario whose feature is not available on the page.
type SkipError struct{ Reason string }

func (e *SkipError) Error() string { return "skipped: " + e.Reason }

// FailError marks a failed assertion.
type FailError struct{ Reason string }

func (e *FailError) Error() string { return e.Reason }

// Skipf returns a *SkipError.
func Skipf(format string, args ...any) error {
	return &SkipError{Reason: fmt.Sprintf(format, args...)}
}

// Failf returns a *FailError.
func Failf(format string, args ...any) error {
	return &FailError{Reason: fmt.Sprintf(format, args...)}
}

// Classify maps a scenario error to its outcome and message.
func Classify(err error) (status.Outcome, string) {
	if err == nil {
		return status.Passed, ""
	}
	var skip *SkipError
	if errors.As(err, &skip) {
		return status.Skipped, skip.Reason
	}
	var fail *FailError
	if errors.As(err, &fail) {
		return status.Failed, fail.Reason
	}
	return status.Failed, err.Error()
}

// Memory is the test memory a scenario submits. Never persisted by the suite itself.
type Memory struct {
	Title   string
	Message string
	Tags    string
}

// NewMemory builds a unique memory from the unix time of ts.
func NewMemory(ts time.Time) Memory {
	n := ts.Unix()
	return Memory{
		Title:   fmt.Sprintf("Test Memory %d", n),
		Message: fmt.Sprintf("This is an automated test memory created at %d", n),
		Tags:    fmt.Sprintf("test%d,selenium,automation", n),
	}
}

// Env is everything a scenario needs. One Env is shared by the whole run.
type Env struct {
	Page     Page
	Catalog  *locate.Catalog
	Resolver *locate.Resolver
	Log      Logger
	BaseURL  string

	Settle         time.Duration // pause after navigation and state-changing actions
	MaxLoadTime    time.Duration // performance budget, 10s when zero
	WaitTimeout    time.Duration // bound for element waits, 15s when zero
	ViewportWidth  int           // desktop viewport restored after resizing, 1920 when zero
	ViewportHeight int           // 1080 when zero

	Sleep func(ctx context.Context, d time.Duration) error // context-aware sleep, real sleep when nil
	Now   func() time.Time                                 // time.Now when nil

	shots []string
}

// TakeScreenshots returns the screenshots captured since the previous call.
func (e *Env) TakeScreenshots() []string {
	res := e.shots
	e.shots = nil
	return res
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) sleep(ctx context.Context, d time.Duration) error {
	if e.Sleep != nil {
		return e.Sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// settle gives the client-rendered page time to catch up.
func (e *Env) settle(ctx context.Context) error {
	return e.sleep(ctx, e.Settle)
}

// open navigates to a path under the base url and settles.
func (e *Env) open(ctx context.Context, path string) error {
	if err := e.Page.Goto(e.BaseURL + path); err != nil {
		return err
	}
	return e.settle(ctx)
}

// Shot captures a named screenshot. a capture failure is narrated, never fatal.
func (e *Env) Shot(name string) {
	path, err := e.Page.Screenshot(name)
	if err != nil {
		e.Log.Warn("screenshot %s: %v", name, err)
		return
	}
	e.shots = append(e.shots, path)
}

func (e *Env) targets(name string) locate.Candidates { return e.Catalog.Get(name) }

func (e *Env) find(target string, accept locate.Predicate) (locate.Match, error) {
	return e.Resolver.Find(e.Page, e.targets(target), accept)
}

func (e *Env) click(target string, accept locate.Predicate) (locate.Match, error) {
	return e.Resolver.First(e.Page, e.targets(target), accept, func(el locate.Element) error { return el.Click() })
}

func (e *Env) fill(target, value string) (locate.Match, error) {
	return e.Resolver.First(e.Page, e.targets(target), locate.Visible, func(el locate.Element) error { return el.Fill(value) })
}

// bodyText returns the lowercased page text, empty when unreadable.
func (e *Env) bodyText() string {
	text, err := e.Page.BodyText()
	if err != nil {
		e.Log.Warn("read page text: %v", err)
		return ""
	}
	return strings.ToLower(text)
}

func (e *Env) waitTimeout() time.Duration {
	if e.WaitTimeout <= 0 {
		return 15 * time.Second
	}
	return e.WaitTimeout
}

func (e *Env) maxLoadTime() time.Duration {
	if e.MaxLoadTime <= 0 {
		return 10 * time.Second
	}
	return e.MaxLoadTime
}

func (e *Env) desktop() (width, height int) {
	if e.ViewportWidth <= 0 || e.ViewportHeight <= 0 {
		return 1920, 1080
	}
	return e.ViewportWidth, e.ViewportHeight
}

// inconclusive narrates a check that could neither confirm nor refute the behavior.
func (e *Env) inconclusive(format string, args ...any) {
	e.Log.Print("inconclusive: "+format, args...)
}

// present accepts any matched element, visible or not.
func present(locate.Element) (bool, error) { return true, nil }

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
