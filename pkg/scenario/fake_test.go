package scenario

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/umputun/memories-e2e/pkg/locate"
)

// fakeEl is a scripted page element.
type fakeEl struct {
	text     string
	hidden   bool
	disabled bool
	tag      string
	labels   []string
	selected string
	children map[string][]locate.Element

	filled   string
	pressed  []string
	clicks   int
	onClick  func()
	clickErr error
}

func (e *fakeEl) IsVisible() (bool, error) { return !e.hidden, nil }
func (e *fakeEl) IsEnabled() (bool, error) { return !e.disabled, nil }
func (e *fakeEl) Text() (string, error)    { return e.text, nil }

func (e *fakeEl) TagName() (string, error) {
	if e.tag == "" {
		return "div", nil
	}
	return e.tag, nil
}

func (e *fakeEl) Width() (float64, error) {
	if e.hidden {
		return 0, nil
	}
	return 100, nil
}

func (e *fakeEl) Click() error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeEl) Fill(value string) error { e.filled = value; return nil }

func (e *fakeEl) Press(key string) error { e.pressed = append(e.pressed, key); return nil }

func (e *fakeEl) Query(c locate.Candidate) ([]locate.Element, error) { return e.children[c.String()], nil }

func (e *fakeEl) Options() ([]string, string, error) { return e.labels, e.selected, nil }

func (e *fakeEl) SelectOption(label string) error { e.selected = label; return nil }

// fakePage serves elements keyed by the "strategy=locator" form of a candidate.
type fakePage struct {
	url      string
	content  string
	body     string
	elems    map[string][]locate.Element
	dialog   string
	shotErr  error
	onReload func()
	onGoto   func(url string)

	gotos     []string
	reloads   int
	viewports [][2]int
	shots     []string
}

func newFakePage() *fakePage {
	return &fakePage{elems: map[string][]locate.Element{}, content: "<html>Memories</html>", body: "Memories"}
}

// set places elements under a candidate, e.g. set("css=.memory", card).
func (p *fakePage) set(key string, els ...locate.Element) { p.elems[key] = els }

func (p *fakePage) Query(c locate.Candidate) ([]locate.Element, error) { return p.elems[c.String()], nil }

func (p *fakePage) Goto(url string) error {
	p.gotos = append(p.gotos, url)
	p.url = url
	if p.onGoto != nil {
		p.onGoto(url)
	}
	return nil
}

func (p *fakePage) Reload() error {
	p.reloads++
	if p.onReload != nil {
		p.onReload()
	}
	return nil
}

func (p *fakePage) URL() string                       { return p.url }
func (p *fakePage) Content() (string, error)          { return p.content, nil }
func (p *fakePage) BodyText() (string, error)         { return p.body, nil }
func (p *fakePage) SetViewport(width, height int) error {
	p.viewports = append(p.viewports, [2]int{width, height})
	return nil
}

func (p *fakePage) Screenshot(name string) (string, error) {
	if p.shotErr != nil {
		return "", p.shotErr
	}
	p.shots = append(p.shots, name)
	return "screenshots/" + name + ".png", nil
}

func (p *fakePage) TakeDialog() (string, bool) {
	msg := p.dialog
	p.dialog = ""
	return msg, msg != ""
}

type recLogger struct{ lines []string }

func (l *recLogger) Print(format string, args ...any) { l.lines = append(l.lines, fmt.Sprintf(format, args...)) }
func (l *recLogger) Warn(format string, args ...any) {
	l.lines = append(l.lines, "WARN "+fmt.Sprintf(format, args...))
}

// has reports whether any narrated line contains sub.
func (l *recLogger) has(sub string) bool {
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T, page *fakePage) (*Env, *recLogger) {
	t.Helper()
	cat, err := locate.DefaultCatalog()
	require.NoError(t, err)
	log := &recLogger{}
	env := &Env{
		Page:        page,
		Catalog:     cat,
		Resolver:    &locate.Resolver{PollInterval: time.Millisecond},
		Log:         log,
		BaseURL:     "http://app",
		Settle:      time.Second,
		WaitTimeout: 20 * time.Millisecond,
		Sleep:       func(context.Context, time.Duration) error { return nil },
		Now:         func() time.Time { return fixedNow },
	}
	return env, log
}
