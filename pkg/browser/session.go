package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/umputun/memories-e2e/pkg/locate"
)

// Session is the single browser page a run drives. It is owned by the caller of
// Provider.Open and must be closed exactly once.
type Session struct {
	cfg Config
	log Logger
	now func() time.Time

	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext
	page    playwright.Page
	stop    func(pw *playwright.Playwright) error

	mu         sync.Mutex
	lastDialog string
	hasDialog  bool
	closed     bool
}

func newSession(cfg Config, log Logger) *Session {
	return &Session{cfg: cfg, log: log, now: time.Now}
}

// watchDialogs accepts every alert and confirm dialog, remembering the last message.
func (s *Session) watchDialogs() {
	s.page.On("dialog", func(d playwright.Dialog) {
		msg := d.Message()
		s.log.Print("accepting %s dialog: %s", d.Type(), msg)
		s.mu.Lock()
		s.lastDialog, s.hasDialog = msg, true
		s.mu.Unlock()
		if err := d.Accept(); err != nil {
			s.log.Warn("accept dialog: %v", err)
		}
	})
}

// TakeDialog returns the message of the last accepted dialog and forgets it.
func (s *Session) TakeDialog() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.lastDialog, s.hasDialog
	s.lastDialog, s.hasDialog = "", false
	return msg, ok
}

// Goto navigates to url and waits for the load event.
func (s *Session) Goto(url string) error {
	if _, err := s.page.Goto(url); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

// Reload reloads the current page.
func (s *Session) Reload() error {
	if _, err := s.page.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

// URL returns the current page url.
func (s *Session) URL() string { return s.page.URL() }

// Content returns the page source.
func (s *Session) Content() (string, error) {
	html, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("page content: %w", err)
	}
	return html, nil
}

// BodyText returns the rendered text of the body element.
func (s *Session) BodyText() (string, error) {
	text, err := s.page.Locator("body").InnerText()
	if err != nil {
		return "", fmt.Errorf("body text: %w", err)
	}
	return text, nil
}

// Title returns the document title.
func (s *Session) Title() (string, error) {
	title, err := s.page.Title()
	if err != nil {
		return "", fmt.Errorf("page title: %w", err)
	}
	return title, nil
}

// SetViewport resizes the page viewport.
func (s *Session) SetViewport(width, height int) error {
	if err := s.page.SetViewportSize(width, height); err != nil {
		return fmt.Errorf("set viewport %dx%d: %w", width, height, err)
	}
	return nil
}

// Query implements locate.Querier against the whole page.
func (s *Session) Query(c locate.Candidate) ([]locate.Element, error) {
	locs, err := s.page.Locator(selectorFor(c)).All()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c, err)
	}
	return wrapAll(locs), nil
}

// Screenshot captures the viewport into the screenshots directory and returns the file path.
func (s *Session) Screenshot(name string) (string, error) {
	dir := s.cfg.ScreenshotsDir
	if dir == "" {
		dir = "screenshots"
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create screenshots dir: %w", err)
	}
	path := screenshotPath(dir, name, s.now())
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)}); err != nil {
		return "", fmt.Errorf("screenshot %s: %w", name, err)
	}
	s.log.Print("screenshot saved: %s", path)
	return path, nil
}

// Close takes the final screenshot and releases page, context, browser and driver.
// failures are logged, never returned, so teardown always completes.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if s.cfg.FinalScreenshot != "" && s.page != nil {
		if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(s.cfg.FinalScreenshot)}); err != nil {
			s.log.Warn("final screenshot: %v", err)
		} else {
			s.log.Print("final screenshot saved: %s", s.cfg.FinalScreenshot)
		}
	}

	if s.page != nil {
		_ = s.page.Close()
	}
	if s.bctx != nil {
		_ = s.bctx.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.pw != nil && s.stop != nil {
		_ = s.stop(s.pw)
	}
	s.log.Print("browser closed")
}

// screenshotPath builds <dir>/<name>_<YYYYmmdd_HHMMSS>.png, with the name reduced to a safe file stem.
func screenshotPath(dir, name string, ts time.Time) string {
	stem := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(name))
	if stem == "" {
		stem = "screenshot"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", stem, ts.Format("20060102_150405")))
}
