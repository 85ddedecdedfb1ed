// Package browser provisions the single Chromium session a run uses.
//
// Provisioning mirrors what a developer does by hand: download the driver and
// browser if needed, otherwise use what is already installed, and as a last
// resort launch the system Chrome through its channel.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Logger is the narration sink used by the provider and session.
type Logger interface {
	Print(format string, args ...any)
	Warn(format string, args ...any)
}

// Config holds browser session parameters.
type Config struct {
	Headless        bool
	ViewportWidth   int
	ViewportHeight  int
	UserAgent       string
	ImplicitWait    time.Duration // default timeout for element actions
	PageLoadTimeout time.Duration // navigation timeout
	ScreenshotsDir  string        // directory for named screenshots
	FinalScreenshot string        // path of the screenshot taken on Close, none when empty
}

// Provider opens browser sessions. The playwright entry points are fields so the
// provisioning chain can be exercised without a real browser.
type Provider struct {
	cfg Config
	log Logger

	install func(opts *playwright.RunOptions) error
	run     func(opts *playwright.RunOptions) (*playwright.Playwright, error)
	launch  func(pw *playwright.Playwright, opts playwright.BrowserTypeLaunchOptions) (playwright.Browser, error)
	stop    func(pw *playwright.Playwright) error
	open    func(b playwright.Browser) (playwright.BrowserContext, playwright.Page, error)
}

// NewProvider makes a Provider using the real playwright driver.
func NewProvider(cfg Config, log Logger) *Provider {
	if cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0 {
		cfg.ViewportWidth, cfg.ViewportHeight = 1920, 1080
	}
	p := &Provider{cfg: cfg, log: log}
	p.install = func(opts *playwright.RunOptions) error { return playwright.Install(opts) }
	p.run = func(opts *playwright.RunOptions) (*playwright.Playwright, error) { return playwright.Run(opts) }
	p.launch = func(pw *playwright.Playwright, opts playwright.BrowserTypeLaunchOptions) (playwright.Browser, error) {
		return pw.Chromium.Launch(opts)
	}
	p.stop = func(pw *playwright.Playwright) error { return pw.Stop() }
	p.open = p.newPage
	return p
}

// Open provisions the driver, launches Chromium and returns a ready session.
// the first failing step is returned when the whole fallback chain is exhausted.
func (p *Provider) Open(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := p.startDriver()
	if err != nil {
		return nil, err
	}

	b, err := p.launchBrowser(pw)
	if err != nil {
		_ = p.stop(pw)
		return nil, err
	}

	bctx, page, err := p.open(b)
	if err != nil {
		_ = b.Close()
		_ = p.stop(pw)
		return nil, fmt.Errorf("open page: %w", err)
	}

	s := newSession(p.cfg, p.log)
	s.pw, s.browser, s.bctx, s.page = pw, b, bctx, page
	s.stop = p.stop
	s.watchDialogs()
	return s, nil
}

// startDriver installs driver and chromium, falling back to an already installed driver.
func (p *Provider) startDriver() (*playwright.Playwright, error) {
	p.log.Print("initializing chromium driver")
	installErr := p.install(&playwright.RunOptions{Browsers: []string{"chromium"}, Verbose: false})
	if installErr == nil {
		pw, err := p.run(&playwright.RunOptions{Browsers: []string{"chromium"}, Verbose: false})
		if err == nil {
			return pw, nil
		}
		installErr = err
	}

	p.log.Warn("driver install failed: %v", installErr)
	p.log.Print("falling back to installed driver")
	pw, err := p.run(&playwright.RunOptions{SkipInstallBrowsers: true, Verbose: false})
	if err != nil {
		return nil, fmt.Errorf("start playwright driver: %w", errors.Join(installErr, err))
	}
	return pw, nil
}

// launchBrowser launches bundled chromium, then the system chrome channel.
func (p *Provider) launchBrowser(pw *playwright.Playwright) (playwright.Browser, error) {
	opts := p.launchOptions()
	b, err := p.launch(pw, opts)
	if err == nil {
		p.log.Print("chromium initialized: %s", b.Version())
		return b, nil
	}

	p.log.Warn("bundled chromium launch failed: %v", err)
	p.log.Print("falling back to system chrome")
	opts.Channel = playwright.String("chrome")
	b, chromeErr := p.launch(pw, opts)
	if chromeErr != nil {
		return nil, fmt.Errorf("launch browser: %w", errors.Join(err, chromeErr))
	}
	p.log.Print("chrome initialized: %s", b.Version())
	return b, nil
}

func (p *Provider) launchOptions() playwright.BrowserTypeLaunchOptions {
	return playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(p.cfg.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			fmt.Sprintf("--window-size=%d,%d", p.cfg.ViewportWidth, p.cfg.ViewportHeight),
		},
		IgnoreDefaultArgs: []string{"--enable-logging"},
	}
}

func (p *Provider) newPage(b playwright.Browser) (playwright.BrowserContext, playwright.Page, error) {
	opts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: p.cfg.ViewportWidth, Height: p.cfg.ViewportHeight},
	}
	if p.cfg.UserAgent != "" {
		opts.UserAgent = playwright.String(p.cfg.UserAgent)
	}
	bctx, err := b.NewContext(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("new context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, nil, fmt.Errorf("new page: %w", err)
	}
	if p.cfg.ImplicitWait > 0 {
		page.SetDefaultTimeout(float64(p.cfg.ImplicitWait.Milliseconds()))
	}
	if p.cfg.PageLoadTimeout > 0 {
		page.SetDefaultNavigationTimeout(float64(p.cfg.PageLoadTimeout.Milliseconds()))
	}
	return bctx, page, nil
}
