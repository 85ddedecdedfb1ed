// Package main provides memories-e2e - browser end-to-end checks for the Memories app.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/umputun/memories-e2e/pkg/browser"
	"github.com/umputun/memories-e2e/pkg/config"
	"github.com/umputun/memories-e2e/pkg/locate"
	"github.com/umputun/memories-e2e/pkg/notify"
	"github.com/umputun/memories-e2e/pkg/orchestrator"
	"github.com/umputun/memories-e2e/pkg/progress"
	"github.com/umputun/memories-e2e/pkg/render"
	"github.com/umputun/memories-e2e/pkg/report"
	"github.com/umputun/memories-e2e/pkg/runner"
	"github.com/umputun/memories-e2e/pkg/status"
)

// opts holds all command-line options.
type opts struct {
	Run     string `long:"run" description:"run only scenarios matching this regexp"`
	Config  string `long:"config" description:"config directory (default ~/.config/memories-e2e)"`
	NoColor bool   `long:"no-color" description:"disable color output"`
	Debug   bool   `short:"d" long:"debug" description:"narrate selector misses and app output"`
	Version bool   `short:"v" long:"version" description:"print version and exit"`
}

var revision = "unknown"

func main() {
	fmt.Printf("memories-e2e %s\n", revision)

	var o opts
	parser := flags.NewParser(&o, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if o.Version {
		os.Exit(0)
	}

	restoreTerm := muteInterruptEcho()

	// setup context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	passed, err := run(ctx, o)
	cancel()
	restoreTerm()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	if err != nil || !passed {
		os.Exit(1)
	}
}

// run executes the suite and reports whether every scenario passed or was skipped.
func run(ctx context.Context, o opts) (bool, error) {
	cfg, err := config.Load(o.Config)
	if err != nil {
		return false, fmt.Errorf("load config: %w", err)
	}

	var filter *regexp.Regexp
	if o.Run != "" {
		if filter, err = regexp.Compile(o.Run); err != nil {
			return false, fmt.Errorf("invalid --run pattern: %w", err)
		}
	}

	catalog, err := locate.LoadCatalog(cfg.SelectorsFile)
	if err != nil {
		return false, fmt.Errorf("load selectors: %w", err)
	}

	colors := progress.NewColors(cfg.Colors)
	log, err := progress.NewLogger(progress.Config{
		Path:     cfg.ProgressLog,
		AppURL:   cfg.AppURL,
		Headless: cfg.Headless,
		UseLocal: cfg.UseLocal,
		NoColor:  o.NoColor,
		Colors:   colors,
	})
	if err != nil {
		return false, fmt.Errorf("create progress logger: %w", err)
	}
	defer log.Close()

	notifier, err := notify.New(cfg.NotifyParams, log)
	if err != nil {
		return false, fmt.Errorf("create notifier: %w", err)
	}

	printStartupInfo(cfg, log.Path(), colors)

	phase := &status.PhaseHolder{}
	if o.Debug {
		phase.OnChange(func(old, cur status.Stage) {
			log.Print("stage %s -> %s", stageName(old), stageName(cur))
		})
	}
	stopWatch := watchInterrupt(ctx, phase, log)
	defer stopWatch()

	r := runner.New(runner.Config{
		BaseURL:        cfg.AppURL,
		ManageApp:      cfg.UseLocal,
		Filter:         filter,
		Catalog:        catalog,
		Settle:         cfg.SettleDelay,
		MaxLoadTime:    cfg.MaxLoadTime,
		WaitTimeout:    cfg.ImplicitWait,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		Debug:          o.Debug,
	}, newApp(cfg, o.Debug, log), sessionOpener{p: newProvider(cfg, log)}, log, phase)

	sum, runErr := r.Run(ctx)

	if len(sum.Results) > 0 {
		if err := report.WriteHTML(cfg.ReportPath, sum); err != nil {
			log.Warn("write report: %v", err)
		} else {
			log.Print("report written: %s", cfg.ReportPath)
		}
		printSummary(report.Markdown(sum), o.NoColor, log)
	}

	notifier.Send(context.WithoutCancel(ctx), notify.NewResult(sum, cfg.ReportPath, runErr))

	colors.Info().Printf("\ncompleted in %s\n", log.Elapsed())
	if runErr != nil {
		return false, fmt.Errorf("runner: %w", runErr)
	}
	return sum.Passed(), nil
}

// newApp returns the local app controller, nil when the app under test is managed elsewhere.
func newApp(cfg *config.Config, debug bool, log *progress.Logger) runner.AppController {
	if !cfg.UseLocal {
		return nil
	}
	return orchestrator.New(orchestratorConfig(cfg, debug), log)
}

func orchestratorConfig(cfg *config.Config, debug bool) orchestrator.Config {
	var out io.Writer
	if debug {
		out = os.Stdout
	}
	return orchestrator.Config{
		BaseDir:      cfg.SuiteRoot(),
		BackendDir:   cfg.BackendDir,
		FrontendDir:  cfg.FrontendDir,
		StartCommand: cfg.StartCommand,
		GraceDelay:   cfg.StartupDelay,
		ReadyURL:     cfg.AppURL,
		Output:       out,
	}
}

func newProvider(cfg *config.Config, log *progress.Logger) *browser.Provider {
	return browser.NewProvider(browser.Config{
		Headless:        cfg.Headless,
		ViewportWidth:   cfg.ViewportWidth,
		ViewportHeight:  cfg.ViewportHeight,
		UserAgent:       cfg.UserAgent,
		ImplicitWait:    cfg.ImplicitWait,
		PageLoadTimeout: cfg.PageLoadTimeout,
		ScreenshotsDir:  cfg.ScreenshotsDir,
		FinalScreenshot: cfg.FinalScreenshot,
	}, log)
}

// sessionOpener adapts browser.Provider to the runner's opener interface.
type sessionOpener struct {
	p *browser.Provider
}

func (o sessionOpener) Open(ctx context.Context) (runner.Session, error) {
	s, err := o.p.Open(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck // provider errors are already descriptive
	}
	return s, nil
}

// watchInterrupt reports which stage a signal interrupted. the returned func stops the watcher.
func watchInterrupt(ctx context.Context, phase *status.PhaseHolder, log *progress.Logger) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			log.Warn("interrupted during %s, tearing down", stageName(phase.Get()))
		case <-done:
		}
	}()
	return func() { close(done) }
}

func stageName(s status.Stage) string {
	if s.Scenario != "" {
		return string(s.Phase) + ":" + s.Scenario
	}
	return string(s.Phase)
}

func printSummary(md string, noColor bool, log *progress.Logger) {
	out, err := render.Markdown(md, noColor)
	if err != nil {
		log.Warn("render summary: %v", err)
		out = md
	}
	log.PrintRaw("\n%s\n", out)
}

func printStartupInfo(cfg *config.Config, progressPath string, colors *progress.Colors) {
	colors.Info().Printf("app: %s\n", cfg.AppURL)
	mode := "headless"
	if !cfg.Headless {
		mode = "headed"
	}
	colors.Info().Printf("browser: chromium (%s), viewport %dx%d\n", mode, cfg.ViewportWidth, cfg.ViewportHeight)
	if cfg.UseLocal {
		colors.Info().Printf("local app: backend=%s frontend=%s\n", cfg.BackendDir, cfg.FrontendDir)
	}
	colors.Info().Printf("progress log: %s\n\n", progressPath)
}
