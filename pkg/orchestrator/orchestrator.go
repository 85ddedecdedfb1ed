// Package orchestrator starts and stops the application under test.
//
// The backend and frontend are each launched through the shell in their own process
// group, so stopping them also takes down whatever the start command spawned.
// After launch the orchestrator polls the app URL until it answers, bounded by
// the configured grace delay.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"
)

// Logger is the narration sink used by the orchestrator.
type Logger interface {
	Print(format string, args ...any)
	Warn(format string, args ...any)
}

// Config holds orchestrator parameters.
type Config struct {
	BaseDir      string        // relative backend/frontend dirs are resolved against it, cwd when empty
	BackendDir   string        // backend working directory
	FrontendDir  string        // frontend working directory
	StartCommand string        // shell command run in each directory, "npm start" when empty
	GraceDelay   time.Duration // upper bound for readiness wait
	ReadyURL     string        // url polled for readiness, no polling when empty
	PollInterval time.Duration // readiness poll interval, 250ms when zero
	StopTimeout  time.Duration // wait between SIGTERM and SIGKILL, 3s when zero
	Output       io.Writer     // receives children stdout/stderr, discarded when nil
}

// Orchestrator owns the backend and frontend processes for one run.
type Orchestrator struct {
	cfg    Config
	log    Logger
	client *http.Client

	mu    sync.Mutex
	procs []*child
}

// child is a started side of the application.
type child struct {
	name string
	dir  string
	pg   *processGroup
}

// New creates an Orchestrator. nothing is started until Start is called.
func New(cfg Config, log Logger) *Orchestrator {
	if cfg.StartCommand == "" {
		cfg.StartCommand = "npm start"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 250 * time.Millisecond
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = 3 * time.Second
	}
	return &Orchestrator{cfg: cfg, log: log, client: &http.Client{Timeout: 2 * time.Second}}
}

// Start launches backend and frontend, then waits for the app to answer.
// a missing directory is reported as a warning and that side is skipped.
// readiness timeout is a warning too; only a failure to spawn an existing side is an error.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.log.Print("starting memories application")

	for _, side := range []struct{ name, dir string }{
		{"backend", o.cfg.BackendDir},
		{"frontend", o.cfg.FrontendDir},
	} {
		if err := o.spawn(side.name, side.dir); err != nil {
			o.Stop()
			return err
		}
	}

	o.waitReady(ctx)
	return nil
}

// Stop terminates started processes, frontend first. it is safe to call more than once.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	procs := o.procs
	o.procs = nil
	o.mu.Unlock()

	if len(procs) == 0 {
		return
	}
	o.log.Print("stopping memories application")
	for i := len(procs) - 1; i >= 0; i-- {
		c := procs[i]
		if err := c.pg.terminate(o.cfg.StopTimeout); err != nil && !isSignalExit(err) {
			o.log.Warn("%s stopped with error: %v", c.name, err)
			continue
		}
		o.log.Print("%s stopped", c.name)
	}
}

// Running returns the names of started sides that have not exited yet.
func (o *Orchestrator) Running() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var res []string
	for _, c := range o.procs {
		if !c.pg.exited() {
			res = append(res, c.name)
		}
	}
	return res
}

func (o *Orchestrator) spawn(name, dir string) error {
	if dir == "" {
		o.log.Warn("%s directory not configured, skipping", name)
		return nil
	}
	if !filepath.IsAbs(dir) && o.cfg.BaseDir != "" {
		dir = filepath.Join(o.cfg.BaseDir, dir)
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		o.log.Warn("%s directory not found: %s", name, dir)
		return nil
	}

	cmd := exec.Command("sh", "-c", o.cfg.StartCommand) //nolint:gosec // command comes from config
	cmd.Dir = dir
	cmd.Stdout = o.cfg.Output
	cmd.Stderr = o.cfg.Output
	setupProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s in %s: %w", name, dir, err)
	}

	o.mu.Lock()
	o.procs = append(o.procs, &child{name: name, dir: dir, pg: newProcessGroup(cmd)})
	o.mu.Unlock()
	o.log.Print("%s started from %s (pid %d)", name, dir, cmd.Process.Pid)
	return nil
}

// waitReady polls ReadyURL until any HTTP response arrives, the grace delay elapses or ctx is done.
func (o *Orchestrator) waitReady(ctx context.Context) {
	if o.cfg.ReadyURL == "" || o.cfg.GraceDelay <= 0 {
		return
	}
	o.log.Print("waiting for %s (up to %s)", o.cfg.ReadyURL, o.cfg.GraceDelay)

	started := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, o.cfg.GraceDelay)
	defer cancel()

	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()
	for {
		if o.probe(waitCtx) {
			o.log.Print("application ready after %s", time.Since(started).Round(time.Millisecond))
			return
		}
		select {
		case <-waitCtx.Done():
			o.log.Warn("application at %s not answering after %s, continuing", o.cfg.ReadyURL, o.cfg.GraceDelay)
			return
		case <-ticker.C:
		}
	}
}

func (o *Orchestrator) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.cfg.ReadyURL, http.NoBody)
	if err != nil {
		return false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}

// isSignalExit reports whether err is the expected result of terminating a child by signal.
func isSignalExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	return exitErr.ExitCode() == -1 || exitErr.ExitCode() == 143 || exitErr.ExitCode() == 137
}
