package orchestrator

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// processGroup tracks a started command running in its own process group,
// so the whole tree spawned by the shell can be terminated together.
type processGroup struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error // set before done is closed
}

// setupProcessGroup configures command to run in its own process group.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// newProcessGroup starts reaping the already started command in background.
// done is closed once the process has exited.
func newProcessGroup(cmd *exec.Cmd) *processGroup {
	pg := &processGroup{cmd: cmd, done: make(chan struct{})}
	go func() {
		if err := cmd.Wait(); err != nil {
			pg.err = fmt.Errorf("command wait: %w", err)
		}
		close(pg.done)
	}()
	return pg
}

// exited reports whether the process has already exited.
func (pg *processGroup) exited() bool {
	select {
	case <-pg.done:
		return true
	default:
		return false
	}
}

// terminate sends SIGTERM to the process group and escalates to SIGKILL
// if the group leader is still alive after grace. returns the exit error, if any.
func (pg *processGroup) terminate(grace time.Duration) error {
	if pg.cmd.Process == nil || pg.exited() {
		return pg.err
	}

	pgid := -pg.cmd.Process.Pid
	if err := syscall.Kill(pgid, syscall.SIGTERM); err != nil {
		if !errors.Is(err, syscall.ESRCH) {
			return fmt.Errorf("sigterm pgid %d: %w", pgid, err)
		}
		<-pg.done
		return pg.err
	}

	select {
	case <-pg.done:
		return pg.err
	case <-time.After(grace):
	}

	if err := syscall.Kill(pgid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("sigkill pgid %d: %w", pgid, err)
	}
	<-pg.done
	return pg.err
}
