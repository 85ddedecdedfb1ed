//go:build !windows

package main

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// muteInterruptEcho clears ECHOCTL on the controlling terminal so Ctrl+C does not print "^C"
// into the middle of run narration. the returned func restores the saved termios.
func muteInterruptEcho() func() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}

	saved, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return func() {}
	}

	muted := *saved
	muted.Lflag &^= unix.ECHOCTL
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &muted); err != nil {
		return func() {}
	}

	return func() {
		unix.IoctlSetTermios(fd, ioctlWriteTermios, saved) //nolint:errcheck // best-effort restore
	}
}
