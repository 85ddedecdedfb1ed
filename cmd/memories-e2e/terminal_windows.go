//go:build windows

package main

// muteInterruptEcho does nothing on windows, consoles there do not echo ^C.
func muteInterruptEcho() func() {
	return func() {}
}
