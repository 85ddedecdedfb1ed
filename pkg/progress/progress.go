// Package progress provides timestamped logging to file and stdout with color support.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/umputun/memories-e2e/pkg/config"
	"github.com/umputun/memories-e2e/pkg/status"
)

// Colors holds console colors for outcomes, phases and message levels.
type Colors struct {
	pass      *color.Color
	fail      *color.Color
	skip      *color.Color
	warn      *color.Color
	err       *color.Color
	timestamp *color.Color
	info      *color.Color
	plain     *color.Color
}

// NewColors creates Colors from "r,g,b" strings of the config.
// a malformed or empty value falls back to a basic ANSI color.
func NewColors(cfg config.ColorConfig) *Colors {
	return &Colors{
		pass:      rgbColor(cfg.Pass, color.FgGreen),
		fail:      rgbColor(cfg.Fail, color.FgRed),
		skip:      rgbColor(cfg.Skip, color.FgYellow),
		warn:      rgbColor(cfg.Warn, color.FgYellow),
		err:       rgbColor(cfg.Error, color.FgRed),
		timestamp: rgbColor(cfg.Timestamp, color.FgWhite),
		info:      rgbColor(cfg.Info, color.FgCyan),
		plain:     color.New(color.Reset),
	}
}

// Info returns the color for informational output.
func (c *Colors) Info() *color.Color { return c.info }

// Warn returns the color for warnings.
func (c *Colors) Warn() *color.Color { return c.warn }

// Outcome returns the color for the given scenario outcome.
func (c *Colors) Outcome(o status.Outcome) *color.Color {
	switch o {
	case status.Passed:
		return c.pass
	case status.Failed:
		return c.fail
	case status.Skipped:
		return c.skip
	default:
		return c.plain
	}
}

func (c *Colors) phase(p status.Phase) *color.Color {
	if p == status.PhaseScenario {
		return c.plain
	}
	return c.info
}

func rgbColor(rgb string, fallback color.Attribute) *color.Color {
	parts := strings.Split(rgb, ",")
	if len(parts) != 3 {
		return color.New(fallback)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return color.New(fallback)
		}
		vals[i] = v
	}
	return color.RGB(vals[0], vals[1], vals[2])
}

// Logger writes timestamped output to both file and stdout. Safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	file      *os.File
	path      string
	stdout    io.Writer
	colors    *Colors
	startTime time.Time
	phase     status.Phase
}

// Config holds logger configuration.
type Config struct {
	Path     string  // run log file, e2e-progress.txt when empty
	AppURL   string  // application under test, written to the header
	Headless bool    // browser mode, written to the header
	UseLocal bool    // whether the app is started locally, written to the header
	NoColor  bool    // disable color output (sets color.NoColor globally)
	Colors   *Colors // nil uses basic ANSI colors
}

// DefaultPath is the run log written when Config.Path is empty.
const DefaultPath = "e2e-progress.txt"

// NewLogger creates a logger writing to both a run log file and stdout.
func NewLogger(cfg Config) (*Logger, error) {
	if cfg.NoColor {
		color.NoColor = true
	}

	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create progress dir: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // path comes from config
	if err != nil {
		return nil, fmt.Errorf("create progress file: %w", err)
	}

	colors := cfg.Colors
	if colors == nil {
		colors = NewColors(config.ColorConfig{})
	}

	l := &Logger{
		file:      f,
		path:      path,
		stdout:    os.Stdout,
		colors:    colors,
		startTime: time.Now(),
		phase:     status.PhaseSetup,
	}

	l.writeFile("# Memories E2E Run Log\n")
	l.writeFile("App: %s\n", cfg.AppURL)
	l.writeFile("Headless: %t\n", cfg.Headless)
	l.writeFile("Local app: %t\n", cfg.UseLocal)
	l.writeFile("Started: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	l.writeFile("%s\n\n", strings.Repeat("-", 60))

	return l, nil
}

// Path returns the run log path.
func (l *Logger) Path() string { return l.path }

// SetPhase sets the current run phase for color coding.
func (l *Logger) SetPhase(phase status.Phase) {
	l.mu.Lock()
	l.phase = phase
	l.mu.Unlock()
}

// timestampFormat is the format for timestamps: YY-MM-DD HH:MM:SS
const timestampFormat = "06-01-02 15:04:05"

// Print writes a timestamped message to both file and stdout.
func (l *Logger) Print(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format(timestampFormat)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeFile("[%s] %s\n", timestamp, msg)
	tsStr := l.colors.timestamp.Sprintf("[%s]", timestamp)
	l.writeStdout("%s %s\n", tsStr, l.colors.phase(l.phase).Sprint(msg))
}

// PrintRaw writes without timestamp.
func (l *Logger) PrintRaw(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeFile("%s", msg)
	l.writeStdout("%s", msg)
}

// Outcome writes a scenario result colored by outcome. A multi-line message continues
// on indented lines under the first one.
func (l *Logger) Outcome(name string, o status.Outcome, d time.Duration, msg string) {
	line := fmt.Sprintf("%s %s (%s)", o.Symbol(), name, d.Round(time.Millisecond))
	if msg != "" {
		line += ": " + msg
	}
	l.block(line, l.colors.Outcome(o))
}

// getTerminalWidth returns terminal width, using COLUMNS env var or syscall.
// Defaults to 80 if detection fails. Returns content width (total - 20 for timestamp).
func getTerminalWidth() int {
	const minWidth = 40

	if cols := os.Getenv("COLUMNS"); cols != "" {
		if w, err := strconv.Atoi(cols); err == nil && w > 0 {
			return max(w-20, minWidth)
		}
	}

	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return max(w-20, minWidth)
	}

	return 80 - 20
}

// wrapText wraps text to specified width, breaking on word boundaries.
func wrapText(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		switch {
		case i == 0:
			result.WriteString(word)
			lineLen = len(word)
		case lineLen+1+len(word) <= width:
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + len(word)
		default:
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = len(word)
		}
	}
	return result.String()
}

// block writes text under one timestamp. continuation lines are indented to the message
// column and long lines are wrapped to the terminal.
func (l *Logger) block(text string, c *color.Color) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}

	timestamp := time.Now().Format(timestampFormat)
	indent := strings.Repeat(" ", len(timestamp)+3)
	width := getTerminalWidth()

	var lines []string
	for line := range strings.SplitSeq(text, "\n") {
		lines = append(lines, strings.Split(wrapText(line, width), "\n")...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, line := range lines {
		switch {
		case i == 0:
			l.writeFile("[%s] %s\n", timestamp, line)
			l.writeStdout("%s %s\n", l.colors.timestamp.Sprintf("[%s]", timestamp), c.Sprint(line))
		case line == "":
			l.writeFile("\n")
			l.writeStdout("\n")
		default:
			l.writeFile("%s%s\n", indent, line)
			l.writeStdout("%s%s\n", indent, c.Sprint(line))
		}
	}
}

// Error writes an error message.
func (l *Logger) Error(format string, args ...any) {
	l.leveled("ERROR", l.colors.err, format, args...)
}

// Warn writes a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.leveled("WARN", l.colors.warn, format, args...)
}

func (l *Logger) leveled(level string, c *color.Color, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format(timestampFormat)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeFile("[%s] %s: %s\n", timestamp, level, msg)
	tsStr := l.colors.timestamp.Sprintf("[%s]", timestamp)
	l.writeStdout("%s %s\n", tsStr, c.Sprintf("%s: %s", level, msg))
}

// Elapsed returns formatted elapsed time since start.
func (l *Logger) Elapsed() string {
	return humanize.RelTime(l.startTime, time.Now(), "", "")
}

// Close writes footer and closes the run log.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}

	l.writeFile("\n%s\n", strings.Repeat("-", 60))
	l.writeFile("Completed: %s (%s)\n", time.Now().Format("2006-01-02 15:04:05"), l.Elapsed())

	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close progress file: %w", err)
	}
	return nil
}

func (l *Logger) writeFile(format string, args ...any) {
	if l.file != nil {
		fmt.Fprintf(l.file, format, args...)
	}
}

func (l *Logger) writeStdout(format string, args ...any) {
	fmt.Fprintf(l.stdout, format, args...)
}
