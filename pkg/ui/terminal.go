// Package ui renders command output on the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonOrange  = lipgloss.Color("#FF6700")

	labelStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(neonYellow)

	successStyle = lipgloss.NewStyle().
			Foreground(neonGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(neonOrange).
			Bold(true)

	highlightStyle = lipgloss.NewStyle().
			Foreground(neonMagenta).
			Bold(true)
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stdout
	errOut  io.Writer = os.Stderr
	noColor bool
	quiet   bool
)

// SetOutput redirects regular and error output. Nil restores the
// standard streams.
func SetOutput(stdout, stderr io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	out, errOut = stdout, stderr
}

// SetNoColor disables styling
func SetNoColor(v bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = v
}

// SetQuietMode suppresses everything but errors
func SetQuietMode(v bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = v
}

func render(style lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return style.Render(text)
}

func writeLine(w io.Writer, line string) {
	fmt.Fprintln(w, line)
}

// PrintError prints an error message, with an optional detail, to stderr
func PrintError(msg string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if len(args) > 0 && fmt.Sprint(args[0]) != "" {
		msg = msg + ": " + fmt.Sprint(args[0])
	}
	writeLine(errOut, render(errorStyle, msg))
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	writeLine(out, render(successStyle, msg))
}

// PrintInfo prints a label and its value
func PrintInfo(label string, value string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	writeLine(out, render(labelStyle, label+":")+" "+render(valueStyle, value))
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprint(args[0])
	}
	writeLine(errOut, render(warningStyle, msg))
}

// PrintHighlight prints a section heading
func PrintHighlight(msg string) {
	mu.Lock()
	defer mu.Unlock()
	if quiet {
		return
	}
	writeLine(out, render(highlightStyle, msg))
}

// PrintRaw writes text unstyled. Quiet mode does not apply, command
// results always reach stdout.
func PrintRaw(text string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprint(out, text)
}
