// Package logging provides colored, leveled log output for the tripfix CLI.
//
// Every line goes to stderr so stdout carries only the repaired document.
// Debug output is suppressed unless verbose mode is enabled via
// SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer // nil means os.Stderr
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	debugPrefix   = color.New(color.FgMagenta).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// Verbose reports whether Debug output is enabled.
func Verbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput redirects log lines to w. A nil w restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func emit(prefix, msg string) {
	mu.Lock()
	defer mu.Unlock()
	w := output
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintln(w, prefix+" "+msg)
}

// Info prints an informational message in blue.
func Info(msg string) {
	emit(infoPrefix("[INFO]"), msg)
}

// Success prints a success message in green.
func Success(msg string) {
	emit(successPrefix("[SUCCESS]"), msg)
}

// Warn prints a warning message in yellow.
func Warn(msg string) {
	emit(warnPrefix("[WARN]"), msg)
}

// Error prints an error message in red.
func Error(msg string) {
	emit(errorPrefix("[ERROR]"), msg)
}

// Debug prints a debug message, only when verbose mode is enabled.
func Debug(msg string) {
	if !Verbose() {
		return
	}
	emit(debugPrefix("[DEBUG]"), msg)
}

// Debugf is Debug with formatting.
func Debugf(format string, args ...any) {
	if !Verbose() {
		return
	}
	emit(debugPrefix("[DEBUG]"), fmt.Sprintf(format, args...))
}

// Sink adapts the package logger to collaborators that take a Debugf
// method, such as the repair pipeline.
type Sink struct{}

// Debugf forwards to the package-level Debugf.
func (Sink) Debugf(format string, args ...any) {
	Debugf(format, args...)
}

// FormatDuration renders an elapsed time for log lines.
//
// Examples:
//
//	FormatDuration(0)                      => "0ms"
//	FormatDuration(1500 * time.Microsecond) => "1.5ms"
//	FormatDuration(2300 * time.Millisecond) => "2.3s"
//	FormatDuration(90 * time.Second)        => "1m 30s"
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		ms := float64(d) / float64(time.Millisecond)
		return fmt.Sprintf("%sms", trimFloat(ms))
	case d < time.Minute:
		return fmt.Sprintf("%ss", trimFloat(d.Seconds()))
	default:
		m := int(d / time.Minute)
		s := int((d % time.Minute) / time.Second)
		return fmt.Sprintf("%dm %ds", m, s)
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.1f", f)
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}
