// Package colors provides terminal color support for refscope output.
//
// This package provides:
// - ANSI color codes for terminal output
// - Reference decorations keyed by record kind
// - Automatic color detection and fallback for non-color terminals
package colors

import (
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
)

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"

	BrightRed     = "\033[91m"
	BrightGreen   = "\033[92m"
	BrightYellow  = "\033[93m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
)

// colorEnabled determines if color output should be used
var colorEnabled = shouldUseColor(os.Stdout)

// shouldUseColor determines if the terminal supports colors
func shouldUseColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if runtime.GOOS != "windows" && (term == "dumb" || term == "") {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColorEnabled allows manual control of color output
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// IsColorEnabled returns whether colors are currently enabled
func IsColorEnabled() bool {
	return colorEnabled
}

// colorize applies color to text if colors are enabled
func colorize(text, color string) string {
	if !colorEnabled || text == "" {
		return text
	}
	return color + text + ColorReset
}

// refColors maps a record kind (see refs.Record.Kind) to its decoration.
var refColors = map[string]string{
	"annotated-tag": ColorBold + BrightYellow,
	"tag":           BrightYellow,
	"head":          ColorBold + BrightCyan,
	"tracked":       BrightMagenta,
	"remote":        BrightGreen,
	"replace":       BrightRed,
	"branch":        BrightCyan,
}

// Ref colors a reference name by its kind. Unknown kinds are left as is.
func Ref(kind, name string) string {
	c, ok := refColors[kind]
	if !ok {
		return name
	}
	return colorize(name, c)
}

// Decorate renders a name the way tig labels references: [tag], <remote>,
// {tracked} and plain brackets for everything else.
func Decorate(kind, name string) string {
	var label string
	switch kind {
	case "tag", "annotated-tag":
		label = "[" + name + "]"
	case "remote":
		label = "<" + name + ">"
	case "tracked":
		label = "{" + name + "}"
	case "replace":
		label = "~" + name + "~"
	default:
		label = "[" + name + "]"
	}
	return Ref(kind, label)
}

func Red(text string) string {
	return colorize(text, BrightRed)
}

func Green(text string) string {
	return colorize(text, BrightGreen)
}

func Yellow(text string) string {
	return colorize(text, BrightYellow)
}

func Cyan(text string) string {
	return colorize(text, BrightCyan)
}

func Gray(text string) string {
	return colorize(text, ColorGray)
}

func Bold(text string) string {
	return colorize(text, ColorBold)
}

func Dim(text string) string {
	return colorize(text, ColorDim)
}

// Section headers with colors
func SectionHeader(text string) string {
	return Bold(text)
}

func ErrorText(text string) string {
	return Red(text)
}

func SuccessText(text string) string {
	return Green(text)
}

func InfoText(text string) string {
	return Cyan(text)
}

func WarningText(text string) string {
	return Yellow(text)
}
