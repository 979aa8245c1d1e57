// Package term decides whether output is colored and paints text by the
// role it plays in datestamp's output.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/datestamp/internal/config"
)

// Role is a kind of output with its own color.
type Role int

const (
	Plain Role = iota
	Info
	Success
	Warn
	Failure
	Rename
	Debug
	NewName // the proposed name in a rename line
	Banner
)

const reset = "\033[0m"

var palette = map[Role]string{
	Info:    "\033[1;94m",
	Success: "\033[1;92m",
	Warn:    "\033[1;93m",
	Failure: "\033[1;91m",
	Rename:  "\033[1;95m",
	Debug:   "\033[1;96m",
	NewName: "\033[1;92m",
	Banner:  "\033[1;95m",
}

// enabled is set once during startup by Configure.
var enabled bool

// Configure decides from mode whether output written to out is colored.
// Call once during startup (from [logging.NewLogger]).
func Configure(mode config.ColorMode, out *os.File) {
	switch mode {
	case config.ColorAlways:
		enabled = true
	case config.ColorNever:
		enabled = false
	default:
		enabled = autoColor(out)
	}
}

// Enabled reports whether colors are active.
func Enabled() bool { return enabled }

// Paint wraps s in the color of r. It returns s untouched when colors are
// off or r is Plain.
func Paint(r Role, s string) string {
	color, ok := palette[r]
	if !enabled || !ok {
		return s
	}
	return color + s + reset
}

// autoColor honors NO_COLOR (https://no-color.org) and TERM=dumb, then
// colors only a terminal.
func autoColor(out *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return IsTerminal(out)
}

// IsTerminal reports whether f is a character device.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
