package display

import (
	"fmt"
	"time"

	"github.com/backmassage/datestamp/internal/term"
)

// FormatRename returns `"old" -> "new"`, with the new name highlighted.
func FormatRename(oldName, newName string) string {
	return fmt.Sprintf("%q -> %s", oldName, term.Paint(term.NewName, fmt.Sprintf("%q", newName)))
}

// Plural returns "1 file", "2 files" and so on.
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatDuration returns a short elapsed time (e.g. "850ms", "1.2s", "2m05s").
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		m := int(d / time.Minute)
		s := int((d % time.Minute) / time.Second)
		return fmt.Sprintf("%dm%02ds", m, s)
	}
}
