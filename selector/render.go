package selector

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const (
	clearScreen = "\x1b[H\x1b[2J"
	caret       = "▶"

	// Lines of the frame that are not item rows: banner, count, blank lines, instructions.
	chromeLines = 8
)

var (
	accent     = color.New(color.FgCyan)
	accentBold = color.New(color.FgCyan, color.Bold)
	faint      = color.New(color.Faint)
)

const instructions = "Navigation: ↑↓ arrows | Selection: ENTER | Filter: Type | Exit: Ctrl+C"

// window returns the range of rows to show so that the selected one is visible.
func window(selected, total, visible int) (start, end int) {
	if visible <= 0 || total <= visible {
		return 0, total
	}
	start = selected - visible + 1
	if start < 0 {
		start = 0
	}
	return start, start + visible
}

// frame draws the whole screen for the given state: filter banner, item rows with a caret on the selected one,
// and the instruction line. The frame is at most height lines tall when there are more rows than fit. Lines are
// separated by "\n"; Select translates them for raw mode.
func (s *Selector[T]) frame(st *state[T], height int) string {
	var b strings.Builder
	b.WriteString(clearScreen)
	chrome := chromeLines
	if s.header != "" {
		header := strings.TrimRight(s.header, "\n")
		b.WriteString(header)
		b.WriteString("\n")
		chrome += strings.Count(header, "\n") + 1
	}
	if st.filter != "" {
		_, _ = fmt.Fprintf(&b, "\n%s\n", accent.Sprintf("Filter: \"%s\"", st.filter))
	} else {
		_, _ = fmt.Fprintf(&b, "\n%s\n", accent.Sprintf("All %s", s.title))
	}
	if st.filter != "" {
		_, _ = fmt.Fprintf(&b, "\n%s\n\n", accent.Sprintf("%s (%d of %d total):", s.title, len(st.filtered), len(st.items)))
	} else {
		_, _ = fmt.Fprintf(&b, "\n%s\n\n", accent.Sprintf("%s (%d total):", s.title, len(st.items)))
	}

	visible := 0
	if height > 0 {
		visible = height - chrome
		if visible < 3 {
			visible = 3
		}
	}
	start, end := window(st.selected, len(st.filtered), visible)
	for i := start; i < end; i++ {
		item := st.filtered[i]
		if i == st.selected {
			_, _ = fmt.Fprintf(&b, "%s %s\n", accentBold.Sprint(caret), s.row(item, true))
		} else {
			_, _ = fmt.Fprintf(&b, "  %s\n", s.row(item, false))
		}
	}
	if len(st.filtered) == 0 {
		_, _ = fmt.Fprintf(&b, "  %s\n", faint.Sprint("No matches"))
	}
	b.WriteString("\n")
	if start > 0 || end < len(st.filtered) {
		_, _ = fmt.Fprintf(&b, "%s\n", faint.Sprintf("Showing %d-%d of %d", start+1, end, len(st.filtered)))
	}
	// No newline after the last line, which would scroll a full frame up by one.
	b.WriteString(faint.Sprint(instructions))
	return b.String()
}
