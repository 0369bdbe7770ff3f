package styles

import (
	"fmt"
	"time"
)

// FormatElapsed renders d as seconds with precision decimal places,
// e.g. "1.200000000 s". Digits beyond precision are truncated, never
// rounded, so the display never shows a whole second before it has passed.
func FormatElapsed(d time.Duration, precision int) string {
	precision = min(max(precision, 0), 9)
	if d < 0 {
		d = 0
	}

	secs := int64(d / time.Second)
	if precision == 0 {
		return fmt.Sprintf("%d s", secs)
	}

	frac := fmt.Sprintf("%09d", int64(d%time.Second))
	return fmt.Sprintf("%d.%s s", secs, frac[:precision])
}

// FormatState returns the label shown for the running state.
func FormatState(running bool) string {
	if running {
		return "running"
	}
	return "stopped"
}
