package utils

import (
	"fmt"
	"time"
)

// FormatTime formats a duration as a short human readable value,
// e.g. 850ms, 12s, 3m:05s or 1h:02m:09s.
func FormatTime(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	switch {
	case h > 0:
		return fmt.Sprintf("%dh:%02dm:%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm:%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
