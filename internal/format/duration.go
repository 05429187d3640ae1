// Package format renders durations, timestamps and readings for display.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/usagewarn/internal/usage"
)

// TimestampLayout prefixes notification lines.
const TimestampLayout = "15:04:05"

// FormatUptime renders d at second precision, e.g. "42s", "3m07s", "2h05m00s".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatTimestamp renders t as wall-clock time of day.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FormatPercent renders p right-aligned in four columns ("  7%", "100%").
func FormatPercent(p usage.Percent) string {
	return fmt.Sprintf("%3d%%", p)
}

// Gauge renders p as a bar of width cells.
func Gauge(p usage.Percent, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(p) * width / 100
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
