package format

import (
	"testing"
	"time"

	"github.com/agbru/usagewarn/internal/usage"
)

func TestFormatUptime(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{-time.Second, "0s"},
		{500 * time.Millisecond, "0s"},
		{42 * time.Second, "42s"},
		{3*time.Minute + 7*time.Second, "3m07s"},
		{2*time.Hour + 5*time.Minute, "2h05m00s"},
		{26*time.Hour + 1500*time.Millisecond, "26h00m01s"},
	}

	for _, tt := range tests {
		got := FormatUptime(tt.d)
		if got != tt.expected {
			t.Errorf("FormatUptime(%v) = %s; want %s", tt.d, got, tt.expected)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 3, 1, 9, 5, 7, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "09:05:07" {
		t.Errorf("FormatTimestamp = %s", got)
	}
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		p    usage.Percent
		want string
	}{
		{0, "  0%"},
		{7, "  7%"},
		{59, " 59%"},
		{100, "100%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.p); got != tt.want {
			t.Errorf("FormatPercent(%d) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestGauge(t *testing.T) {
	t.Parallel()
	tests := []struct {
		p     usage.Percent
		width int
		want  string
	}{
		{0, 4, "░░░░"},
		{50, 4, "██░░"},
		{100, 4, "████"},
		{99, 10, "█████████░"},
		{50, 0, ""},
	}
	for _, tt := range tests {
		if got := Gauge(tt.p, tt.width); got != tt.want {
			t.Errorf("Gauge(%d, %d) = %q, want %q", tt.p, tt.width, got, tt.want)
		}
	}
}
