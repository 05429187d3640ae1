package tui

import (
	"time"

	"github.com/agbru/usagewarn/internal/format"
)

// HeaderModel renders the top bar: title, version, uptime.
type HeaderModel struct {
	startTime time.Time
	now       time.Time
	version   string
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	now := time.Now()
	return HeaderModel{
		startTime: now,
		now:       now,
		version:   version,
	}
}

// SetNow advances the uptime clock.
func (h *HeaderModel) SetNow(t time.Time) {
	h.now = t
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "Usage Warner"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)
	pipe := versionStyle.Render(" | ")
	uptime := elapsedStyle.Render("läuft seit " + format.FormatUptime(h.now.Sub(h.startTime)))

	row := title + pipe + uptime
	if h.width <= 0 {
		return headerStyle.Render(row)
	}
	return headerStyle.Width(h.width).Render(row)
}
