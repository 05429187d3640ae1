// Package cli renders readings and notifications on a plain console, for
// headless runs and for the single-shot --once mode.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/usagewarn/internal/format"
	"github.com/agbru/usagewarn/internal/orchestration"
	"github.com/agbru/usagewarn/internal/ui"
)

// ConsoleSink writes readings to a spinner status line and notifications as
// timestamped lines. In quiet mode only notifications are printed.
type ConsoleSink struct {
	out   io.Writer
	quiet bool
	now   func() time.Time

	mu       sync.Mutex
	spinner  Spinner
	running  bool
	started  time.Time
	readings []orchestration.Reading
}

// Verify interface compliance.
var (
	_ orchestration.Presenter    = (*ConsoleSink)(nil)
	_ orchestration.Notifier     = (*ConsoleSink)(nil)
	_ orchestration.MenuRenderer = (*ConsoleSink)(nil)
)

// NewConsoleSink creates a sink writing to out.
func NewConsoleSink(out io.Writer, quiet bool) *ConsoleSink {
	c := &ConsoleSink{out: out, quiet: quiet, now: time.Now}
	if !quiet {
		c.spinner = newSpinner(spinner.WithWriter(out))
	}
	return c
}

// Start begins the status line animation.
func (c *ConsoleSink) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = c.now()
	if c.spinner != nil && !c.running {
		c.spinner.UpdateSuffix(" Usage Warner")
		c.spinner.Start()
		c.running = true
	}
}

// Stop halts the status line.
func (c *ConsoleSink) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.spinner != nil && c.running {
		c.spinner.Stop()
		c.running = false
	}
}

// Present updates the status line with the latest readings.
func (c *ConsoleSink) Present(readings []orchestration.Reading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readings = readings
	if c.spinner == nil {
		return
	}
	suffix := " " + FormatReadings(readings, ui.GetCurrentTheme())
	if !c.started.IsZero() {
		suffix += fmt.Sprintf("  (%s)", format.FormatUptime(c.now().Sub(c.started)))
	}
	c.spinner.UpdateSuffix(suffix)
}

// Notify prints message on its own line, pausing the status line around it.
func (c *ConsoleSink) Notify(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := ui.GetCurrentTheme()
	c.printLine(fmt.Sprintf("%s[%s]%s %s%s%s",
		t.Secondary, format.FormatTimestamp(c.now()), t.Reset,
		t.Info, message, t.Reset))
}

// RenderMenu prints the active warning levels and the autostart state.
func (c *ConsoleSink) RenderMenu(menu orchestration.MenuState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quiet {
		return
	}
	c.printLine(FormatMenu(menu))
}

func (c *ConsoleSink) printLine(line string) {
	if c.running {
		c.spinner.Stop()
	}
	fmt.Fprintln(c.out, line)
	if c.running {
		c.spinner.Start()
	}
}

// FormatReadings joins the readings into one coloured status line, e.g.
// "CPU  42% │ RAM  63%".
func FormatReadings(readings []orchestration.Reading, t ui.Theme) string {
	parts := make([]string, 0, len(readings))
	for _, r := range readings {
		parts = append(parts, fmt.Sprintf("%s%s %s%s", t.Band(r.Band), r.Metric.Label(), format.FormatPercent(r.Percent), t.Reset))
	}
	return strings.Join(parts, " │ ")
}

// FormatMenu summarises the menu state on one line.
func FormatMenu(menu orchestration.MenuState) string {
	parts := make([]string, 0, len(menu.Levels)+1)
	for _, lm := range menu.Levels {
		level := "-"
		for _, c := range lm.Choices {
			if c.Checked {
				level = fmt.Sprintf("%d%%", c.Level)
				break
			}
		}
		parts = append(parts, fmt.Sprintf("%s %s", lm.Title, level))
	}
	autostart := "aus"
	if menu.Autostart {
		autostart = "an"
	}
	parts = append(parts, "Autostart "+autostart)
	return strings.Join(parts, " · ")
}

// PrintReadings writes one tooltip line per reading, coloured by band.
func PrintReadings(out io.Writer, readings []orchestration.Reading) {
	t := ui.GetCurrentTheme()
	for _, r := range readings {
		fmt.Fprintf(out, "%s%s%s\n", t.Band(r.Band), r.Tooltip(), t.Reset)
	}
}

// PrintWarning writes a warning notification in the alert colour.
func PrintWarning(out io.Writer, message string) {
	t := ui.GetCurrentTheme()
	fmt.Fprintf(out, "%s%s%s\n", t.Alert, message, t.Reset)
}

// PrintError writes err to out with the standard prefix.
func PrintError(out io.Writer, err error) {
	t := ui.GetCurrentTheme()
	fmt.Fprintf(out, "%sError:%s %v\n", t.Alert, t.Reset, err)
}
