package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/usagewarn/internal/ui"
	"github.com/agbru/usagewarn/internal/usage"
)

// Style variables for the TUI dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle       lipgloss.Style
	panelTitleStyle  lipgloss.Style
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	versionStyle     lipgloss.Style
	elapsedStyle     lipgloss.Style
	labelStyle       lipgloss.Style
	dimStyle         lipgloss.Style
	noteTimeStyle    lipgloss.Style
	noteStyle        lipgloss.Style
	menuStyle        lipgloss.Style
	menuCursorStyle  lipgloss.Style
	menuCheckedStyle lipgloss.Style
	bandStyles       map[usage.Band]lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Border)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	elapsedStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	labelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Text)

	dimStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	noteTimeStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	noteStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	menuStyle = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Border).
		Padding(0, 2)

	menuCursorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	menuCheckedStyle = lipgloss.NewStyle().
		Foreground(t.Normal)

	bandStyles = map[usage.Band]lipgloss.Style{
		usage.BandNormal:  lipgloss.NewStyle().Bold(true).Foreground(t.Band(usage.BandNormal)),
		usage.BandCaution: lipgloss.NewStyle().Bold(true).Foreground(t.Band(usage.BandCaution)),
		usage.BandAlert:   lipgloss.NewStyle().Bold(true).Foreground(t.Band(usage.BandAlert)),
	}
}

// bandStyle returns the style for a reading in band b.
func bandStyle(b usage.Band) lipgloss.Style {
	if s, ok := bandStyles[b]; ok {
		return s
	}
	return labelStyle
}
