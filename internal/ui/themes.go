package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/usagewarn/internal/usage"
)

// Theme holds ANSI escape codes for console output.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Normal, Caution and Alert colour utilisation readings by band.
	Normal  string
	Caution string
	Alert   string
	// Secondary is used for labels and timestamps.
	Secondary string
	// Info is used for notifications.
	Info  string
	Bold  string
	Reset string
}

var (
	// DarkTheme is the default console theme.
	DarkTheme = Theme{
		Name:      "dark",
		Normal:    "\033[38;2;124;252;0m", // #7CFC00 lawn green
		Caution:   "\033[33m",             // yellow
		Alert:     "\033[31m",             // red
		Secondary: "\033[38;5;245m",       // grey
		Info:      "\033[38;5;39m",        // bright blue
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color flag is provided.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// Band returns the escape code for a utilisation band.
func (t Theme) Band(b usage.Band) string {
	switch b {
	case usage.BandAlert:
		return t.Alert
	case usage.BandCaution:
		return t.Caution
	default:
		return t.Normal
	}
}

// TUITheme defines lipgloss-compatible colors for the TUI dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Normal  lipgloss.TerminalColor
	Caution lipgloss.TerminalColor
	Alert   lipgloss.TerminalColor
}

var (
	// DarkTUITheme uses the band colours of the tray icon.
	DarkTUITheme = TUITheme{
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#4488FF"),
		Accent:  lipgloss.Color("#7CFC00"),
		Dim:     lipgloss.Color("#666666"),
		Normal:  lipgloss.Color(usage.BandNormal.Color()),
		Caution: lipgloss.Color("#FFFF00"),
		Alert:   lipgloss.Color("#FF0000"),
	}

	// NoColorTUITheme renders everything in the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Normal:  lipgloss.NoColor{},
		Caution: lipgloss.NoColor{},
		Alert:   lipgloss.NoColor{},
	}
)

// Band returns the lipgloss colour for a utilisation band.
func (t TUITheme) Band(b usage.Band) lipgloss.TerminalColor {
	switch b {
	case usage.BandAlert:
		return t.Alert
	case usage.BandCaution:
		return t.Caution
	default:
		return t.Normal
	}
}

// GetCurrentTUITheme returns the TUI theme matching the currently active theme.
// When NoColorTheme is active, returns NoColorTUITheme; otherwise DarkTUITheme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	if currentTheme.Name == "none" {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used for testing purposes to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// InitTheme initializes the theme based on the noColor flag and environment.
// It respects the NO_COLOR environment variable (https://no-color.org/).
func InitTheme(noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if noColor {
		currentTheme = NoColorTheme
		return
	}

	// Any value, even empty, disables colors (per no-color.org).
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		currentTheme = NoColorTheme
		return
	}

	currentTheme = DarkTheme
}
