package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/usagewarn/internal/orchestration"
	"github.com/agbru/usagewarn/internal/threshold"
)

// Labels of the fixed top-level menu entries.
const (
	autostartLabel = "Autostart"
	quitLabel      = "Beenden"
)

type menuActionKind int

const (
	menuNone menuActionKind = iota
	menuSetLevel
	menuSetAutostart
	menuQuit
)

// menuAction is what a key press in the menu asks the model to do.
type menuAction struct {
	kind    menuActionKind
	metric  threshold.Metric
	level   int
	enabled bool
}

// MenuModel is the context menu overlay: one submenu per metric with the
// offered warning levels, the autostart checkbox and the quit entry.
type MenuModel struct {
	state     orchestration.MenuState
	open      bool
	cursor    int
	sub       int // index into state.Levels, or -1 at the top level
	subCursor int
}

// NewMenuModel returns a closed, empty menu.
func NewMenuModel() MenuModel {
	return MenuModel{sub: -1}
}

// SetState replaces the menu contents, keeping the cursor in range.
func (mm *MenuModel) SetState(state orchestration.MenuState) {
	mm.state = state
	if mm.sub >= len(state.Levels) {
		mm.sub = -1
	}
	if mm.cursor >= mm.topCount() {
		mm.cursor = mm.topCount() - 1
	}
	if mm.sub >= 0 && mm.subCursor >= len(state.Levels[mm.sub].Choices) {
		mm.subCursor = 0
	}
}

// Open shows the menu at the top level.
func (mm *MenuModel) Open() {
	mm.open = true
	mm.cursor = 0
	mm.sub = -1
}

// Close hides the menu.
func (mm *MenuModel) Close() {
	mm.open = false
	mm.sub = -1
}

// IsOpen reports whether the overlay is shown.
func (mm MenuModel) IsOpen() bool { return mm.open }

// topCount is the number of top-level entries.
func (mm MenuModel) topCount() int {
	return len(mm.state.Levels) + 2
}

// handleKey moves the cursor or returns the action selected by the user.
// Every action closes the menu.
func (mm *MenuModel) handleKey(msg tea.KeyMsg, km KeyMap) menuAction {
	switch {
	case key.Matches(msg, km.Up):
		if mm.sub >= 0 {
			if mm.subCursor > 0 {
				mm.subCursor--
			}
		} else if mm.cursor > 0 {
			mm.cursor--
		}

	case key.Matches(msg, km.Down):
		if mm.sub >= 0 {
			if mm.subCursor < len(mm.state.Levels[mm.sub].Choices)-1 {
				mm.subCursor++
			}
		} else if mm.cursor < mm.topCount()-1 {
			mm.cursor++
		}

	case key.Matches(msg, km.Back), key.Matches(msg, km.Menu):
		if mm.sub >= 0 && !key.Matches(msg, km.Menu) {
			mm.sub = -1
		} else {
			mm.Close()
		}

	case key.Matches(msg, km.Select):
		return mm.selectCurrent()
	}
	return menuAction{}
}

func (mm *MenuModel) selectCurrent() menuAction {
	if mm.sub >= 0 {
		lm := mm.state.Levels[mm.sub]
		if len(lm.Choices) == 0 {
			return menuAction{}
		}
		choice := lm.Choices[mm.subCursor]
		mm.Close()
		return menuAction{kind: menuSetLevel, metric: lm.Metric, level: choice.Level}
	}

	switch n := len(mm.state.Levels); {
	case mm.cursor < n:
		mm.sub = mm.cursor
		mm.subCursor = 0
		for i, c := range mm.state.Levels[mm.sub].Choices {
			if c.Checked {
				mm.subCursor = i
			}
		}
		return menuAction{}
	case mm.cursor == n:
		mm.Close()
		return menuAction{kind: menuSetAutostart, enabled: !mm.state.Autostart}
	default:
		mm.Close()
		return menuAction{kind: menuQuit}
	}
}

// View renders the overlay box.
func (mm MenuModel) View() string {
	var b strings.Builder
	if mm.sub >= 0 {
		lm := mm.state.Levels[mm.sub]
		b.WriteString(panelTitleStyle.Render(lm.Title))
		b.WriteString("\n")
		for i, c := range lm.Choices {
			mark := "( )"
			if c.Checked {
				mark = menuCheckedStyle.Render("(•)")
			}
			b.WriteString(mm.line(i == mm.subCursor, fmt.Sprintf("%s %d%%", mark, c.Level)))
		}
		return menuStyle.Render(strings.TrimRight(b.String(), "\n"))
	}

	b.WriteString(panelTitleStyle.Render("Menü"))
	b.WriteString("\n")
	for i, lm := range mm.state.Levels {
		b.WriteString(mm.line(i == mm.cursor, lm.Title+" ›"))
	}
	check := "[ ]"
	if mm.state.Autostart {
		check = menuCheckedStyle.Render("[x]")
	}
	n := len(mm.state.Levels)
	b.WriteString(mm.line(mm.cursor == n, check+" "+autostartLabel))
	b.WriteString(mm.line(mm.cursor == n+1, quitLabel))
	return menuStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (mm MenuModel) line(selected bool, text string) string {
	if selected {
		return menuCursorStyle.Render("› "+text) + "\n"
	}
	return "  " + text + "\n"
}
