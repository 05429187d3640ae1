// Package tui is the terminal tray: a bubbletea dashboard that shows the
// current CPU and RAM readings in their band colours, lists notifications
// and offers the settings menu.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/usagewarn/internal/format"
	"github.com/agbru/usagewarn/internal/orchestration"
	"github.com/agbru/usagewarn/internal/threshold"
)

// Actions are the engine operations reachable from the menu.
type Actions interface {
	SetThreshold(ctx context.Context, metric threshold.Metric, level int) error
	SetAutostart(ctx context.Context, enabled bool)
}

// Layout constants for the dashboard.
const (
	maxNotifications = 5
	gaugeWidth       = 20
	tickInterval     = time.Second
)

type notification struct {
	at      time.Time
	message string
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header   HeaderModel
	menu     MenuModel
	keymap   KeyMap
	help     help.Model
	readings []orchestration.Reading
	notes    []notification

	ctx     context.Context
	actions Actions

	width  int
	height int
}

// NewModel creates the dashboard model.
func NewModel(ctx context.Context, actions Actions, version string) Model {
	return Model{
		header:  NewHeaderModel(version),
		menu:    NewMenuModel(),
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		ctx:     ctx,
		actions: actions,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("Usage Warner"), tickCmd())
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case ReadingsMsg:
		m.readings = msg.Readings
		return m, nil

	case NotificationMsg:
		m.addNote(msg.At, msg.Message)
		return m, nil

	case MenuMsg:
		m.menu.SetState(msg.Menu)
		return m, nil

	case TickMsg:
		m.header.SetNow(time.Time(msg))
		return m, tickCmd()

	case actionDoneMsg:
		if msg.err != nil {
			m.addNote(time.Now(), "Fehler: "+msg.err.Error())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.menu.IsOpen() {
		action := m.menu.handleKey(msg, m.keymap)
		return m, m.perform(action)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Menu), key.Matches(msg, m.keymap.Select):
		m.menu.Open()
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// perform turns a menu action into a command. Engine calls run off the
// update loop because they persist settings and query the OS.
func (m Model) perform(a menuAction) tea.Cmd {
	switch a.kind {
	case menuSetLevel:
		return setThresholdCmd(m.ctx, m.actions, a.metric, a.level)
	case menuSetAutostart:
		return setAutostartCmd(m.ctx, m.actions, a.enabled)
	case menuQuit:
		return tea.Quit
	}
	return nil
}

func (m *Model) addNote(at time.Time, message string) {
	m.notes = append(m.notes, notification{at: at, message: message})
	if len(m.notes) > maxNotifications {
		m.notes = m.notes[len(m.notes)-maxNotifications:]
	}
}

// View renders the dashboard, or the menu overlay when it is open.
func (m Model) View() string {
	if m.menu.IsOpen() && m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.menu.View())
	}

	sections := []string{
		m.header.View(),
		m.renderUsage(),
		m.renderNotes(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderUsage() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Auslastung"))
	b.WriteString("\n")
	if len(m.readings) == 0 {
		b.WriteString(dimStyle.Render("Warte auf die erste Messung..."))
		return m.panel(b.String())
	}
	for i, r := range m.readings {
		if i > 0 {
			b.WriteString("\n")
		}
		style := bandStyle(r.Band)
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-4s", r.Metric.Label())))
		b.WriteString(style.Render(format.Gauge(r.Percent, gaugeWidth)))
		b.WriteString(" ")
		b.WriteString(style.Render(format.FormatPercent(r.Percent)))
		if level, ok := m.levelFor(r.Metric); ok {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  Warnung ab %d%%", level)))
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("    " + r.Tooltip()))
	}
	return m.panel(b.String())
}

func (m Model) renderNotes() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Benachrichtigungen"))
	if len(m.notes) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Keine"))
	}
	for i := len(m.notes) - 1; i >= 0; i-- {
		n := m.notes[i]
		b.WriteString("\n")
		b.WriteString(noteTimeStyle.Render(format.FormatTimestamp(n.at)))
		b.WriteString(" ")
		b.WriteString(noteStyle.Render(n.message))
	}
	return m.panel(b.String())
}

func (m Model) panel(content string) string {
	if m.width > 4 {
		return panelStyle.Width(m.width - 2).Render(content)
	}
	return panelStyle.Render(content)
}

// levelFor returns the checked menu level for metric.
func (m Model) levelFor(metric threshold.Metric) (int, bool) {
	for _, lm := range m.menu.state.Levels {
		if lm.Metric != metric {
			continue
		}
		for _, c := range lm.Choices {
			if c.Checked {
				return c.Level, true
			}
		}
	}
	return 0, false
}

// Program is a dashboard attached to its sink.
type Program struct {
	ctx     context.Context
	sink    *Sink
	program *tea.Program
}

// NewProgram builds the dashboard and attaches sink to it. Messages the
// engine sends after this call are delivered once Run starts.
func NewProgram(ctx context.Context, sink *Sink, actions Actions, version string) *Program {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, actions, version)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	sink.ref.SetProgram(p)
	return &Program{ctx: ctx, sink: sink, program: p}
}

// Run blocks until the user quits or the context is cancelled.
func (p *Program) Run() error {
	defer p.sink.ref.SetProgram(nil)

	_, err := p.program.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && p.ctx.Err() != nil {
		return nil
	}
	return err
}

// Run starts the dashboard and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, sink *Sink, actions Actions, version string) error {
	return NewProgram(ctx, sink, actions, version).Run()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func setThresholdCmd(ctx context.Context, a Actions, metric threshold.Metric, level int) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: a.SetThreshold(ctx, metric, level)}
	}
}

func setAutostartCmd(ctx context.Context, a Actions, enabled bool) tea.Cmd {
	return func() tea.Msg {
		a.SetAutostart(ctx, enabled)
		return actionDoneMsg{}
	}
}
