package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/usagewarn/internal/orchestration"
	"github.com/agbru/usagewarn/internal/threshold"
	"github.com/agbru/usagewarn/internal/usage"
)

type recordingActions struct {
	mu         sync.Mutex
	thresholds []string
	autostart  []bool
	err        error
}

func (r *recordingActions) SetThreshold(_ context.Context, metric threshold.Metric, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.thresholds = append(r.thresholds, string(metric)+":"+strconv.Itoa(level))
	return r.err
}

func (r *recordingActions) SetAutostart(_ context.Context, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autostart = append(r.autostart, enabled)
}

func testMenu(ram, cpu int, autostart bool) orchestration.MenuState {
	state := orchestration.MenuState{Autostart: autostart}
	for _, def := range []struct {
		m     threshold.Metric
		level int
	}{{threshold.RAM, ram}, {threshold.CPU, cpu}} {
		lm := orchestration.LevelMenu{Metric: def.m, Title: def.m.Label() + " Warnung ab"}
		for l := 10; l <= 100; l += 10 {
			lm.Choices = append(lm.Choices, orchestration.LevelChoice{Level: l, Checked: l == def.level})
		}
		state.Levels = append(state.Levels, lm)
	}
	return state
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func newTestModel(actions Actions) Model {
	m := NewModel(context.Background(), actions, "v1.2.3")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func TestModel_ReadingsRendered(t *testing.T) {
	m := newTestModel(&recordingActions{})
	m, _ = update(t, m, MenuMsg{Menu: testMenu(50, 70, false)})
	m, _ = update(t, m, ReadingsMsg{Readings: []orchestration.Reading{
		orchestration.NewReading(threshold.CPU, 85),
		orchestration.NewReading(threshold.RAM, 42),
	}})

	view := m.View()
	for _, want := range []string{
		"Usage Warner v1.2.3",
		"CPU Auslastung: 85%",
		"RAM Auslastung: 42%",
		"Warnung ab 70%",
		"Warnung ab 50%",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if m.readings[0].Band != usage.BandAlert {
		t.Errorf("cpu band = %v, want alert", m.readings[0].Band)
	}
}

func TestModel_WaitingBeforeFirstReading(t *testing.T) {
	m := newTestModel(&recordingActions{})
	if !strings.Contains(m.View(), "Warte auf die erste Messung") {
		t.Error("expected placeholder before the first tick")
	}
}

func TestModel_NotificationsKeepNewest(t *testing.T) {
	m := newTestModel(&recordingActions{})
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < maxNotifications+2; i++ {
		m, _ = update(t, m, NotificationMsg{Message: "msg-" + strconv.Itoa(i), At: base.Add(time.Duration(i) * time.Second)})
	}

	if len(m.notes) != maxNotifications {
		t.Fatalf("notes = %d, want %d", len(m.notes), maxNotifications)
	}
	if m.notes[0].message != "msg-2" {
		t.Errorf("oldest kept = %q, want msg-2", m.notes[0].message)
	}
	view := m.View()
	if strings.Contains(view, "msg-1 ") || !strings.Contains(view, "msg-6") {
		t.Errorf("view should list the newest notifications:\n%s", view)
	}
	if !strings.Contains(view, "10:00:06") {
		t.Errorf("view should show timestamps:\n%s", view)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m := newTestModel(&recordingActions{})
		_, cmd := update(t, m, keyMsg(k))
		if !isQuit(cmd) {
			t.Errorf("%s should quit", k)
		}
	}
}

func TestModel_MenuSetThreshold(t *testing.T) {
	actions := &recordingActions{}
	m := newTestModel(actions)
	m, _ = update(t, m, MenuMsg{Menu: testMenu(50, 50, false)})

	m, _ = update(t, m, keyMsg("m"))
	if !m.menu.IsOpen() {
		t.Fatal("m should open the menu")
	}
	if !strings.Contains(m.View(), "RAM Warnung ab") {
		t.Errorf("menu view:\n%s", m.View())
	}

	// Second entry is the CPU submenu; its cursor starts on the checked 50%.
	m, _ = update(t, m, keyMsg("down"))
	m, _ = update(t, m, keyMsg("enter"))
	if m.menu.sub != 1 || m.menu.subCursor != 4 {
		t.Fatalf("submenu = %d cursor = %d, want 1 and 4", m.menu.sub, m.menu.subCursor)
	}
	if !strings.Contains(m.View(), "(•) 50%") {
		t.Errorf("checked level not marked:\n%s", m.View())
	}

	m, _ = update(t, m, keyMsg("down"))
	m, _ = update(t, m, keyMsg("down"))
	m, cmd := update(t, m, keyMsg("enter"))
	if m.menu.IsOpen() {
		t.Error("selecting a level closes the menu")
	}
	if cmd == nil {
		t.Fatal("expected an action command")
	}
	m, _ = update(t, m, cmd())

	if len(actions.thresholds) != 1 || actions.thresholds[0] != "cpu:70" {
		t.Errorf("actions = %v, want [cpu:70]", actions.thresholds)
	}
}

func TestModel_MenuToggleAutostart(t *testing.T) {
	actions := &recordingActions{}
	m := newTestModel(actions)
	m, _ = update(t, m, MenuMsg{Menu: testMenu(50, 50, true)})

	m, _ = update(t, m, keyMsg("m"))
	m, _ = update(t, m, keyMsg("down"))
	m, _ = update(t, m, keyMsg("down"))
	if !strings.Contains(m.View(), "[x] Autostart") {
		t.Errorf("autostart checkbox not rendered:\n%s", m.View())
	}
	_, cmd := update(t, m, keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected an action command")
	}
	cmd()

	if len(actions.autostart) != 1 || actions.autostart[0] {
		t.Errorf("autostart calls = %v, want [false]", actions.autostart)
	}
}

func TestModel_MenuQuit(t *testing.T) {
	m := newTestModel(&recordingActions{})
	m, _ = update(t, m, MenuMsg{Menu: testMenu(50, 50, false)})
	m, _ = update(t, m, keyMsg("m"))
	for i := 0; i < 3; i++ {
		m, _ = update(t, m, keyMsg("down"))
	}
	if !strings.Contains(m.View(), "› Beenden") {
		t.Errorf("cursor should be on Beenden:\n%s", m.View())
	}
	_, cmd := update(t, m, keyMsg("enter"))
	if !isQuit(cmd) {
		t.Error("Beenden should quit")
	}
}

func TestModel_MenuBackAndClose(t *testing.T) {
	m := newTestModel(&recordingActions{})
	m, _ = update(t, m, MenuMsg{Menu: testMenu(50, 50, false)})
	m, _ = update(t, m, keyMsg("m"))
	m, _ = update(t, m, keyMsg("enter"))
	if m.menu.sub != 0 {
		t.Fatalf("sub = %d, want RAM submenu", m.menu.sub)
	}
	m, _ = update(t, m, keyMsg("esc"))
	if m.menu.sub != -1 || !m.menu.IsOpen() {
		t.Error("esc in a submenu returns to the top level")
	}
	m, _ = update(t, m, keyMsg("esc"))
	if m.menu.IsOpen() {
		t.Error("esc at the top level closes the menu")
	}
}

func TestModel_MenuRebuildWhileOpen(t *testing.T) {
	m := newTestModel(&recordingActions{})
	m, _ = update(t, m, MenuMsg{Menu: testMenu(50, 50, false)})
	m, _ = update(t, m, keyMsg("m"))
	m, _ = update(t, m, MenuMsg{Menu: testMenu(50, 90, true)})

	if !m.menu.IsOpen() {
		t.Error("a rebuilt menu must not close the overlay")
	}
	if level, ok := m.levelFor(threshold.CPU); !ok || level != 90 {
		t.Errorf("levelFor(cpu) = %d, %v", level, ok)
	}
}

func TestModel_ActionErrorShownAsNote(t *testing.T) {
	m := newTestModel(&recordingActions{})
	m, _ = update(t, m, actionDoneMsg{err: errors.New("boom")})
	if len(m.notes) != 1 || !strings.Contains(m.notes[0].message, "boom") {
		t.Errorf("notes = %+v", m.notes)
	}
}

func TestModel_TickAdvancesUptime(t *testing.T) {
	m := newTestModel(&recordingActions{})
	m, cmd := update(t, m, TickMsg(m.header.startTime.Add(75*time.Second)))
	if cmd == nil {
		t.Error("tick should re-arm itself")
	}
	if !strings.Contains(m.header.View(), "1m15s") {
		t.Errorf("header = %q", m.header.View())
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(&recordingActions{})
	m, _ = update(t, m, keyMsg("?"))
	if !m.help.ShowAll {
		t.Error("? should expand the help")
	}
}
