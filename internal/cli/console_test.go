package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/usagewarn/internal/orchestration"
	"github.com/agbru/usagewarn/internal/threshold"
	"github.com/agbru/usagewarn/internal/ui"
	"github.com/agbru/usagewarn/internal/usage"
)

// MockSpinner for testing
type MockSpinner struct {
	mu     sync.Mutex
	starts int
	stops  int
	suffix string
}

func (m *MockSpinner) Start() {
	m.mu.Lock()
	m.starts++
	m.mu.Unlock()
}

func (m *MockSpinner) Stop() {
	m.mu.Lock()
	m.stops++
	m.mu.Unlock()
}

func (m *MockSpinner) UpdateSuffix(suffix string) {
	m.mu.Lock()
	m.suffix = suffix
	m.mu.Unlock()
}

func withMockSpinner(t *testing.T) *MockSpinner {
	t.Helper()
	original := newSpinner
	t.Cleanup(func() { newSpinner = original })
	mockS := &MockSpinner{}
	newSpinner = func(options ...spinner.Option) Spinner { return mockS }
	return mockS
}

func withNoColor(t *testing.T) {
	t.Helper()
	orig := ui.GetCurrentTheme()
	t.Cleanup(func() { ui.SetCurrentTheme(orig) })
	ui.SetCurrentTheme(ui.NoColorTheme)
}

func readings(cpu, ram int) []orchestration.Reading {
	return []orchestration.Reading{
		orchestration.NewReading(threshold.CPU, usage.Percent(cpu)),
		orchestration.NewReading(threshold.RAM, usage.Percent(ram)),
	}
}

func TestConsoleSink_PresentUpdatesStatusLine(t *testing.T) {
	mockS := withMockSpinner(t)
	withNoColor(t)

	var out bytes.Buffer
	sink := NewConsoleSink(&out, false)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sink.now = func() time.Time { return base }
	sink.Start()

	sink.now = func() time.Time { return base.Add(65 * time.Second) }
	sink.Present(readings(42, 63))

	want := " CPU  42% │ RAM  63%  (1m05s)"
	if mockS.suffix != want {
		t.Errorf("suffix = %q, want %q", mockS.suffix, want)
	}
	if mockS.starts != 1 {
		t.Errorf("spinner started %d times, want 1", mockS.starts)
	}
	if out.Len() != 0 {
		t.Errorf("Present should not print lines, got %q", out.String())
	}
}

func TestConsoleSink_NotifyPausesSpinner(t *testing.T) {
	mockS := withMockSpinner(t)
	withNoColor(t)

	var out bytes.Buffer
	sink := NewConsoleSink(&out, false)
	sink.now = func() time.Time { return time.Date(2024, 1, 1, 8, 30, 15, 0, time.UTC) }
	sink.Start()
	sink.Notify("CPU-Warnung: 91% Auslastung")

	if got := out.String(); got != "[08:30:15] CPU-Warnung: 91% Auslastung\n" {
		t.Errorf("output = %q", got)
	}
	if mockS.stops != 1 || mockS.starts != 2 {
		t.Errorf("spinner stops=%d starts=%d, want 1 and 2", mockS.stops, mockS.starts)
	}

	sink.Stop()
	sink.Stop()
	if mockS.stops != 2 {
		t.Errorf("Stop should be idempotent, stops = %d", mockS.stops)
	}
}

func TestConsoleSink_Quiet(t *testing.T) {
	mockS := withMockSpinner(t)
	withNoColor(t)

	var out bytes.Buffer
	sink := NewConsoleSink(&out, true)
	sink.Start()
	sink.Present(readings(10, 20))
	sink.RenderMenu(orchestration.MenuState{})
	sink.Notify(orchestration.StartupMessage)
	sink.Stop()

	if mockS.starts != 0 || mockS.suffix != "" {
		t.Error("quiet mode must not use the spinner")
	}
	if !strings.HasSuffix(out.String(), orchestration.StartupMessage+"\n") {
		t.Errorf("output = %q", out.String())
	}
	if strings.Count(out.String(), "\n") != 1 {
		t.Errorf("quiet mode prints notifications only, got %q", out.String())
	}
}

func TestFormatReadings_Colours(t *testing.T) {
	t.Parallel()
	got := FormatReadings(readings(85, 10), ui.DarkTheme)
	if !strings.HasPrefix(got, ui.DarkTheme.Alert+"CPU  85%") {
		t.Errorf("alert reading not coloured red: %q", got)
	}
	if !strings.Contains(got, ui.DarkTheme.Normal+"RAM  10%") {
		t.Errorf("normal reading not coloured green: %q", got)
	}
}

func TestFormatMenu(t *testing.T) {
	t.Parallel()
	menu := orchestration.MenuState{
		Levels: []orchestration.LevelMenu{
			{Title: "RAM Warnung ab", Choices: []orchestration.LevelChoice{{Level: 50, Checked: true}}},
			{Title: "CPU Warnung ab", Choices: []orchestration.LevelChoice{{Level: 50}}},
		},
		Autostart: true,
	}
	want := "RAM Warnung ab 50% · CPU Warnung ab - · Autostart an"
	if got := FormatMenu(menu); got != want {
		t.Errorf("FormatMenu = %q, want %q", got, want)
	}
}

func TestPrintReadings(t *testing.T) {
	withNoColor(t)
	var out bytes.Buffer
	PrintReadings(&out, readings(7, 100))

	want := "CPU Auslastung: 7%\nRAM Auslastung: 100%\n"
	if out.String() != want {
		t.Errorf("PrintReadings = %q, want %q", out.String(), want)
	}
}
