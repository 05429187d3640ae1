package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/usagewarn/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the engine's goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe). Without a
// program the message is dropped.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Sink forwards engine output to the dashboard as bubbletea messages. It
// can be handed to the engine before the program exists; messages sent
// before Run are dropped.
type Sink struct {
	ref *programRef
	now func() time.Time
}

// Verify interface compliance.
var (
	_ orchestration.Presenter    = (*Sink)(nil)
	_ orchestration.Notifier     = (*Sink)(nil)
	_ orchestration.MenuRenderer = (*Sink)(nil)
)

// NewSink returns a sink not yet attached to a program.
func NewSink() *Sink {
	return &Sink{ref: &programRef{}, now: time.Now}
}

// Present sends the tick's readings.
func (s *Sink) Present(readings []orchestration.Reading) {
	s.ref.Send(ReadingsMsg{Readings: readings})
}

// Notify sends a notification stamped with the current time.
func (s *Sink) Notify(message string) {
	s.ref.Send(NotificationMsg{Message: message, At: s.now()})
}

// RenderMenu sends the rebuilt menu.
func (s *Sink) RenderMenu(menu orchestration.MenuState) {
	s.ref.Send(MenuMsg{Menu: menu})
}
