package tui

import (
	"time"

	"github.com/agbru/usagewarn/internal/orchestration"
)

// ReadingsMsg carries the readings of one tick.
type ReadingsMsg struct {
	Readings []orchestration.Reading
}

// NotificationMsg carries a message for the notification list.
type NotificationMsg struct {
	Message string
	At      time.Time
}

// MenuMsg carries a rebuilt menu.
type MenuMsg struct {
	Menu orchestration.MenuState
}

// TickMsg refreshes the uptime display.
type TickMsg time.Time

// actionDoneMsg reports the outcome of a menu action.
type actionDoneMsg struct {
	err error
}
