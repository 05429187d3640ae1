// Package autostart registers the application to start at user login.
//
// The mechanism is platform specific: a value under the current user's Run
// key on Windows, a LaunchAgent property list on macOS and an XDG autostart
// desktop entry elsewhere. All of them are keyed by the application's own
// executable path.
package autostart

import (
	"os"

	apperrors "github.com/agbru/usagewarn/internal/errors"
)

// Registrar switches login autostart on or off and reports its state.
type Registrar interface {
	// SetEnabled registers (true) or unregisters (false) the application.
	// Unregistering an application that is not registered is not an error.
	SetEnabled(enabled bool) error
	// IsEnabled reports whether the application is currently registered.
	IsEnabled() (bool, error)
}

// Identity names the application towards the OS.
type Identity struct {
	// Name is the display and registry value name, e.g. "UsageWarner".
	Name string
	// ID is a file-system safe identifier, e.g. "usagewarn".
	ID string
	// Label is the reverse-DNS label used by launchd.
	Label string
	// Executable is the absolute path started at login.
	Executable string
}

// DefaultIdentity returns the identity of the running binary.
func DefaultIdentity() (Identity, error) {
	exe, err := os.Executable()
	if err != nil {
		return Identity{}, apperrors.AutostartError{Op: "resolve executable", Cause: err}
	}
	return Identity{
		Name:       "UsageWarner",
		ID:         "usagewarn",
		Label:      "com.agbru.usagewarn",
		Executable: exe,
	}, nil
}

// New returns the registrar for the running platform.
func New(id Identity) (Registrar, error) {
	return newPlatformRegistrar(id)
}
