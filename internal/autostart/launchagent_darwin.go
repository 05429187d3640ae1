//go:build darwin

package autostart

import (
	"os"

	apperrors "github.com/agbru/usagewarn/internal/errors"
)

func newPlatformRegistrar(id Identity) (Registrar, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, apperrors.AutostartError{Op: "resolve home", Cause: err}
	}
	return NewLaunchAgentRegistrar(home, id), nil
}
