//go:build !windows && !darwin

package autostart

import (
	"os"

	apperrors "github.com/agbru/usagewarn/internal/errors"
)

func newPlatformRegistrar(id Identity) (Registrar, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, apperrors.AutostartError{Op: "resolve config dir", Cause: err}
	}
	return NewXDGRegistrar(dir, id), nil
}
