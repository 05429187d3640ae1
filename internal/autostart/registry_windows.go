//go:build windows

package autostart

import (
	"errors"

	"golang.org/x/sys/windows/registry"

	apperrors "github.com/agbru/usagewarn/internal/errors"
)

// runKey is the per-user list of programs started at login.
const runKey = `Software\Microsoft\Windows\CurrentVersion\Run`

// RegistryRegistrar implements Registrar with a value under HKCU\...\Run.
type RegistryRegistrar struct {
	name string
	exe  string
}

// Verify interface compliance.
var _ Registrar = (*RegistryRegistrar)(nil)

func newPlatformRegistrar(id Identity) (Registrar, error) {
	return &RegistryRegistrar{name: id.Name, exe: id.Executable}, nil
}

// SetEnabled adds or deletes the Run value.
func (r *RegistryRegistrar) SetEnabled(enabled bool) error {
	if !enabled {
		k, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		if err != nil {
			return apperrors.AutostartError{Op: "disable", Cause: err}
		}
		defer k.Close()
		if err := k.DeleteValue(r.name); err != nil && !errors.Is(err, registry.ErrNotExist) {
			return apperrors.AutostartError{Op: "disable", Cause: err}
		}
		return nil
	}

	k, _, err := registry.CreateKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if err != nil {
		return apperrors.AutostartError{Op: "enable", Cause: err}
	}
	defer k.Close()
	if err := k.SetStringValue(r.name, `"`+r.exe+`"`); err != nil {
		return apperrors.AutostartError{Op: "enable", Cause: err}
	}
	return nil
}

// IsEnabled reports whether the Run value exists.
func (r *RegistryRegistrar) IsEnabled() (bool, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.QUERY_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.AutostartError{Op: "query", Cause: err}
	}
	defer k.Close()

	if _, _, err := k.GetStringValue(r.name); err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, apperrors.AutostartError{Op: "query", Cause: err}
	}
	return true, nil
}
