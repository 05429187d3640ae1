// Package settings persists the user's warning levels and autostart choice.
//
// The record lives in a small JSON file:
//
//	{
//	  "ramWarningLevel": 50,
//	  "cpuWarningLevel": 50,
//	  "autostart": false
//	}
//
// Loading never fails. A missing, unreadable or malformed file yields the
// defaults, and each field that is absent or not of the expected JSON type
// falls back to its own default while the others are kept. Levels are taken
// as-is: any JSON number is accepted without range checks. The file is only
// written by an explicit Save.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/agbru/usagewarn/internal/errors"
	"github.com/agbru/usagewarn/internal/logging"
	"github.com/agbru/usagewarn/internal/threshold"
)

// Default warning levels, in percent.
const (
	DefaultRAMWarningLevel = 50
	DefaultCPUWarningLevel = 50
)

// FileName is the settings file name inside the application config dir.
const FileName = "settings.json"

// Settings is the persisted user configuration.
type Settings struct {
	RAMWarningLevel float64 `json:"ramWarningLevel"`
	CPUWarningLevel float64 `json:"cpuWarningLevel"`
	Autostart       bool    `json:"autostart"`
}

// Defaults returns the settings used when nothing valid is on disk.
func Defaults() Settings {
	return Settings{
		RAMWarningLevel: DefaultRAMWarningLevel,
		CPUWarningLevel: DefaultCPUWarningLevel,
	}
}

// Level returns the warning level configured for metric.
func (s Settings) Level(metric threshold.Metric) float64 {
	if metric == threshold.RAM {
		return s.RAMWarningLevel
	}
	return s.CPUWarningLevel
}

// WithLevel returns a copy of s with the level for metric replaced.
func (s Settings) WithLevel(metric threshold.Metric, level float64) Settings {
	if metric == threshold.RAM {
		s.RAMWarningLevel = level
	} else {
		s.CPUWarningLevel = level
	}
	return s
}

// DefaultPath returns <user config dir>/<appDir>/settings.json.
func DefaultPath(appDir string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, FileName), nil
}

// Store reads and writes the settings file.
type Store struct {
	path   string
	logger logging.Logger
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load reads the settings file. It always returns a usable record; problems
// are logged and replaced by defaults.
func (s *Store) Load() Settings {
	defaults := Defaults()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no settings file, using defaults", logging.String("path", s.path))
		return defaults
	}
	if err != nil {
		s.logger.Error("reading settings failed, using defaults",
			apperrors.SettingsError{Op: "read", Path: s.path, Cause: err})
		return defaults
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		s.logger.Error("settings file is malformed, using defaults",
			apperrors.SettingsError{Op: "decode", Path: s.path, Cause: err})
		return defaults
	}

	loaded := defaults
	if v, ok := s.number(fields, "ramWarningLevel"); ok {
		loaded.RAMWarningLevel = v
	}
	if v, ok := s.number(fields, "cpuWarningLevel"); ok {
		loaded.CPUWarningLevel = v
	}
	if v, ok := s.boolean(fields, "autostart"); ok {
		loaded.Autostart = v
	}

	s.logger.Info("settings loaded",
		logging.String("path", s.path),
		logging.Float64("ramWarningLevel", loaded.RAMWarningLevel),
		logging.Float64("cpuWarningLevel", loaded.CPUWarningLevel))
	return loaded
}

// number decodes fields[key] when it holds a JSON number.
func (s *Store) number(fields map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Debug("ignoring non-numeric setting", logging.String("key", key), logging.Err(err))
		return 0, false
	}
	return v, true
}

func (s *Store) boolean(fields map[string]json.RawMessage, key string) (bool, bool) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return false, false
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Debug("ignoring non-boolean setting", logging.String("key", key), logging.Err(err))
		return false, false
	}
	return v, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Save overwrites the settings file with rec. Failures are logged and
// returned; the caller's in-memory record stays authoritative either way.
func (s *Store) Save(rec Settings) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		err = apperrors.SettingsError{Op: "encode", Path: s.path, Cause: err}
		s.logger.Error("encoding settings failed", err)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		err = apperrors.SettingsError{Op: "write", Path: s.path, Cause: err}
		s.logger.Error("creating settings directory failed", err)
		return err
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		err = apperrors.SettingsError{Op: "write", Path: s.path, Cause: err}
		s.logger.Error("writing settings failed", err)
		return err
	}

	s.logger.Debug("settings saved", logging.String("path", s.path))
	return nil
}
