package config

import (
	"bytes"
	"errors"
	"flag"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/usagewarn/internal/errors"
)

func TestParseConfig_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, o := range envOverrides {
		t.Setenv(EnvPrefix+o.envKey, "")
	}

	cfg, err := ParseConfig("usagewarn", nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Interval != DefaultInterval {
		t.Errorf("Interval = %v, want %v", cfg.Interval, DefaultInterval)
	}
	if !cfg.TUI {
		t.Error("TUI should default to true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if !strings.HasSuffix(cfg.SettingsPath, filepath.Join(AppDir, "settings.json")) {
		t.Errorf("SettingsPath = %q", cfg.SettingsPath)
	}
	if cfg.Once || cfg.Quiet || cfg.NoColor {
		t.Errorf("unexpected boolean defaults: %+v", cfg)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	t.Setenv(EnvPrefix+"INTERVAL", "")
	args := []string{"--interval", "5s", "--settings", "/tmp/s.json", "--log-level", "DEBUG", "--log-file", "/tmp/u.log", "--tui=false", "--no-color", "--once", "-q"}

	cfg, err := ParseConfig("usagewarn", args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	want := AppConfig{
		Interval:     5 * time.Second,
		SettingsPath: "/tmp/s.json",
		LogLevel:     "debug",
		LogFile:      "/tmp/u.log",
		TUI:          false,
		NoColor:      true,
		Once:         true,
		Quiet:        true,
	}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"INTERVAL", "3s")
	t.Setenv(EnvPrefix+"SETTINGS", "/env/settings.json")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "warn")
	t.Setenv(EnvPrefix+"LOG_FILE", "/env/u.log")
	t.Setenv(EnvPrefix+"TUI", "no")
	t.Setenv(EnvPrefix+"QUIET", "1")

	cfg, err := ParseConfig("usagewarn", nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Interval != 3*time.Second || cfg.SettingsPath != "/env/settings.json" || cfg.LogLevel != "warn" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.LogFile != "/env/u.log" {
		t.Errorf("LogFile = %q", cfg.LogFile)
	}
	if cfg.TUI || !cfg.Quiet {
		t.Errorf("boolean env not applied: %+v", cfg)
	}
}

func TestParseConfig_FlagBeatsEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"INTERVAL", "9s")
	t.Setenv(EnvPrefix+"QUIET", "true")

	cfg, err := ParseConfig("usagewarn", []string{"--interval=2s", "--quiet=false", "--settings=/x.json"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval = %v, want flag value 2s", cfg.Interval)
	}
	if cfg.Quiet {
		t.Error("explicit --quiet=false must win over the environment")
	}
}

func TestParseConfig_InvalidEnvIgnored(t *testing.T) {
	t.Setenv(EnvPrefix+"INTERVAL", "soon")
	t.Setenv(EnvPrefix+"TUI", "maybe")

	cfg, err := ParseConfig("usagewarn", []string{"--settings=/x.json"}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != DefaultInterval || !cfg.TUI {
		t.Errorf("unparseable env values should be ignored: %+v", cfg)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	t.Setenv(EnvPrefix+"INTERVAL", "")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "")

	tests := []struct {
		name       string
		args       []string
		wantConfig bool
	}{
		{"sub-second interval", []string{"--interval=500ms", "--settings=/x.json"}, true},
		{"unknown log level", []string{"--log-level=trace", "--settings=/x.json"}, true},
		{"positional argument", []string{"--settings=/x.json", "extra"}, true},
		{"unknown flag", []string{"--bogus"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBuf bytes.Buffer
			_, err := ParseConfig("usagewarn", tt.args, &errBuf)
			if err == nil {
				t.Fatal("expected an error")
			}
			var cfgErr apperrors.ConfigError
			if got := errors.As(err, &cfgErr); got != tt.wantConfig {
				t.Errorf("ConfigError = %v, want %v (err: %v)", got, tt.wantConfig, err)
			}
			if errBuf.Len() == 0 {
				t.Error("expected a diagnostic on the error writer")
			}
		})
	}
}

func TestParseConfig_Help(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := ParseConfig("usagewarn", []string{"-h"}, &errBuf)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("error = %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(errBuf.String(), "USAGEWARN_") {
		t.Errorf("usage should mention env overrides:\n%s", errBuf.String())
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{"1", false, true},
		{"false", true, false},
		{"No", true, false},
		{"0", true, false},
		{"garbage", true, true},
		{"garbage", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}
