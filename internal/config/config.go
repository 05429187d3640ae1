// Package config parses the command line and environment into AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/usagewarn/internal/errors"
	"github.com/agbru/usagewarn/internal/settings"
)

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "USAGEWARN_"

// AppDir is the directory under the user config dir that holds the settings.
const AppDir = "usagewarn"

// Defaults.
const (
	DefaultInterval = time.Second
	DefaultLogLevel = "info"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// AppConfig aggregates the process-level configuration. User-editable
// warning levels live in the settings file, not here.
type AppConfig struct {
	// Interval is the sampling period.
	Interval time.Duration
	// SettingsPath is the JSON settings file.
	SettingsPath string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFile receives the log. Empty means stderr for console runs and
	// usagewarn.log next to the settings file for the dashboard.
	LogFile string
	// TUI enables the interactive dashboard. When false, readings and
	// notifications go to the console.
	TUI bool
	// NoColor disables colour output.
	NoColor bool
	// Once samples a single interval, prints the readings and exits.
	Once bool
	// Quiet suppresses the console status line in headless mode.
	Quiet bool
}

// ParseConfig parses args (without the program name) and applies
// environment overrides for flags that were not set explicitly. Errors are
// written to errWriter by the flag package; -h returns flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errWriter, "Warns when CPU or RAM utilisation reaches the configured level.")
		fmt.Fprintln(errWriter, "\nOptions:")
		fs.PrintDefaults()
		fmt.Fprintf(errWriter, "\nEvery option can also be set through %s<NAME>, e.g. %sINTERVAL=2s.\n", EnvPrefix, EnvPrefix)
	}

	config := AppConfig{}
	fs.DurationVar(&config.Interval, "interval", DefaultInterval, "Sampling period (minimum 1s).")
	fs.StringVar(&config.SettingsPath, "settings", "", "Path of the settings file (default: <user config dir>/usagewarn/settings.json).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: "+strings.Join(validLogLevels, ", ")+".")
	fs.StringVar(&config.LogFile, "log-file", "", "Write the log to this file instead of the default location.")
	fs.BoolVar(&config.TUI, "tui", true, "Run the interactive terminal dashboard.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colours (NO_COLOR is also honoured).")
	fs.BoolVar(&config.Once, "once", false, "Sample one interval, print CPU and RAM usage and exit.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Headless mode: no status line, notifications only.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		err := apperrors.NewConfigError("unexpected argument: %q", fs.Arg(0))
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	if config.SettingsPath == "" {
		path, err := settings.DefaultPath(AppDir)
		if err != nil {
			return AppConfig{}, apperrors.NewConfigError("cannot determine settings location: %v (use --settings)", err)
		}
		config.SettingsPath = path
	}
	config.LogLevel = strings.ToLower(config.LogLevel)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks semantic constraints that the flag package cannot express.
func (c AppConfig) Validate() error {
	if c.Interval < time.Second {
		return apperrors.NewConfigError("interval must be at least 1s, got %s", c.Interval)
	}
	if c.SettingsPath == "" {
		return apperrors.NewConfigError("settings path must not be empty")
	}
	for _, l := range validLogLevels {
		if c.LogLevel == l {
			return nil
		}
	}
	return apperrors.NewConfigError("unknown log level %q (valid: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
}
